package scenario

// CaseAggregates mirrors the session aggregates a case runs under.
type CaseAggregates struct {
	AIDependency  float64        `yaml:"ai_dependency"`
	NoWorkStreak  int            `yaml:"no_work_streak"`
	Interventions map[string]int `yaml:"interventions,omitempty"`
}

// Expectation is what a case asserts about the evaluation.
type Expectation struct {
	Semaphore    string   `yaml:"semaphore"`
	ResponseType string   `yaml:"response_type,omitempty"`
	Blocked      *bool    `yaml:"blocked,omitempty"`
	Restrictions []string `yaml:"restrictions,omitempty"`
	RiskTypes    []string `yaml:"risk_types,omitempty"`
}

// Case is one student message plus the expected governance outcome.
type Case struct {
	Message    string         `yaml:"message"`
	Aggregates CaseAggregates `yaml:"aggregates,omitempty"`
	Expect     Expectation    `yaml:"expect"`
}

// Scenario is a named collection of governance test cases.
type Scenario struct {
	Name  string `yaml:"name"`
	Cases []Case `yaml:"cases"`
}

// CaseResult is the outcome of evaluating one test case.
type CaseResult struct {
	Index    int    `json:"index"`
	Passed   bool   `json:"passed"`
	Message  string `json:"message"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Reason   string `json:"reason"`
}

// RunResult is the outcome of running all cases in one scenario file.
type RunResult struct {
	File   string       `json:"file"`
	Name   string       `json:"name"`
	Total  int          `json:"total"`
	Passed int          `json:"passed"`
	Failed int          `json:"failed"`
	Cases  []CaseResult `json:"cases"`
}
