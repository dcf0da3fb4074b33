package model

// RiskDimension is one of the five fixed categories for detected patterns.
type RiskDimension string

const (
	DimCognitive  RiskDimension = "cognitive"
	DimEthical    RiskDimension = "ethical"
	DimEpistemic  RiskDimension = "epistemic"
	DimTechnical  RiskDimension = "technical"
	DimGovernance RiskDimension = "governance"
)

// RiskLevel grades the severity of a single detected risk.
type RiskLevel string

const (
	LevelInfo     RiskLevel = "info"
	LevelLow      RiskLevel = "low"
	LevelMedium   RiskLevel = "medium"
	LevelHigh     RiskLevel = "high"
	LevelCritical RiskLevel = "critical"
)

// LevelWeight maps a risk level to its score contribution. The per-message
// score is the sum of weights over all fired risks, not an average.
var LevelWeight = map[RiskLevel]int{
	LevelInfo:     1,
	LevelLow:      5,
	LevelMedium:   10,
	LevelHigh:     20,
	LevelCritical: 30,
}

// RiskType is one of the 18 fixed risk codes. The catalog is closed:
// detectors never invent new codes at runtime.
type RiskType string

const (
	// Cognitive
	RiskCognitiveDelegation RiskType = "COGNITIVE_DELEGATION"
	RiskAIDependency        RiskType = "AI_DEPENDENCY"
	RiskLackJustification   RiskType = "LACK_JUSTIFICATION"
	RiskShallowReasoning    RiskType = "SHALLOW_REASONING"

	// Ethical
	RiskPlagiarismSignal  RiskType = "PLAGIARISM_SIGNAL"
	RiskAcademicIntegrity RiskType = "ACADEMIC_INTEGRITY"
	RiskPIIDisclosure     RiskType = "PII_DISCLOSURE"
	RiskAuthorshipMisrep  RiskType = "AUTHORSHIP_MISREPRESENTATION"

	// Epistemic
	RiskUncriticalAcceptance RiskType = "UNCRITICAL_ACCEPTANCE"
	RiskSingleSourceReliance RiskType = "SINGLE_SOURCE_RELIANCE"
	RiskUnverifiedClaim      RiskType = "UNVERIFIED_CLAIM"
	RiskOverconfidence       RiskType = "OVERCONFIDENCE"

	// Technical
	RiskUntestedCode       RiskType = "UNTESTED_CODE"
	RiskErrorPatternRepeat RiskType = "ERROR_PATTERN_REPEAT"
	RiskComplexityMismatch RiskType = "COMPLEXITY_MISMATCH"

	// Governance
	RiskWorkNotShown         RiskType = "WORK_NOT_SHOWN"
	RiskRepeatedIntervention RiskType = "REPEATED_INTERVENTION"
	RiskPromptManipulation   RiskType = "PROMPT_MANIPULATION"
)

// Risk is a single detected problematic pattern. Zero or more are produced
// per message; each is independently created and handed to the trace sink.
type Risk struct {
	Dimension      RiskDimension `json:"dimension"`
	Type           RiskType      `json:"type"`
	Level          RiskLevel     `json:"level"`
	Evidence       []string      `json:"evidence,omitempty"`
	Recommendation string        `json:"recommendation,omitempty"`
}

// SeverityBand is the reporting view over a cumulative risk score.
type SeverityBand string

const (
	BandLow      SeverityBand = "low"
	BandMedium   SeverityBand = "medium"
	BandHigh     SeverityBand = "high"
	BandCritical SeverityBand = "critical"
)

// Score sums the level weights of all risks.
func Score(risks []Risk) int {
	total := 0
	for _, r := range risks {
		total += LevelWeight[r.Level]
	}
	return total
}

// Band maps a cumulative score to a severity band. Derived view only:
// recompute whenever needed, never store as authoritative state.
// Low <15, Medium 15–29, High 30–39, Critical ≥40.
func Band(score int) SeverityBand {
	switch {
	case score >= 40:
		return BandCritical
	case score >= 30:
		return BandHigh
	case score >= 15:
		return BandMedium
	default:
		return BandLow
	}
}
