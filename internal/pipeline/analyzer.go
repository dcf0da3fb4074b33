package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cortezalberto/aulaguard/internal/governance"
	"github.com/cortezalberto/aulaguard/internal/model"
	"github.com/cortezalberto/aulaguard/internal/risk"
)

// Record is one fully-analyzed turn as handed to the trace sink.
type Record struct {
	ID             string               `json:"id"`
	SessionID      string               `json:"session_id"`
	StudentID      string               `json:"student_id"`
	Timestamp      string               `json:"timestamp"`
	Message        string               `json:"message"` // sanitized form only
	PIIFound       bool                 `json:"pii_found"`
	Classification model.Classification `json:"classification"`
	Semaphore      model.Semaphore      `json:"semaphore"`
	Restrictions   []model.Restriction  `json:"restrictions,omitempty"`
	RuleID         string               `json:"rule_id"`
	Strategy       model.Strategy       `json:"strategy"`
	Risks          []model.Risk         `json:"risks,omitempty"`
	RiskScore      int                  `json:"risk_score"`
	Band           model.SeverityBand   `json:"band"`
	ConfigHash     string               `json:"config_hash,omitempty"`
}

const (
	defaultQueueSize = 64
	recordTimeout    = 5 * time.Second
)

type analysisJob struct {
	sessionID  string
	studentID  string
	aggregates model.SessionAggregates
	decision   Decision
	response   string
}

// Analyzer runs risk analysis and trace recording off the request path.
// Failures are logged and swallowed; nothing here ever reaches the
// student-facing response.
type Analyzer struct {
	jobs   chan analysisJob
	wg     sync.WaitGroup
	sink   TraceSink
	cfg    *governance.Config
	hash   string
	logger *zap.Logger

	mu     sync.Mutex
	closed bool
}

func newAnalyzer(sink TraceSink, cfg *governance.Config, hash string, logger *zap.Logger, queueSize int) *Analyzer {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	a := &Analyzer{
		jobs:   make(chan analysisJob, queueSize),
		sink:   sink,
		cfg:    cfg,
		hash:   hash,
		logger: logger,
	}
	a.wg.Add(1)
	go a.run()
	return a
}

// Submit enqueues a job without blocking. When the queue is full the job
// is dropped and logged: losing one trace beats stalling a student reply.
func (a *Analyzer) Submit(j analysisJob) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	select {
	case a.jobs <- j:
	default:
		a.logger.Warn("risk analysis queue full, dropping job",
			zap.String("session_id", j.sessionID))
	}
}

// Close stops accepting jobs and waits for the queue to drain.
func (a *Analyzer) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	close(a.jobs)
	a.mu.Unlock()
	a.wg.Wait()
}

func (a *Analyzer) run() {
	defer a.wg.Done()
	for j := range a.jobs {
		a.process(j)
	}
}

func (a *Analyzer) process(j analysisJob) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("risk analysis panicked", zap.Any("panic", r))
		}
	}()

	risks := risk.Analyze(j.decision.Classification, j.aggregates, j.response, a.cfg)
	score := model.Score(risks)

	rec := Record{
		ID:             uuid.NewString(),
		SessionID:      j.sessionID,
		StudentID:      j.studentID,
		Timestamp:      utcNow(),
		Message:        j.decision.Sanitized,
		PIIFound:       j.decision.PIIFound,
		Classification: j.decision.Classification,
		Semaphore:      j.decision.Governance.Semaphore,
		Restrictions:   j.decision.Governance.Restrictions,
		RuleID:         j.decision.Governance.RuleID,
		Strategy:       j.decision.Strategy,
		Risks:          risks,
		RiskScore:      score,
		Band:           model.Band(score),
		ConfigHash:     a.hash,
	}

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	if err := a.sink.Record(ctx, rec); err != nil {
		a.logger.Warn("trace record failed",
			zap.String("session_id", j.sessionID),
			zap.Error(err))
	}
}
