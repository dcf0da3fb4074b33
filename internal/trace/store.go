// Package trace is the reference TraceSink: every evaluated turn and its
// risks land in a local SQLite database for audit and replay. The store is
// append-only; the pipeline never updates or deletes a recorded turn.
package trace

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/cortezalberto/aulaguard/internal/model"
	"github.com/cortezalberto/aulaguard/internal/pipeline"
)

const schema = `
CREATE TABLE IF NOT EXISTS turns (
	id              TEXT PRIMARY KEY,
	session_id      TEXT NOT NULL,
	student_id      TEXT,
	ts              TEXT NOT NULL,
	message         TEXT NOT NULL,
	pii_found       INTEGER NOT NULL,
	intent          TEXT NOT NULL,
	cognitive_state TEXT NOT NULL,
	semaphore       TEXT NOT NULL,
	rule_id         TEXT NOT NULL,
	classification  TEXT NOT NULL,
	strategy        TEXT NOT NULL,
	risk_score      INTEGER NOT NULL,
	band            TEXT NOT NULL,
	config_hash     TEXT
);
CREATE INDEX IF NOT EXISTS idx_turns_session ON turns(session_id);

CREATE TABLE IF NOT EXISTS risks (
	turn_id        TEXT NOT NULL REFERENCES turns(id),
	dimension      TEXT NOT NULL,
	type           TEXT NOT NULL,
	level          TEXT NOT NULL,
	evidence       TEXT,
	recommendation TEXT
);
CREATE INDEX IF NOT EXISTS idx_risks_turn ON risks(turn_id);
`

// Store persists pipeline records in SQLite.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens (creating if needed) the trace database at path.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open trace db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate trace db: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Record inserts one turn and its risks in a single transaction.
func (s *Store) Record(ctx context.Context, rec pipeline.Record) error {
	classification, err := json.Marshal(rec.Classification)
	if err != nil {
		return fmt.Errorf("marshal classification: %w", err)
	}
	strat, err := json.Marshal(rec.Strategy)
	if err != nil {
		return fmt.Errorf("marshal strategy: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO turns
		(id, session_id, student_id, ts, message, pii_found, intent, cognitive_state,
		 semaphore, rule_id, classification, strategy, risk_score, band, config_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.SessionID, rec.StudentID, rec.Timestamp, rec.Message,
		boolToInt(rec.PIIFound), string(rec.Classification.Intent),
		string(rec.Classification.CognitiveState), string(rec.Semaphore),
		rec.RuleID, string(classification), string(strat), rec.RiskScore,
		string(rec.Band), rec.ConfigHash)
	if err != nil {
		return fmt.Errorf("insert turn: %w", err)
	}

	for _, r := range rec.Risks {
		evidence, err := json.Marshal(r.Evidence)
		if err != nil {
			return fmt.Errorf("marshal evidence: %w", err)
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO risks
			(turn_id, dimension, type, level, evidence, recommendation)
			VALUES (?, ?, ?, ?, ?, ?)`,
			rec.ID, string(r.Dimension), string(r.Type), string(r.Level),
			string(evidence), r.Recommendation)
		if err != nil {
			return fmt.Errorf("insert risk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.logger.Debug("turn recorded",
		zap.String("id", rec.ID),
		zap.String("session_id", rec.SessionID),
		zap.Int("risks", len(rec.Risks)))
	return nil
}

// SessionSummary is the recomputable reporting view over one session.
type SessionSummary struct {
	SessionID  string             `json:"session_id"`
	Turns      int                `json:"turns"`
	Blocked    int                `json:"blocked"`
	TotalScore int                `json:"total_score"`
	Band       model.SeverityBand `json:"band"`
}

// Summarize recomputes the session severity band from stored turns. The
// band is never stored as authoritative state; this derives it on demand.
func (s *Store) Summarize(ctx context.Context, sessionID string) (*SessionSummary, error) {
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*),
		COALESCE(SUM(CASE WHEN semaphore = 'red' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(risk_score), 0)
		FROM turns WHERE session_id = ?`, sessionID)

	sum := &SessionSummary{SessionID: sessionID}
	if err := row.Scan(&sum.Turns, &sum.Blocked, &sum.TotalScore); err != nil {
		return nil, fmt.Errorf("summarize session: %w", err)
	}
	sum.Band = model.Band(sum.TotalScore)
	return sum, nil
}

// RisksBySession returns all risks recorded for a session, oldest first.
func (s *Store) RisksBySession(ctx context.Context, sessionID string) ([]model.Risk, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT r.dimension, r.type, r.level, r.evidence, r.recommendation
		FROM risks r JOIN turns t ON t.id = r.turn_id
		WHERE t.session_id = ? ORDER BY t.ts`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query risks: %w", err)
	}
	defer rows.Close()

	var out []model.Risk
	for rows.Next() {
		var r model.Risk
		var dim, typ, level, evidence string
		if err := rows.Scan(&dim, &typ, &level, &evidence, &r.Recommendation); err != nil {
			return nil, fmt.Errorf("scan risk: %w", err)
		}
		r.Dimension = model.RiskDimension(dim)
		r.Type = model.RiskType(typ)
		r.Level = model.RiskLevel(level)
		if evidence != "" {
			if err := json.Unmarshal([]byte(evidence), &r.Evidence); err != nil {
				return nil, fmt.Errorf("decode evidence: %w", err)
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
