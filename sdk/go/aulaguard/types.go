package aulaguard

import (
	"fmt"

	"github.com/cortezalberto/aulaguard/internal/model"
)

// Semaphore is the traffic-light governance outcome.
type Semaphore string

const (
	Green  Semaphore = Semaphore(model.Green)
	Yellow Semaphore = Semaphore(model.Yellow)
	Red    Semaphore = Semaphore(model.Red)
)

// Turn is one prior exchange in the conversation history. Role is
// "student" or "tutor".
type Turn struct {
	Role    string
	Content string
}

// Request is one student message plus its session context.
type Request struct {
	SessionID    string
	StudentID    string
	Message      string
	History      []Turn
	AIDependency float64 // average AI dependency for the session, 0 to 1
	NoWorkStreak int     // consecutive requests without own work shown
}

// Result is the governance decision for one message.
type Result struct {
	Semaphore    Semaphore
	Reason       string
	RuleID       string
	Intent       string
	ResponseType string
	HelpLevel    string
	Restrictions []string
	Blocked      bool
	BlockReason  string
	Sanitized    string
	PIIFound     bool
}

// Allowed returns true if the turn may receive a generated reply.
func (r Result) Allowed() bool {
	return !r.Blocked
}

// BlockedError is returned by Process when governance rejects the turn.
type BlockedError struct {
	Result Result
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("aulaguard blocked (%s): %s", e.Result.Semaphore, e.Result.BlockReason)
}
