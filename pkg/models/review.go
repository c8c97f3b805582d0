package models

import "time"

// Verdict is the outcome of a single review iteration.
type Verdict string

const (
	VerdictShip         Verdict = "SHIP"
	VerdictNeedsWork    Verdict = "NEEDS_WORK"
	VerdictMajorRethink Verdict = "MAJOR_RETHINK"
)

// AllVerdicts lists every valid verdict.
var AllVerdicts = []Verdict{VerdictShip, VerdictNeedsWork, VerdictMajorRethink}

// Valid reports whether v is one of the known verdicts.
func (v Verdict) Valid() bool {
	switch v {
	case VerdictShip, VerdictNeedsWork, VerdictMajorRethink:
		return true
	default:
		return false
	}
}

// ReviewRecord is an append-only receipt of one review iteration for a task.
// Records are never mutated or deleted once written.
type ReviewRecord struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	EpicID    string    `json:"epic_id"`
	Iteration int       `json:"iteration"`
	Verdict   Verdict   `json:"verdict"`
	Escalated bool      `json:"escalated,omitempty"`
	Reviewer  string    `json:"reviewer"`
	Notes     string    `json:"notes,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
