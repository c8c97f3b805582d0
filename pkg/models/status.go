// Package models defines the entity types persisted by the taskctl state
// engine: epics, tasks, review receipts, project configuration, and the
// shared status and verdict enumerations.
package models

// Status represents the lifecycle state of an epic or a task.
// Both entity kinds share the same state set and transition rules.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusBlocked    Status = "blocked"
	StatusDone       Status = "done"
	StatusCancelled  Status = "cancelled"
)

// AllStatuses lists every valid status in lifecycle order.
var AllStatuses = []Status{
	StatusPending,
	StatusInProgress,
	StatusBlocked,
	StatusDone,
	StatusCancelled,
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusBlocked, StatusDone, StatusCancelled:
		return true
	default:
		return false
	}
}

// Terminal reports whether s permits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusCancelled
}
