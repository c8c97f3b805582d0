package models

import "time"

// Epic represents a top-level unit of work decomposed into tasks.
// The ID has the form <prefix>-<sequence>-<suffix> (e.g. ca-3-f2b) and is
// immutable once created.
type Epic struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Status          Status    `json:"status"`
	ComplexityScore int       `json:"complexity_score,omitempty"`
	TaskCount       int       `json:"task_count"`
	TasksDone       int       `json:"tasks_done"`
	SpecRef         string    `json:"spec_ref,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewEpic returns an Epic in the initial pending state with both timestamps
// set to now.
func NewEpic(id, title string, complexity int) *Epic {
	now := time.Now().UTC()
	return &Epic{
		ID:              id,
		Title:           title,
		Status:          StatusPending,
		ComplexityScore: complexity,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
