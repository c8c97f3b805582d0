package models

import "time"

// Task is the smallest unit of work tracked by the engine. The ID has the
// form <epic-id>.<n> where n is a 1-based sequence unique within the epic.
type Task struct {
	ID          string     `json:"id"`
	EpicID      string     `json:"epic_id"`
	Title       string     `json:"title"`
	Status      Status     `json:"status"`
	DependsOn   []string   `json:"depends_on"`
	BlockedBy   string     `json:"blocked_by,omitempty"`
	DoneSummary string     `json:"done_summary,omitempty"`
	SpecRef     string     `json:"spec_ref,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// NewTask returns a Task in the initial pending state with both timestamps
// set to now. dependsOn may be nil.
func NewTask(id, epicID, title string, dependsOn []string) *Task {
	now := time.Now().UTC()
	if dependsOn == nil {
		dependsOn = []string{}
	}
	return &Task{
		ID:        id,
		EpicID:    epicID,
		Title:     title,
		Status:    StatusPending,
		DependsOn: dependsOn,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
