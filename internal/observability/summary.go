package observability

import (
	"github.com/valter-silva-au/taskctl/internal/core"
	"github.com/valter-silva-au/taskctl/internal/storage"
	"github.com/valter-silva-au/taskctl/pkg/models"
)

// EpicProgress summarizes one epic's task completion.
type EpicProgress struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Status    models.Status `json:"status"`
	TaskCount int           `json:"task_count"`
	TasksDone int           `json:"tasks_done"`
}

// StatusSummary is a point-in-time snapshot of the whole backlog.
type StatusSummary struct {
	EpicTotal     int                   `json:"epic_total"`
	TaskTotal     int                   `json:"task_total"`
	EpicsByStatus map[models.Status]int `json:"epics_by_status"`
	TasksByStatus map[models.Status]int `json:"tasks_by_status"`
	ReadyTasks    []string              `json:"ready_tasks"`
	Epics         []EpicProgress        `json:"epics"`
}

// Summarizer computes backlog status snapshots.
type Summarizer interface {
	Summarize() (*StatusSummary, error)
}

type summarizer struct {
	epics storage.EpicStore
	tasks storage.TaskStore
}

// NewSummarizer creates a Summarizer over the given stores.
func NewSummarizer(epics storage.EpicStore, tasks storage.TaskStore) Summarizer {
	return &summarizer{epics: epics, tasks: tasks}
}

func (s *summarizer) Summarize() (*StatusSummary, error) {
	epics, err := s.epics.List()
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListAll()
	if err != nil {
		return nil, err
	}

	summary := &StatusSummary{
		EpicTotal:     len(epics),
		TaskTotal:     len(tasks),
		EpicsByStatus: make(map[models.Status]int),
		TasksByStatus: make(map[models.Status]int),
	}
	for _, epic := range epics {
		summary.EpicsByStatus[epic.Status]++
		summary.Epics = append(summary.Epics, EpicProgress{
			ID:        epic.ID,
			Title:     epic.Title,
			Status:    epic.Status,
			TaskCount: epic.TaskCount,
			TasksDone: epic.TasksDone,
		})
	}
	for _, task := range tasks {
		summary.TasksByStatus[task.Status]++
	}
	for _, task := range core.ReadyTasks(tasks) {
		summary.ReadyTasks = append(summary.ReadyTasks, task.ID)
	}
	return summary, nil
}
