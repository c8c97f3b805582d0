package core

import (
	"fmt"

	"github.com/valter-silva-au/taskctl/internal/storage"
	"github.com/valter-silva-au/taskctl/pkg/models"
)

// Action kinds returned by the planner.
const (
	ActionResume       = "resume"         // a task is already in progress
	ActionStart        = "start"          // a ready task is waiting
	ActionPlan         = "needs_planning" // an epic has no tasks yet
	ActionAllDone      = "all_done"       // every epic is terminal
	ActionNothingReady = "nothing_ready"  // tasks exist but none are actionable
)

// NextAction is the planner's single recommendation.
type NextAction struct {
	Kind   string `json:"kind"`
	ID     string `json:"id,omitempty"`
	Title  string `json:"title,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// Planner recommends the single next action across the whole backlog.
type Planner interface {
	Next() (*NextAction, error)
}

type planner struct {
	epics storage.EpicStore
	tasks storage.TaskStore
}

// NewPlanner creates a Planner over the given stores.
func NewPlanner(epics storage.EpicStore, tasks storage.TaskStore) Planner {
	return &planner{epics: epics, tasks: tasks}
}

// Next picks, in priority order: any in-progress task (resume before
// starting new work), then the first ready task of the earliest-created
// active epic, then an empty epic that still needs planning.
func (p *planner) Next() (*NextAction, error) {
	epics, err := p.epics.List()
	if err != nil {
		return nil, err
	}

	active := make([]*models.Epic, 0, len(epics))
	for _, epic := range epics {
		if !epic.Status.Terminal() {
			active = append(active, epic)
		}
	}
	if len(active) == 0 {
		return &NextAction{Kind: ActionAllDone, Detail: "no active epics"}, nil
	}

	// List() orders epics by creation time, so the first hit wins.
	sawTasks := false
	for _, epic := range active {
		tasks, err := p.tasks.ListByEpic(epic.ID)
		if err != nil {
			return nil, err
		}
		for _, task := range tasks {
			if task.Status == models.StatusInProgress {
				return &NextAction{
					Kind:   ActionResume,
					ID:     task.ID,
					Title:  task.Title,
					Detail: fmt.Sprintf("task %s is in progress", task.ID),
				}, nil
			}
		}
		if len(tasks) > 0 {
			sawTasks = true
		}
	}

	for _, epic := range active {
		tasks, err := p.tasks.ListByEpic(epic.ID)
		if err != nil {
			return nil, err
		}
		if ready := ReadyTasks(tasks); len(ready) > 0 {
			task := ready[0]
			return &NextAction{
				Kind:   ActionStart,
				ID:     task.ID,
				Title:  task.Title,
				Detail: fmt.Sprintf("run 'taskctl task start %s'", task.ID),
			}, nil
		}
	}

	for _, epic := range active {
		tasks, err := p.tasks.ListByEpic(epic.ID)
		if err != nil {
			return nil, err
		}
		if len(tasks) == 0 {
			return &NextAction{
				Kind:   ActionPlan,
				ID:     epic.ID,
				Title:  epic.Title,
				Detail: fmt.Sprintf("epic %s has no tasks; break it down first", epic.ID),
			}, nil
		}
	}

	detail := "all remaining tasks are blocked or waiting on dependencies"
	if !sawTasks {
		detail = "no actionable tasks"
	}
	return &NextAction{Kind: ActionNothingReady, Detail: detail}, nil
}
