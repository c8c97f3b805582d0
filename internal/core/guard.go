package core

import (
	"errors"
	"fmt"

	"github.com/valter-silva-au/taskctl/pkg/models"
)

// GuardDecision is the outcome of a pre-edit guard evaluation.
type GuardDecision struct {
	Allow bool
	// Reason explains a denial, including the remediation command.
	Reason string
	// Warning carries non-fatal diagnostics from fail-open paths.
	Warning string
}

// GuardEngine gates file mutations behind the active task's lifecycle
// state. All infrastructure failures fail open: a broken store must never
// lock an agent out of editing.
type GuardEngine interface {
	Evaluate(taskID string) GuardDecision
}

type guardEngine struct {
	tasks TaskManager
}

// NewGuardEngine creates a GuardEngine backed by the given task manager.
func NewGuardEngine(tasks TaskManager) GuardEngine {
	return &guardEngine{tasks: tasks}
}

func allow() GuardDecision { return GuardDecision{Allow: true} }

func allowWarn(format string, args ...any) GuardDecision {
	return GuardDecision{Allow: true, Warning: fmt.Sprintf(format, args...)}
}

func deny(format string, args ...any) GuardDecision {
	return GuardDecision{Allow: false, Reason: fmt.Sprintf(format, args...)}
}

func (g *guardEngine) Evaluate(taskID string) GuardDecision {
	if taskID == "" {
		// No active task declared; the guard has nothing to enforce.
		return allow()
	}

	task, err := g.tasks.Get(taskID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotInitialized):
			return allowWarn("task store not initialized, guard skipped")
		case errors.Is(err, models.ErrNotFound):
			return allowWarn("task %s not found, guard skipped", taskID)
		default:
			return allowWarn("reading task %s failed (%v), guard skipped", taskID, err)
		}
	}

	switch task.Status {
	case models.StatusInProgress:
		return allow()
	case models.StatusPending, models.StatusBlocked:
		return deny("task %s is %s; run 'taskctl task start %s' before editing", taskID, task.Status, taskID)
	case models.StatusDone, models.StatusCancelled:
		return deny("task %s is %s and can no longer accept changes", taskID, task.Status)
	default:
		return allowWarn("task %s has unknown status %q, guard skipped", taskID, task.Status)
	}
}
