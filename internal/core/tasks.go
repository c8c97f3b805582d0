package core

import (
	"fmt"
	"time"

	"github.com/valter-silva-au/taskctl/internal/storage"
	"github.com/valter-silva-au/taskctl/pkg/models"
)

// taskSpecTemplate seeds the long-form spec document for a new task.
const taskSpecTemplate = "# %s\n\n## Description\n\n## Implementation Notes\n"

// TaskManager defines the operations on tasks, including the lifecycle
// state machine and dependency management.
type TaskManager interface {
	Create(epicID, title string, dependsOn []string) (*models.Task, error)
	Get(id string) (*models.Task, error)
	// List returns the epic's tasks in ascending task-number order,
	// optionally filtered by status. An empty epicID lists all tasks.
	List(epicID string, status models.Status) ([]*models.Task, error)
	Start(id string) (*models.Task, error)
	Complete(id, summary string) (*models.Task, error)
	Block(id, reason string) (*models.Task, error)
	Cancel(id string) (*models.Task, error)
	SetStatus(id string, to models.Status) (*models.Task, error)
	// SetDependencies replaces the task's depends_on set. Only permitted
	// while the task is pending.
	SetDependencies(id string, dependsOn []string) (*models.Task, error)
	// Ready returns tasks that are pending with every dependency done,
	// in ascending task-number order. An empty epicID scans all epics.
	Ready(epicID string) ([]*models.Task, error)
	Delete(id string) error
}

type taskManager struct {
	tasks  storage.TaskStore
	epics  storage.EpicStore
	specs  storage.SpecStore
	counts interface{ RefreshCounts(epicID string) error }
	events EventSink
}

// NewTaskManager creates a TaskManager over the given stores. epicMgr
// maintains derived task counts after mutations; events may be nil.
func NewTaskManager(tasks storage.TaskStore, epics storage.EpicStore, specs storage.SpecStore, epicMgr EpicManager, events EventSink) TaskManager {
	return &taskManager{tasks: tasks, epics: epics, specs: specs, counts: epicMgr, events: events}
}

func (m *taskManager) Create(epicID, title string, dependsOn []string) (*models.Task, error) {
	exists, err := m.epics.Exists(epicID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("epic %s does not exist: %w", epicID, models.ErrInvalidReference)
	}

	number, err := m.tasks.NextTaskNumber(epicID)
	if err != nil {
		return nil, err
	}
	id := NewTaskID(epicID, number)

	if len(dependsOn) > 0 {
		existing, err := m.tasks.ListByEpic(epicID)
		if err != nil {
			return nil, err
		}
		if err := validateDependencies(id, epicID, dependsOn, taskIndex(existing)); err != nil {
			return nil, err
		}
	}

	task := models.NewTask(id, epicID, title, dependsOn)
	task.SpecRef = id + ".md"
	if err := m.tasks.PutNew(task); err != nil {
		return nil, err
	}
	if err := m.specs.WriteTaskSpec(id, fmt.Sprintf(taskSpecTemplate, title)); err != nil {
		return nil, err
	}
	if err := m.counts.RefreshCounts(epicID); err != nil {
		return nil, err
	}

	emit(m.events, "task.created", "task created", map[string]any{"id": id, "epic_id": epicID, "title": title})
	return task, nil
}

func (m *taskManager) Get(id string) (*models.Task, error) {
	return m.tasks.Get(id)
}

func (m *taskManager) List(epicID string, status models.Status) ([]*models.Task, error) {
	var tasks []*models.Task
	var err error
	if epicID == "" {
		tasks, err = m.tasks.ListAll()
	} else {
		tasks, err = m.tasks.ListByEpic(epicID)
	}
	if err != nil {
		return nil, err
	}
	if status == "" {
		return tasks, nil
	}
	var filtered []*models.Task
	for _, task := range tasks {
		if task.Status == status {
			filtered = append(filtered, task)
		}
	}
	return filtered, nil
}

func (m *taskManager) Start(id string) (*models.Task, error) {
	return m.transition(id, models.StatusInProgress, func(task *models.Task) {
		now := time.Now().UTC()
		task.StartedAt = &now
		task.BlockedBy = ""
	})
}

func (m *taskManager) Complete(id, summary string) (*models.Task, error) {
	return m.transition(id, models.StatusDone, func(task *models.Task) {
		now := time.Now().UTC()
		task.CompletedAt = &now
		if summary != "" {
			task.DoneSummary = summary
		}
	})
}

func (m *taskManager) Block(id, reason string) (*models.Task, error) {
	return m.transition(id, models.StatusBlocked, func(task *models.Task) {
		task.BlockedBy = reason
	})
}

func (m *taskManager) Cancel(id string) (*models.Task, error) {
	return m.transition(id, models.StatusCancelled, nil)
}

func (m *taskManager) SetStatus(id string, to models.Status) (*models.Task, error) {
	return m.transition(id, to, nil)
}

// transition performs a validated read-modify-write status change. The
// stored record must still match the observed updated_at at replace time,
// otherwise the write fails with ConcurrentModification.
func (m *taskManager) transition(id string, to models.Status, apply func(*models.Task)) (*models.Task, error) {
	task, err := m.tasks.Get(id)
	if err != nil {
		return nil, err
	}
	if err := validateTransition(id, task.Status, to); err != nil {
		return nil, err
	}

	observed := task.UpdatedAt
	from := task.Status
	task.Status = to
	if apply != nil {
		apply(task)
	}
	task.UpdatedAt = time.Now().UTC()
	if err := m.tasks.PutIf(task, observed); err != nil {
		return nil, err
	}

	if to == models.StatusDone || from == models.StatusDone {
		if err := m.counts.RefreshCounts(task.EpicID); err != nil {
			return nil, err
		}
	}

	emit(m.events, "task.status_changed", "task status changed",
		map[string]any{"id": id, "from": string(from), "to": string(to)})
	return task, nil
}

func (m *taskManager) SetDependencies(id string, dependsOn []string) (*models.Task, error) {
	task, err := m.tasks.Get(id)
	if err != nil {
		return nil, err
	}
	// Dependency edges are only meaningful while the dependent task has
	// not started; later edits would not affect an in-flight task anyway.
	if task.Status != models.StatusPending {
		return nil, fmt.Errorf("%s is %s; dependencies can only change while pending: %w",
			id, task.Status, models.ErrInvalidTransition)
	}

	all, err := m.tasks.ListByEpic(task.EpicID)
	if err != nil {
		return nil, err
	}
	if err := validateDependencies(id, task.EpicID, dependsOn, taskIndex(all)); err != nil {
		return nil, err
	}

	observed := task.UpdatedAt
	if dependsOn == nil {
		dependsOn = []string{}
	}
	task.DependsOn = dependsOn
	task.UpdatedAt = time.Now().UTC()
	if err := m.tasks.PutIf(task, observed); err != nil {
		return nil, err
	}
	return task, nil
}

func (m *taskManager) Ready(epicID string) ([]*models.Task, error) {
	// Always computed from current on-disk state: other processes mutate
	// statuses between calls and a cached answer would be unsafe.
	var tasks []*models.Task
	var err error
	if epicID == "" {
		tasks, err = m.tasks.ListAll()
	} else {
		tasks, err = m.tasks.ListByEpic(epicID)
	}
	if err != nil {
		return nil, err
	}
	return ReadyTasks(tasks), nil
}

func (m *taskManager) Delete(id string) error {
	task, err := m.tasks.Get(id)
	if err != nil {
		return err
	}
	if err := m.tasks.Delete(id); err != nil {
		return err
	}
	if err := m.specs.DeleteTaskSpec(id); err != nil {
		return err
	}
	if err := m.counts.RefreshCounts(task.EpicID); err != nil {
		return err
	}

	emit(m.events, "task.deleted", "task deleted", map[string]any{"id": id})
	return nil
}
