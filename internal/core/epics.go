package core

import (
	"fmt"
	"time"

	"github.com/valter-silva-au/taskctl/internal/storage"
	"github.com/valter-silva-au/taskctl/pkg/models"
)

// epicSpecTemplate seeds the long-form spec document for a new epic.
const epicSpecTemplate = "# %s\n\n## Overview\n\n## Requirements\n\n## Acceptance Criteria\n"

// countRefreshAttempts bounds the retry loop when recomputing derived task
// counts races with another writer.
const countRefreshAttempts = 3

// EpicManager defines the operations on epics.
type EpicManager interface {
	Create(title string, complexity int) (*models.Epic, error)
	Get(id string) (*models.Epic, error)
	// List returns epics in creation order, optionally filtered by status.
	List(status models.Status) ([]*models.Epic, error)
	SetStatus(id string, to models.Status) (*models.Epic, error)
	// Delete removes the epic, its spec, and all of its tasks.
	Delete(id string) error
	// RefreshCounts recomputes the epic's task_count and tasks_done from
	// the task store.
	RefreshCounts(epicID string) error
}

type epicManager struct {
	epics  storage.EpicStore
	tasks  storage.TaskStore
	specs  storage.SpecStore
	idGen  EpicIDGenerator
	events EventSink
}

// NewEpicManager creates an EpicManager over the given stores. events may
// be nil.
func NewEpicManager(epics storage.EpicStore, tasks storage.TaskStore, specs storage.SpecStore, idGen EpicIDGenerator, events EventSink) EpicManager {
	return &epicManager{epics: epics, tasks: tasks, specs: specs, idGen: idGen, events: events}
}

func (m *epicManager) Create(title string, complexity int) (*models.Epic, error) {
	id, err := m.idGen.NewEpicID()
	if err != nil {
		return nil, err
	}

	epic := models.NewEpic(id, title, complexity)
	epic.SpecRef = id + ".md"
	if err := m.epics.PutNew(epic); err != nil {
		return nil, err
	}
	if err := m.specs.WriteEpicSpec(id, fmt.Sprintf(epicSpecTemplate, title)); err != nil {
		return nil, err
	}

	emit(m.events, "epic.created", "epic created", map[string]any{"id": id, "title": title})
	return epic, nil
}

func (m *epicManager) Get(id string) (*models.Epic, error) {
	return m.epics.Get(id)
}

func (m *epicManager) List(status models.Status) ([]*models.Epic, error) {
	epics, err := m.epics.List()
	if err != nil {
		return nil, err
	}
	if status == "" {
		return epics, nil
	}
	var filtered []*models.Epic
	for _, epic := range epics {
		if epic.Status == status {
			filtered = append(filtered, epic)
		}
	}
	return filtered, nil
}

func (m *epicManager) SetStatus(id string, to models.Status) (*models.Epic, error) {
	epic, err := m.epics.Get(id)
	if err != nil {
		return nil, err
	}
	if err := validateTransition(id, epic.Status, to); err != nil {
		return nil, err
	}

	observed := epic.UpdatedAt
	from := epic.Status
	epic.Status = to
	epic.UpdatedAt = time.Now().UTC()
	if err := m.epics.PutIf(epic, observed); err != nil {
		return nil, err
	}

	emit(m.events, "epic.status_changed", "epic status changed",
		map[string]any{"id": id, "from": string(from), "to": string(to)})
	return epic, nil
}

func (m *epicManager) Delete(id string) error {
	if _, err := m.epics.Get(id); err != nil {
		return err
	}

	tasks, err := m.tasks.ListByEpic(id)
	if err != nil {
		return err
	}
	for _, task := range tasks {
		if err := m.tasks.Delete(task.ID); err != nil {
			return err
		}
		if err := m.specs.DeleteTaskSpec(task.ID); err != nil {
			return err
		}
	}
	if err := m.specs.DeleteEpicSpec(id); err != nil {
		return err
	}
	if err := m.epics.Delete(id); err != nil {
		return err
	}

	emit(m.events, "epic.deleted", "epic deleted", map[string]any{"id": id})
	return nil
}

func (m *epicManager) RefreshCounts(epicID string) error {
	var lastErr error
	for attempt := 0; attempt < countRefreshAttempts; attempt++ {
		epic, err := m.epics.Get(epicID)
		if err != nil {
			return err
		}

		tasks, err := m.tasks.ListByEpic(epicID)
		if err != nil {
			return err
		}
		total, done := len(tasks), 0
		for _, task := range tasks {
			if task.Status == models.StatusDone {
				done++
			}
		}

		observed := epic.UpdatedAt
		epic.TaskCount = total
		epic.TasksDone = done
		epic.UpdatedAt = time.Now().UTC()
		lastErr = m.epics.PutIf(epic, observed)
		if lastErr == nil {
			return nil
		}
		// Counts are derived data: re-read and retry on a lost race.
	}
	return lastErr
}
