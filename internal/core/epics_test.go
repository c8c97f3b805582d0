package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/valter-silva-au/taskctl/pkg/models"
)

func TestEpicManager_Create(t *testing.T) {
	env := newTestEnv(t)

	epic, err := env.epicMgr.Create("Build the thing", 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if epic.ID != "ca-1-abc" {
		t.Fatalf("unexpected epic ID %s", epic.ID)
	}
	if epic.Status != models.StatusPending {
		t.Fatalf("expected pending, got %s", epic.Status)
	}
	if epic.ComplexityScore != 7 {
		t.Fatalf("expected complexity 7, got %d", epic.ComplexityScore)
	}

	spec, err := env.specs.ReadEpicSpec(epic.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(spec, "# Build the thing\n") {
		t.Fatalf("expected seeded spec document, got %q", spec)
	}
}

func TestEpicManager_CreateSequences(t *testing.T) {
	env := newTestEnv(t)

	first := env.mustCreateEpic(t, "first")
	second := env.mustCreateEpic(t, "second")
	if first != "ca-1-abc" || second != "ca-2-abc" {
		t.Fatalf("expected sequential IDs, got %s and %s", first, second)
	}
}

func TestEpicManager_ListFilter(t *testing.T) {
	env := newTestEnv(t)

	a := env.mustCreateEpic(t, "a")
	env.mustCreateEpic(t, "b")
	if _, err := env.epicMgr.SetStatus(a, models.StatusInProgress); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all, err := env.epicMgr.List("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 epics, got %d", len(all))
	}

	active, err := env.epicMgr.List(models.StatusInProgress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(active) != 1 || active[0].ID != a {
		t.Fatalf("expected only %s to be in progress", a)
	}
}

func TestEpicManager_SetStatus_Invalid(t *testing.T) {
	env := newTestEnv(t)
	id := env.mustCreateEpic(t, "e")

	_, err := env.epicMgr.SetStatus(id, models.StatusDone)
	if !errors.Is(err, models.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for pending->done, got %v", err)
	}
}

func TestEpicManager_RefreshCounts(t *testing.T) {
	env := newTestEnv(t)
	epicID := env.mustCreateEpic(t, "e")

	t1 := env.mustCreateTask(t, epicID, "one", nil)
	env.mustCreateTask(t, epicID, "two", nil)

	if _, err := env.taskMgr.Start(t1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.taskMgr.Complete(t1, "done"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	epic, err := env.epicMgr.Get(epicID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if epic.TaskCount != 2 {
		t.Fatalf("expected task_count 2, got %d", epic.TaskCount)
	}
	if epic.TasksDone != 1 {
		t.Fatalf("expected tasks_done 1, got %d", epic.TasksDone)
	}
}

func TestEpicManager_DeleteCascades(t *testing.T) {
	env := newTestEnv(t)
	epicID := env.mustCreateEpic(t, "e")
	taskID := env.mustCreateTask(t, epicID, "t", nil)

	if err := env.epicMgr.Delete(epicID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := env.epicMgr.Get(epicID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected epic gone, got %v", err)
	}
	if _, err := env.taskMgr.Get(taskID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected task gone, got %v", err)
	}
	if _, err := env.specs.ReadEpicSpec(epicID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected epic spec gone, got %v", err)
	}
	if _, err := env.specs.ReadTaskSpec(taskID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected task spec gone, got %v", err)
	}
}

func TestEpicManager_DeleteMissing(t *testing.T) {
	env := newTestEnv(t)

	if err := env.epicMgr.Delete("ca-9-nope"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
