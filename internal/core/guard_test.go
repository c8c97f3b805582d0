package core

import (
	"strings"
	"testing"

	"github.com/valter-silva-au/taskctl/internal/storage"
	"github.com/valter-silva-au/taskctl/pkg/models"
)

func TestGuard_NoActiveTask(t *testing.T) {
	env := newTestEnv(t)
	guard := NewGuardEngine(env.taskMgr)

	decision := guard.Evaluate("")
	if !decision.Allow || decision.Warning != "" {
		t.Fatalf("expected clean allow, got %+v", decision)
	}
}

func TestGuard_InProgressAllows(t *testing.T) {
	env := newTestEnv(t)
	guard := NewGuardEngine(env.taskMgr)
	epicID := env.mustCreateEpic(t, "e")
	id := env.mustCreateTask(t, epicID, "t", nil)
	if _, err := env.taskMgr.Start(id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decision := guard.Evaluate(id)
	if !decision.Allow {
		t.Fatalf("expected allow for in-progress task, got %+v", decision)
	}
}

func TestGuard_PendingDeniesWithRemediation(t *testing.T) {
	env := newTestEnv(t)
	guard := NewGuardEngine(env.taskMgr)
	epicID := env.mustCreateEpic(t, "e")
	id := env.mustCreateTask(t, epicID, "t", nil)

	decision := guard.Evaluate(id)
	if decision.Allow {
		t.Fatal("expected deny for pending task")
	}
	if !strings.Contains(decision.Reason, "taskctl task start "+id) {
		t.Fatalf("expected remediation command in reason, got %q", decision.Reason)
	}
}

func TestGuard_BlockedDenies(t *testing.T) {
	env := newTestEnv(t)
	guard := NewGuardEngine(env.taskMgr)
	epicID := env.mustCreateEpic(t, "e")
	id := env.mustCreateTask(t, epicID, "t", nil)
	if _, err := env.taskMgr.Block(id, "reason"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if decision := guard.Evaluate(id); decision.Allow {
		t.Fatal("expected deny for blocked task")
	}
}

func TestGuard_TerminalDenies(t *testing.T) {
	env := newTestEnv(t)
	guard := NewGuardEngine(env.taskMgr)
	epicID := env.mustCreateEpic(t, "e")
	id := env.mustCreateTask(t, epicID, "t", nil)
	if _, err := env.taskMgr.Start(id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.taskMgr.Complete(id, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decision := guard.Evaluate(id)
	if decision.Allow {
		t.Fatal("expected deny for done task")
	}
	if !strings.Contains(decision.Reason, "no longer accept changes") {
		t.Fatalf("expected finalized reason, got %q", decision.Reason)
	}
}

func TestGuard_MissingTaskFailsOpen(t *testing.T) {
	env := newTestEnv(t)
	guard := NewGuardEngine(env.taskMgr)

	decision := guard.Evaluate("ca-1-abc.99")
	if !decision.Allow {
		t.Fatal("expected fail-open allow for missing task")
	}
	if decision.Warning == "" {
		t.Fatal("expected warning on fail-open path")
	}
}

func TestGuard_UninitializedStoreFailsOpen(t *testing.T) {
	dir := t.TempDir()
	tasks := storage.NewTaskStore(dir)
	epics := storage.NewEpicStore(dir)
	specs := storage.NewSpecStore(dir)
	epicMgr := NewEpicManager(epics, tasks, specs, NewEpicIDGenerator(epics, "ca"), nil)
	guard := NewGuardEngine(NewTaskManager(tasks, epics, specs, epicMgr, nil))

	decision := guard.Evaluate("ca-1-abc.1")
	if !decision.Allow {
		t.Fatal("expected fail-open allow when store is not initialized")
	}
	if !strings.Contains(decision.Warning, "not initialized") {
		t.Fatalf("expected not-initialized warning, got %q", decision.Warning)
	}
}

func TestGuard_UnknownStatusFailsOpen(t *testing.T) {
	env := newTestEnv(t)
	guard := NewGuardEngine(env.taskMgr)
	epicID := env.mustCreateEpic(t, "e")
	id := env.mustCreateTask(t, epicID, "t", nil)

	// Corrupt the stored status directly.
	task, err := env.tasks.Get(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	task.Status = models.Status("mystery")
	if err := env.tasks.Put(task); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decision := guard.Evaluate(id)
	if !decision.Allow || decision.Warning == "" {
		t.Fatalf("expected fail-open allow with warning, got %+v", decision)
	}
}
