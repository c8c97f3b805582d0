package internal

import (
	"testing"

	"github.com/valter-silva-au/taskctl/internal/storage"
)

func TestNewApp(t *testing.T) {
	dir := t.TempDir()
	if _, err := storage.Initialize(dir); err != nil {
		t.Fatalf("initializing store: %v", err)
	}

	app, err := NewApp(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = app.Close() }()

	if app.EpicMgr == nil || app.TaskMgr == nil || app.ReviewEng == nil {
		t.Fatal("expected core services to be wired")
	}
	if app.Guard == nil || app.Planner == nil || app.Summarizer == nil {
		t.Fatal("expected guard, planner, and summarizer to be wired")
	}

	// The wiring must be live end to end.
	epic, err := app.EpicMgr.Create("wiring check", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := app.TaskMgr.Create(epic.ID, "first", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewApp_UninitializedWorkspace(t *testing.T) {
	// Construction must succeed before `taskctl init` has ever run; only
	// store-touching commands fail later.
	app, err := NewApp(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = app.Close() }()

	if app.EventLog != nil {
		t.Fatal("expected no event log without a workspace store")
	}
}

func TestResolveBasePath_EnvOverride(t *testing.T) {
	t.Setenv("TASKCTL_HOME", "/tmp/somewhere")
	if got := ResolveBasePath(); got != "/tmp/somewhere" {
		t.Fatalf("expected env override, got %q", got)
	}
}
