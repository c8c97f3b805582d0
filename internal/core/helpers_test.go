package core

import (
	"testing"

	"github.com/valter-silva-au/taskctl/internal/storage"
)

// testEnv wires real file-backed stores in a temp directory through the
// managers under test.
type testEnv struct {
	dir     string
	epics   storage.EpicStore
	tasks   storage.TaskStore
	specs   storage.SpecStore
	reviews storage.ReviewStore
	config  storage.ConfigStore
	epicMgr EpicManager
	taskMgr TaskManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	if _, err := storage.Initialize(dir); err != nil {
		t.Fatalf("initializing store: %v", err)
	}

	epics := storage.NewEpicStore(dir)
	tasks := storage.NewTaskStore(dir)
	specs := storage.NewSpecStore(dir)

	// A constant suffix keeps generated IDs predictable; uniqueness comes
	// from the sequence number.
	idGen := newEpicIDGeneratorWithSuffix(epics, "ca", func() string { return "abc" })
	epicMgr := NewEpicManager(epics, tasks, specs, idGen, nil)
	taskMgr := NewTaskManager(tasks, epics, specs, epicMgr, nil)

	return &testEnv{
		dir:     dir,
		epics:   epics,
		tasks:   tasks,
		specs:   specs,
		reviews: storage.NewReviewStore(dir),
		config:  storage.NewConfigStore(dir),
		epicMgr: epicMgr,
		taskMgr: taskMgr,
	}
}

// mustCreateEpic creates an epic or fails the test.
func (env *testEnv) mustCreateEpic(t *testing.T, title string) string {
	t.Helper()
	epic, err := env.epicMgr.Create(title, 0)
	if err != nil {
		t.Fatalf("creating epic: %v", err)
	}
	return epic.ID
}

// mustCreateTask creates a task or fails the test.
func (env *testEnv) mustCreateTask(t *testing.T, epicID, title string, dependsOn []string) string {
	t.Helper()
	task, err := env.taskMgr.Create(epicID, title, dependsOn)
	if err != nil {
		t.Fatalf("creating task: %v", err)
	}
	return task.ID
}
