// Package internal provides the App struct that wires all components of
// taskctl together and initializes the CLI layer.
package internal

import (
	"os"

	"github.com/valter-silva-au/taskctl/internal/cli"
	"github.com/valter-silva-au/taskctl/internal/core"
	"github.com/valter-silva-au/taskctl/internal/observability"
	"github.com/valter-silva-au/taskctl/internal/storage"
)

// App holds all service dependencies for taskctl.
type App struct {
	BasePath string

	// Global settings
	Settings *core.Settings

	// Storage layer
	Epics   storage.EpicStore
	Tasks   storage.TaskStore
	Specs   storage.SpecStore
	Config  storage.ConfigStore
	Reviews storage.ReviewStore
	Memory  storage.MemoryStore

	// Core services
	EpicMgr   core.EpicManager
	TaskMgr   core.TaskManager
	ReviewEng core.ReviewEngine
	Guard     core.GuardEngine
	Planner   core.Planner

	// Observability
	EventLog   observability.EventLog
	Summarizer observability.Summarizer
}

// NewApp creates and wires all components of taskctl. basePath is the
// directory from which the workspace store is resolved, typically the
// current working directory.
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	// --- Global settings ---
	settingsMgr := core.NewSettingsManager(settingsHome())
	settings, err := settingsMgr.Load()
	if err != nil {
		return nil, err
	}
	app.Settings = settings

	// --- Storage layer ---
	app.Epics = storage.NewEpicStore(basePath)
	app.Tasks = storage.NewTaskStore(basePath)
	app.Specs = storage.NewSpecStore(basePath)
	app.Config = storage.NewConfigStore(basePath)
	app.Reviews = storage.NewReviewStore(basePath)
	app.Memory = storage.NewMemoryStore(basePath)

	// --- Observability ---
	var events core.EventSink
	if settings.EventsEnabled {
		if root, ok := storage.FindRoot(basePath); ok {
			app.EventLog = observability.NewJSONLEventLog(root)
			events = observability.NewLogSink(app.EventLog)
		}
		// No workspace store yet means no event log; commands that need
		// the store fail with their own error.
	}
	app.Summarizer = observability.NewSummarizer(app.Epics, app.Tasks)

	// --- Core services ---
	idGen := core.NewEpicIDGenerator(app.Epics, settings.EpicIDPrefix)
	app.EpicMgr = core.NewEpicManager(app.Epics, app.Tasks, app.Specs, idGen, events)
	app.TaskMgr = core.NewTaskManager(app.Tasks, app.Epics, app.Specs, app.EpicMgr, events)
	app.ReviewEng = core.NewReviewEngine(app.Reviews, app.Config, app.TaskMgr, settings.DefaultReviewer, events)
	app.Guard = core.NewGuardEngine(app.TaskMgr)
	app.Planner = core.NewPlanner(app.Epics, app.Tasks)

	// --- Wire CLI package-level variables ---
	cli.BasePath = basePath
	cli.Settings = settings
	cli.EpicMgr = app.EpicMgr
	cli.TaskMgr = app.TaskMgr
	cli.ReviewEng = app.ReviewEng
	cli.Guard = app.Guard
	cli.Planner = app.Planner
	cli.ConfigStore = app.Config
	cli.SpecStore = app.Specs
	cli.MemoryStore = app.Memory
	cli.Summarizer = app.Summarizer
	cli.EventLog = app.EventLog

	return app, nil
}

// Close releases resources held by the App, such as the event log file
// handle. It is safe to call Close on an App whose EventLog is nil.
func (a *App) Close() error {
	if a.EventLog != nil {
		return a.EventLog.Close()
	}
	return nil
}

// ResolveBasePath determines the directory taskctl operates from. The
// TASKCTL_HOME env var overrides the current directory; the store is
// looked up in this directory only, never in parents.
func ResolveBasePath() string {
	if home := os.Getenv("TASKCTL_HOME"); home != "" {
		return home
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}

// settingsHome is where the global .taskctl.yaml lives.
func settingsHome() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}
