package cli

import (
	"github.com/valter-silva-au/taskctl/internal/core"
	"github.com/valter-silva-au/taskctl/internal/observability"
	"github.com/valter-silva-au/taskctl/internal/storage"
)

// Service instances, set during app initialization in internal/app.go.
var (
	BasePath string
	Settings *core.Settings

	EpicMgr   core.EpicManager
	TaskMgr   core.TaskManager
	ReviewEng core.ReviewEngine
	Guard     core.GuardEngine
	Planner   core.Planner

	ConfigStore storage.ConfigStore
	SpecStore   storage.SpecStore
	MemoryStore storage.MemoryStore

	Summarizer observability.Summarizer
	EventLog   observability.EventLog
)
