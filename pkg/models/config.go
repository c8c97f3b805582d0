package models

// SchemaVersion is the on-disk schema version written to meta.json.
const SchemaVersion = 1

// SetupVersion identifies the layout revision that created the store.
const SetupVersion = "1.0.0"

// DefaultMaxReviewIterations bounds the review-gating loop when
// review.maxIterations is not configured.
const DefaultMaxReviewIterations = 3

// Meta is the content of meta.json, marking an initialized store.
type Meta struct {
	SchemaVersion int    `json:"schema_version"`
	SetupVersion  string `json:"setup_version"`
	CreatedAt     string `json:"created_at"`
}

// ReviewConfig holds the review-gating settings in config.json.
type ReviewConfig struct {
	Enabled       bool `json:"enabled"`
	MaxIterations int  `json:"maxIterations"`
}

// MemoryConfig holds the memory subsystem settings in config.json.
type MemoryConfig struct {
	Enabled bool `json:"enabled"`
}

// ProjectConfig is the project-scoped configuration stored in config.json.
// It is owned by the state store; callers read and mutate it only through
// the config commands.
type ProjectConfig struct {
	Review ReviewConfig `json:"review"`
	Memory MemoryConfig `json:"memory"`
}

// DefaultProjectConfig returns the configuration written by taskctl init.
func DefaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Review: ReviewConfig{Enabled: false, MaxIterations: DefaultMaxReviewIterations},
		Memory: MemoryConfig{Enabled: false},
	}
}

// MemoryType classifies entries in the project memory.
type MemoryType string

const (
	MemoryPitfall    MemoryType = "pitfall"
	MemoryConvention MemoryType = "convention"
	MemoryDecision   MemoryType = "decision"
)

// AllMemoryTypes lists every valid memory type.
var AllMemoryTypes = []MemoryType{MemoryPitfall, MemoryConvention, MemoryDecision}

// Valid reports whether m is one of the known memory types.
func (m MemoryType) Valid() bool {
	switch m {
	case MemoryPitfall, MemoryConvention, MemoryDecision:
		return true
	default:
		return false
	}
}
