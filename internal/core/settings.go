package core

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// validEpicPrefixPattern matches lowercase alphanumeric prefixes between
// 1 and 8 characters, as used in epic IDs.
var validEpicPrefixPattern = regexp.MustCompile(`^[a-z0-9]{1,8}$`)

// Settings holds operator-level preferences from the global .taskctl.yaml
// file. These are distinct from the per-workspace .tasks/config.json: the
// workspace config travels with the project, settings travel with the user.
type Settings struct {
	// EpicIDPrefix is the leading token of generated epic IDs.
	EpicIDPrefix string
	// DefaultReviewer is recorded on review receipts when no reviewer is named.
	DefaultReviewer string
	// GuardEnabled toggles pre-edit hook enforcement.
	GuardEnabled bool
	// EventsEnabled toggles the JSONL event log.
	EventsEnabled bool
	// OutputFormat is the default render format for list and show commands.
	OutputFormat string
}

// SettingsManager loads and validates global settings.
type SettingsManager interface {
	Load() (*Settings, error)
	Validate(settings *Settings) error
}

// viperSettingsManager implements SettingsManager using Viper for reading
// the YAML settings file.
type viperSettingsManager struct {
	// basePath is the directory where .taskctl.yaml resides.
	basePath string
}

// NewSettingsManager creates a SettingsManager that reads .taskctl.yaml
// from basePath, typically the user's home directory.
func NewSettingsManager(basePath string) SettingsManager {
	return &viperSettingsManager{basePath: basePath}
}

// defaultSettings returns Settings populated with sensible defaults.
func defaultSettings() *Settings {
	return &Settings{
		EpicIDPrefix:    "ca",
		DefaultReviewer: "qa-auditor",
		GuardEnabled:    true,
		EventsEnabled:   true,
		OutputFormat:    "table",
	}
}

// Load reads the .taskctl.yaml file using Viper. If the file does not
// exist, defaults are returned.
func (sm *viperSettingsManager) Load() (*Settings, error) {
	settings := defaultSettings()

	v := viper.New()
	v.SetConfigName(".taskctl")
	v.SetConfigType("yaml")
	v.AddConfigPath(sm.basePath)

	// Set Viper defaults so missing keys fall back gracefully.
	v.SetDefault("epic_id.prefix", settings.EpicIDPrefix)
	v.SetDefault("review.default_reviewer", settings.DefaultReviewer)
	v.SetDefault("guard.enabled", settings.GuardEnabled)
	v.SetDefault("events.enabled", settings.EventsEnabled)
	v.SetDefault("output.format", settings.OutputFormat)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// No settings file found, return defaults.
			return settings, nil
		}
		return nil, fmt.Errorf("reading .taskctl.yaml: %w", err)
	}

	settings.EpicIDPrefix = v.GetString("epic_id.prefix")
	settings.DefaultReviewer = v.GetString("review.default_reviewer")
	settings.GuardEnabled = v.GetBool("guard.enabled")
	settings.EventsEnabled = v.GetBool("events.enabled")
	settings.OutputFormat = v.GetString("output.format")

	if err := sm.Validate(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// validOutputFormats is the set of allowed output.format values.
var validOutputFormats = map[string]bool{
	"table": true,
	"json":  true,
	"yaml":  true,
}

// Validate checks the settings for invalid values and returns a clear
// error message identifying the problem.
func (sm *viperSettingsManager) Validate(settings *Settings) error {
	if settings == nil {
		return fmt.Errorf("settings are nil")
	}

	var errs []string

	if !validEpicPrefixPattern.MatchString(settings.EpicIDPrefix) {
		errs = append(errs, fmt.Sprintf(
			"epic_id.prefix %q is invalid, must match [a-z0-9]{1,8}",
			settings.EpicIDPrefix,
		))
	}

	if settings.DefaultReviewer == "" {
		errs = append(errs, "review.default_reviewer must not be empty")
	}

	if !validOutputFormats[settings.OutputFormat] {
		errs = append(errs, fmt.Sprintf(
			"output.format %q is invalid, must be one of: table, json, yaml",
			settings.OutputFormat,
		))
	}

	if len(errs) > 0 {
		return fmt.Errorf("settings validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
