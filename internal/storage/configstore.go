package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/valter-silva-au/taskctl/pkg/models"
)

// ConfigStore reads and writes the project-scoped config.json. Keys use dot
// notation (e.g. review.maxIterations). Get/Set operate on the raw document
// so keys outside the typed schema survive round trips.
type ConfigStore interface {
	// Load returns the typed configuration with defaults applied for
	// missing keys.
	Load() (models.ProjectConfig, error)
	Get(key string) (any, error)
	Set(key, value string) error
	// Raw returns the full configuration document.
	Raw() (map[string]any, error)
}

type fileConfigStore struct {
	baseDir string
}

// NewConfigStore creates a ConfigStore rooted at baseDir/.tasks/config.json.
func NewConfigStore(baseDir string) ConfigStore {
	return &fileConfigStore{baseDir: baseDir}
}

func (s *fileConfigStore) path() (string, error) {
	root, err := RequireRoot(s.baseDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "config.json"), nil
}

func (s *fileConfigStore) Load() (models.ProjectConfig, error) {
	cfg := models.DefaultProjectConfig()
	path, err := s.path()
	if err != nil {
		return cfg, err
	}
	if err := readJSON(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return models.DefaultProjectConfig(), nil
		}
		return cfg, fmt.Errorf("loading config: %w", err)
	}
	if cfg.Review.MaxIterations <= 0 {
		cfg.Review.MaxIterations = models.DefaultMaxReviewIterations
	}
	return cfg, nil
}

func (s *fileConfigStore) Raw() (map[string]any, error) {
	path, err := s.path()
	if err != nil {
		return nil, err
	}
	raw := make(map[string]any)
	if err := readJSON(path, &raw); err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return raw, nil
}

func (s *fileConfigStore) Get(key string) (any, error) {
	raw, err := s.Raw()
	if err != nil {
		return nil, err
	}
	var cur any = raw
	for _, part := range strings.Split(key, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("config key %s: %w", key, models.ErrNotFound)
		}
		cur, ok = m[part]
		if !ok {
			return nil, fmt.Errorf("config key %s: %w", key, models.ErrNotFound)
		}
	}
	return cur, nil
}

func (s *fileConfigStore) Set(key, value string) error {
	path, err := s.path()
	if err != nil {
		return err
	}
	raw, err := s.Raw()
	if err != nil {
		return err
	}

	parts := strings.Split(key, ".")
	cur := raw
	for _, part := range parts[:len(parts)-1] {
		next, ok := cur[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			cur[part] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = parseConfigValue(value)

	if err := writeJSONAtomic(path, raw); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}

// parseConfigValue interprets value as JSON where possible (numbers,
// booleans, objects), falling back to the literal string.
func parseConfigValue(value string) any {
	var parsed any
	if err := json.Unmarshal([]byte(value), &parsed); err == nil {
		return parsed
	}
	switch strings.ToLower(value) {
	case "true":
		return true
	case "false":
		return false
	}
	return value
}
