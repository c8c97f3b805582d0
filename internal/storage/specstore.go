package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/valter-silva-au/taskctl/pkg/models"
)

// SpecStore reads and writes the long-form markdown documents attached to
// epics (.tasks/specs/<epic-id>.md) and tasks (.tasks/tasks/<task-id>.md).
// The content is opaque to the state engine.
type SpecStore interface {
	WriteEpicSpec(epicID, content string) error
	ReadEpicSpec(epicID string) (string, error)
	DeleteEpicSpec(epicID string) error
	WriteTaskSpec(taskID, content string) error
	ReadTaskSpec(taskID string) (string, error)
	DeleteTaskSpec(taskID string) error
}

type fileSpecStore struct {
	baseDir string
}

// NewSpecStore creates a SpecStore rooted at baseDir/.tasks.
func NewSpecStore(baseDir string) SpecStore {
	return &fileSpecStore{baseDir: baseDir}
}

func (s *fileSpecStore) epicPath(epicID string) (string, error) {
	root, err := RequireRoot(s.baseDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "specs", epicID+".md"), nil
}

func (s *fileSpecStore) taskPath(taskID string) (string, error) {
	root, err := RequireRoot(s.baseDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "tasks", taskID+".md"), nil
}

func (s *fileSpecStore) WriteEpicSpec(epicID, content string) error {
	path, err := s.epicPath(epicID)
	if err != nil {
		return err
	}
	return writeText(path, content)
}

func (s *fileSpecStore) ReadEpicSpec(epicID string) (string, error) {
	path, err := s.epicPath(epicID)
	if err != nil {
		return "", err
	}
	return readText(path, epicID)
}

func (s *fileSpecStore) DeleteEpicSpec(epicID string) error {
	path, err := s.epicPath(epicID)
	if err != nil {
		return err
	}
	return removeIfExists(path)
}

func (s *fileSpecStore) WriteTaskSpec(taskID, content string) error {
	path, err := s.taskPath(taskID)
	if err != nil {
		return err
	}
	return writeText(path, content)
}

func (s *fileSpecStore) ReadTaskSpec(taskID string) (string, error) {
	path, err := s.taskPath(taskID)
	if err != nil {
		return "", err
	}
	return readText(path, taskID)
}

func (s *fileSpecStore) DeleteTaskSpec(taskID string) error {
	path, err := s.taskPath(taskID)
	if err != nil {
		return err
	}
	return removeIfExists(path)
}

func writeText(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating spec directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing spec %s: %w", path, err)
	}
	return nil
}

func readText(path, id string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("spec for %s: %w", id, models.ErrNotFound)
		}
		return "", fmt.Errorf("reading spec %s: %w", path, err)
	}
	return string(data), nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting spec %s: %w", path, err)
	}
	return nil
}
