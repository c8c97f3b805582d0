package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/valter-silva-au/taskctl/pkg/models"
)

// TaskStore defines the persistence contract for tasks. One task is one
// JSON file under .tasks/tasks/, named <epic-id>.<n>.json.
type TaskStore interface {
	Get(id string) (*models.Task, error)
	Put(task *models.Task) error
	// PutNew writes a task that must not exist yet, failing with
	// models.ErrConcurrentModification if another writer claimed the ID
	// after it was generated.
	PutNew(task *models.Task) error
	// PutIf replaces the stored task only if its updated_at still equals
	// expected, failing with models.ErrConcurrentModification otherwise.
	PutIf(task *models.Task, expected time.Time) error
	Delete(id string) error
	// ListByEpic returns the epic's tasks in ascending task-number order.
	ListByEpic(epicID string) ([]*models.Task, error)
	// ListAll returns every task, grouped by epic and ordered by task
	// number within each epic.
	ListAll() ([]*models.Task, error)
	Exists(id string) (bool, error)
	// NextTaskNumber returns one past the highest task number used within
	// the epic.
	NextTaskNumber(epicID string) (int, error)
}

type fileTaskStore struct {
	baseDir string
}

// NewTaskStore creates a TaskStore rooted at baseDir/.tasks/tasks.
func NewTaskStore(baseDir string) TaskStore {
	return &fileTaskStore{baseDir: baseDir}
}

func (s *fileTaskStore) dir() (string, error) {
	root, err := RequireRoot(s.baseDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "tasks"), nil
}

func (s *fileTaskStore) path(id string) (string, error) {
	dir, err := s.dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, id+".json"), nil
}

func (s *fileTaskStore) Get(id string) (*models.Task, error) {
	path, err := s.path(id)
	if err != nil {
		return nil, err
	}
	var task models.Task
	if err := readJSON(path, &task); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("task %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("reading task %s: %w", id, err)
	}
	return &task, nil
}

func (s *fileTaskStore) Put(task *models.Task) error {
	path, err := s.path(task.ID)
	if err != nil {
		return err
	}
	if err := writeJSONAtomic(path, task); err != nil {
		return fmt.Errorf("writing task %s: %w", task.ID, err)
	}
	return nil
}

func (s *fileTaskStore) PutNew(task *models.Task) error {
	path, err := s.path(task.ID)
	if err != nil {
		return err
	}
	if err := writeJSONExclusive(path, task); err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("task %s already exists: %w", task.ID, models.ErrConcurrentModification)
		}
		return fmt.Errorf("writing task %s: %w", task.ID, err)
	}
	return nil
}

func (s *fileTaskStore) PutIf(task *models.Task, expected time.Time) error {
	// Re-validate the precondition immediately before the atomic replace.
	current, err := s.Get(task.ID)
	if err != nil {
		return err
	}
	if !current.UpdatedAt.Equal(expected) {
		return fmt.Errorf("task %s changed since read: %w", task.ID, models.ErrConcurrentModification)
	}
	return s.Put(task)
}

func (s *fileTaskStore) Delete(id string) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("task %s: %w", id, models.ErrNotFound)
		}
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	return nil
}

func (s *fileTaskStore) ListByEpic(epicID string) ([]*models.Task, error) {
	tasks, err := s.list(epicID + ".")
	if err != nil {
		return nil, err
	}
	sortTasks(tasks)
	return tasks, nil
}

func (s *fileTaskStore) ListAll() ([]*models.Task, error) {
	tasks, err := s.list("")
	if err != nil {
		return nil, err
	}
	sortTasks(tasks)
	return tasks, nil
}

func (s *fileTaskStore) list(idPrefix string) ([]*models.Task, error) {
	dir, err := s.dir()
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing tasks: %w", err)
	}

	var tasks []*models.Task
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		if idPrefix != "" && !strings.HasPrefix(name, idPrefix) {
			continue
		}
		var task models.Task
		if err := readJSON(filepath.Join(dir, name), &task); err != nil {
			return nil, fmt.Errorf("listing tasks: %w", err)
		}
		tasks = append(tasks, &task)
	}
	return tasks, nil
}

func (s *fileTaskStore) Exists(id string) (bool, error) {
	path, err := s.path(id)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("checking task %s: %w", id, err)
	}
	return true, nil
}

func (s *fileTaskStore) NextTaskNumber(epicID string) (int, error) {
	tasks, err := s.list(epicID + ".")
	if err != nil {
		return 0, err
	}
	maxNum := 0
	for _, task := range tasks {
		if n := taskNumber(task.ID); n > maxNum {
			maxNum = n
		}
	}
	return maxNum + 1, nil
}

// taskNumber extracts the numeric suffix of a task ID, or 0 if malformed.
// NOTE: intentionally duplicated from core's ID parsing to avoid an import
// cycle (core already imports storage).
func taskNumber(id string) int {
	idx := strings.LastIndex(id, ".")
	if idx < 0 {
		return 0
	}
	n, err := strconv.Atoi(id[idx+1:])
	if err != nil {
		return 0
	}
	return n
}

// sortTasks orders tasks by epic ID, then ascending task number.
func sortTasks(tasks []*models.Task) {
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].EpicID != tasks[j].EpicID {
			return tasks[i].EpicID < tasks[j].EpicID
		}
		return taskNumber(tasks[i].ID) < taskNumber(tasks[j].ID)
	})
}
