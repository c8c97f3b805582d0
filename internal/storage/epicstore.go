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

// EpicStore defines the persistence contract for epics. One epic is one
// JSON file under .tasks/epics/.
type EpicStore interface {
	Get(id string) (*models.Epic, error)
	Put(epic *models.Epic) error
	// PutNew writes an epic that must not exist yet, failing with
	// models.ErrConcurrentModification if another writer claimed the ID
	// after it was generated.
	PutNew(epic *models.Epic) error
	// PutIf replaces the stored epic only if its updated_at still equals
	// expected, failing with models.ErrConcurrentModification otherwise.
	PutIf(epic *models.Epic, expected time.Time) error
	Delete(id string) error
	// List returns all epics sorted by creation time, ties broken by ID.
	List() ([]*models.Epic, error)
	Exists(id string) (bool, error)
	// NextSequence returns one past the highest sequence number among
	// existing epic IDs with the given prefix.
	NextSequence(prefix string) (int, error)
}

type fileEpicStore struct {
	baseDir string
}

// NewEpicStore creates an EpicStore rooted at baseDir/.tasks/epics.
func NewEpicStore(baseDir string) EpicStore {
	return &fileEpicStore{baseDir: baseDir}
}

func (s *fileEpicStore) dir() (string, error) {
	root, err := RequireRoot(s.baseDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "epics"), nil
}

func (s *fileEpicStore) path(id string) (string, error) {
	dir, err := s.dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, id+".json"), nil
}

func (s *fileEpicStore) Get(id string) (*models.Epic, error) {
	path, err := s.path(id)
	if err != nil {
		return nil, err
	}
	var epic models.Epic
	if err := readJSON(path, &epic); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("epic %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("reading epic %s: %w", id, err)
	}
	return &epic, nil
}

func (s *fileEpicStore) Put(epic *models.Epic) error {
	path, err := s.path(epic.ID)
	if err != nil {
		return err
	}
	if err := writeJSONAtomic(path, epic); err != nil {
		return fmt.Errorf("writing epic %s: %w", epic.ID, err)
	}
	return nil
}

func (s *fileEpicStore) PutNew(epic *models.Epic) error {
	path, err := s.path(epic.ID)
	if err != nil {
		return err
	}
	if err := writeJSONExclusive(path, epic); err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("epic %s already exists: %w", epic.ID, models.ErrConcurrentModification)
		}
		return fmt.Errorf("writing epic %s: %w", epic.ID, err)
	}
	return nil
}

func (s *fileEpicStore) PutIf(epic *models.Epic, expected time.Time) error {
	// Re-validate the precondition immediately before the atomic replace:
	// the stored record must still carry the updated_at we observed.
	current, err := s.Get(epic.ID)
	if err != nil {
		return err
	}
	if !current.UpdatedAt.Equal(expected) {
		return fmt.Errorf("epic %s changed since read: %w", epic.ID, models.ErrConcurrentModification)
	}
	return s.Put(epic)
}

func (s *fileEpicStore) Delete(id string) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("epic %s: %w", id, models.ErrNotFound)
		}
		return fmt.Errorf("deleting epic %s: %w", id, err)
	}
	return nil
}

func (s *fileEpicStore) List() ([]*models.Epic, error) {
	dir, err := s.dir()
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing epics: %w", err)
	}

	var epics []*models.Epic
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		var epic models.Epic
		if err := readJSON(filepath.Join(dir, entry.Name()), &epic); err != nil {
			return nil, fmt.Errorf("listing epics: %w", err)
		}
		epics = append(epics, &epic)
	}

	sort.Slice(epics, func(i, j int) bool {
		if !epics[i].CreatedAt.Equal(epics[j].CreatedAt) {
			return epics[i].CreatedAt.Before(epics[j].CreatedAt)
		}
		return epics[i].ID < epics[j].ID
	})
	return epics, nil
}

func (s *fileEpicStore) Exists(id string) (bool, error) {
	path, err := s.path(id)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("checking epic %s: %w", id, err)
	}
	return true, nil
}

func (s *fileEpicStore) NextSequence(prefix string) (int, error) {
	dir, err := s.dir()
	if err != nil {
		return 0, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 1, nil
		}
		return 0, fmt.Errorf("scanning epic sequence: %w", err)
	}

	maxSeq := 0
	for _, entry := range entries {
		name := strings.TrimSuffix(entry.Name(), ".json")
		if name == entry.Name() || !strings.HasPrefix(name, prefix+"-") {
			continue
		}
		// ID format: <prefix>-<seq>-<suffix>.
		rest := strings.TrimPrefix(name, prefix+"-")
		seqStr, _, found := strings.Cut(rest, "-")
		if !found {
			continue
		}
		seq, err := strconv.Atoi(seqStr)
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq + 1, nil
}
