package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/valter-silva-au/taskctl/pkg/models"
)

// ReviewStore persists review iteration receipts. Receipts are append-only:
// one JSON file per submission under .tasks/reviews/, never mutated or
// deleted, forming the audit trail of the review-gating loop.
type ReviewStore interface {
	// Initialized reports whether the reviews/ directory exists.
	Initialized() (bool, error)
	// Init creates the reviews/ directory.
	Init() error
	Append(record *models.ReviewRecord) error
	// ListByTask returns the task's receipts in ascending iteration order.
	ListByTask(taskID string) ([]*models.ReviewRecord, error)
	Count(taskID string) (int, error)
}

type fileReviewStore struct {
	baseDir string
}

// NewReviewStore creates a ReviewStore rooted at baseDir/.tasks/reviews.
func NewReviewStore(baseDir string) ReviewStore {
	return &fileReviewStore{baseDir: baseDir}
}

func (s *fileReviewStore) dir() (string, error) {
	root, err := RequireRoot(s.baseDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "reviews"), nil
}

func (s *fileReviewStore) Initialized() (bool, error) {
	dir, err := s.dir()
	if err != nil {
		return false, err
	}
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("checking reviews directory: %w", err)
	}
	return info.IsDir(), nil
}

func (s *fileReviewStore) Init() error {
	dir, err := s.dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating reviews directory: %w", err)
	}
	return nil
}

func (s *fileReviewStore) Append(record *models.ReviewRecord) error {
	dir, err := s.dir()
	if err != nil {
		return err
	}
	// Filename: <task-id>-<timestamp>-<short-id>.json. The short receipt ID
	// keeps same-second submissions from colliding.
	ts := record.Timestamp.UTC().Format("2006-01-02_15-04-05")
	short := record.ID
	if len(short) > 8 {
		short = short[:8]
	}
	name := fmt.Sprintf("%s-%s-%s.json", record.TaskID, ts, short)
	if err := writeJSONAtomic(filepath.Join(dir, name), record); err != nil {
		return fmt.Errorf("writing review receipt for %s: %w", record.TaskID, err)
	}
	return nil
}

func (s *fileReviewStore) ListByTask(taskID string) ([]*models.ReviewRecord, error) {
	dir, err := s.dir()
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing reviews: %w", err)
	}

	prefix := taskID + "-"
	var records []*models.ReviewRecord
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		var record models.ReviewRecord
		if err := readJSON(filepath.Join(dir, name), &record); err != nil {
			return nil, fmt.Errorf("listing reviews: %w", err)
		}
		// The prefix check alone would also match tasks of a deeper
		// numbering (ca-1-abc.1 vs ca-1-abc.10); match on the record.
		if record.TaskID != taskID {
			continue
		}
		records = append(records, &record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Iteration < records[j].Iteration
	})
	return records, nil
}

func (s *fileReviewStore) Count(taskID string) (int, error) {
	records, err := s.ListByTask(taskID)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}
