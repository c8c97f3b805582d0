package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/valter-silva-au/taskctl/pkg/models"
)

// memoryFiles maps memory types to their markdown files under .tasks/memory/.
var memoryFiles = map[models.MemoryType]string{
	models.MemoryPitfall:    "pitfalls.md",
	models.MemoryConvention: "conventions.md",
	models.MemoryDecision:   "decisions.md",
}

var memoryHeaders = map[models.MemoryType]string{
	models.MemoryPitfall:    "# Pitfalls\n\nKnown issues and gotchas to avoid.\n\n",
	models.MemoryConvention: "# Conventions\n\nProject conventions and patterns.\n\n",
	models.MemoryDecision:   "# Decisions\n\nArchitectural and design decisions.\n\n",
}

// MemoryStore manages the append-only project memory: one markdown file per
// memory type, entries appended with a timestamp heading.
type MemoryStore interface {
	Initialized() (bool, error)
	Init() error
	Append(memType models.MemoryType, content string) error
	Read(memType models.MemoryType) (string, error)
}

type fileMemoryStore struct {
	baseDir string
	now     func() time.Time
}

// NewMemoryStore creates a MemoryStore rooted at baseDir/.tasks/memory.
func NewMemoryStore(baseDir string) MemoryStore {
	return &fileMemoryStore{baseDir: baseDir, now: time.Now}
}

func (s *fileMemoryStore) dir() (string, error) {
	root, err := RequireRoot(s.baseDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "memory"), nil
}

func (s *fileMemoryStore) Initialized() (bool, error) {
	dir, err := s.dir()
	if err != nil {
		return false, err
	}
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("checking memory directory: %w", err)
	}
	return info.IsDir(), nil
}

func (s *fileMemoryStore) Init() error {
	dir, err := s.dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating memory directory: %w", err)
	}
	for memType, name := range memoryFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.WriteFile(path, []byte(memoryHeaders[memType]), 0o644); err != nil {
			return fmt.Errorf("creating memory file %s: %w", name, err)
		}
	}
	return nil
}

func (s *fileMemoryStore) Append(memType models.MemoryType, content string) error {
	if !memType.Valid() {
		return fmt.Errorf("unknown memory type %q", memType)
	}
	dir, err := s.dir()
	if err != nil {
		return err
	}
	path := filepath.Join(dir, memoryFiles[memType])
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening memory file: %w", err)
	}
	defer f.Close()

	entry := fmt.Sprintf("\n## %s\n\n%s\n", s.now().UTC().Format(time.RFC3339), content)
	if _, err := f.WriteString(entry); err != nil {
		return fmt.Errorf("appending memory entry: %w", err)
	}
	return nil
}

func (s *fileMemoryStore) Read(memType models.MemoryType) (string, error) {
	if !memType.Valid() {
		return "", fmt.Errorf("unknown memory type %q", memType)
	}
	dir, err := s.dir()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(filepath.Join(dir, memoryFiles[memType]))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading memory file: %w", err)
	}
	return string(data), nil
}
