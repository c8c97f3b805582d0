package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/valter-silva-au/taskctl/pkg/models"
)

func TestInitialize(t *testing.T) {
	dir := t.TempDir()

	created, err := Initialize(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatal("expected created=true on first init")
	}

	for _, sub := range []string{"epics", "specs", "tasks"} {
		info, err := os.Stat(filepath.Join(dir, TasksDirName, sub))
		if err != nil || !info.IsDir() {
			t.Fatalf("expected %s/ directory, got err=%v", sub, err)
		}
	}

	var meta models.Meta
	if err := readJSON(filepath.Join(dir, TasksDirName, "meta.json"), &meta); err != nil {
		t.Fatalf("reading meta.json: %v", err)
	}
	if meta.SchemaVersion != models.SchemaVersion {
		t.Fatalf("expected schema version %d, got %d", models.SchemaVersion, meta.SchemaVersion)
	}

	var cfg models.ProjectConfig
	if err := readJSON(filepath.Join(dir, TasksDirName, "config.json"), &cfg); err != nil {
		t.Fatalf("reading config.json: %v", err)
	}
	if cfg.Review.MaxIterations != models.DefaultMaxReviewIterations {
		t.Fatalf("expected default max iterations %d, got %d", models.DefaultMaxReviewIterations, cfg.Review.MaxIterations)
	}
}

func TestInitialize_Idempotent(t *testing.T) {
	dir := t.TempDir()

	if _, err := Initialize(dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	created, err := Initialize(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Fatal("expected created=false on second init")
	}
}

func TestRequireRoot_NotInitialized(t *testing.T) {
	dir := t.TempDir()

	_, err := RequireRoot(dir)
	if !errors.Is(err, models.ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
	if !strings.Contains(err.Error(), "taskctl init") {
		t.Fatalf("expected remediation hint in error, got %q", err)
	}
}

func TestDetect(t *testing.T) {
	dir := t.TempDir()

	if res := Detect(dir); res.Exists {
		t.Fatal("expected no store before init")
	}

	if _, err := Initialize(dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res := Detect(dir)
	if !res.Exists || !res.Valid {
		t.Fatalf("expected valid store, got %+v", res)
	}

	// A store missing a required subdirectory is detected but invalid.
	if err := os.RemoveAll(filepath.Join(dir, TasksDirName, "specs")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res = Detect(dir)
	if !res.Exists || res.Valid {
		t.Fatalf("expected invalid store, got %+v", res)
	}
}

func TestWriteJSONAtomic_NoTempLeftovers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "record.json")

	for i := 0; i < 5; i++ {
		if err := writeJSONAtomic(path, map[string]int{"n": i}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".tmp") {
			t.Fatalf("temp file left behind: %s", entry.Name())
		}
	}

	var got map[string]int
	if err := readJSON(path, &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["n"] != 4 {
		t.Fatalf("expected last write to win, got %d", got["n"])
	}
}

func TestWriteJSONAtomic_CrashedWriterLeavesRecordIntact(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "record.json")

	if err := writeJSONAtomic(path, map[string]string{"state": "committed"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A writer that died mid-write leaves a truncated temp file beside the
	// record. It must not affect what readers see.
	partial := filepath.Join(dir, "record.json.12345.tmp")
	if err := os.WriteFile(partial, []byte(`{"state": "half-wri`), 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got map[string]string
	if err := readJSON(path, &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["state"] != "committed" {
		t.Fatalf("expected prior record to survive, got %q", got["state"])
	}

	// The next successful write replaces the record in one step.
	if err := writeJSONAtomic(path, map[string]string{"state": "replaced"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := readJSON(path, &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["state"] != "replaced" {
		t.Fatalf("expected new record after rewrite, got %q", got["state"])
	}
}

func TestWriteJSONExclusive_NoTempLeftovers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "record.json")

	if err := writeJSONExclusive(path, map[string]int{"n": 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := writeJSONExclusive(path, map[string]int{"n": 2}); !os.IsExist(err) {
		t.Fatalf("expected exists error on second create, got %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".tmp") {
			t.Fatalf("temp file left behind: %s", entry.Name())
		}
	}
}
