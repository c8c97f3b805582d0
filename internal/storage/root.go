// Package storage implements the durable, crash-safe persistence layer for
// the taskctl state engine. Every entity (epic, task, review receipt) is one
// independently addressable JSON file under the .tasks/ directory, and all
// writes go through an atomic write-temp-then-rename replace so a reader
// always observes either the old or the fully new content.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/valter-silva-au/taskctl/pkg/models"
)

// TasksDirName is the store directory created in the project root.
const TasksDirName = ".tasks"

// requiredSubdirs are the directories a valid store must contain.
var requiredSubdirs = []string{"epics", "specs", "tasks"}

// FindRoot returns the .tasks/ directory under baseDir, or false if it does
// not exist. The store is looked up in baseDir only, never in parents, so
// commands always bind to the project they run in.
func FindRoot(baseDir string) (string, bool) {
	root := filepath.Join(baseDir, TasksDirName)
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return "", false
	}
	return root, true
}

// RequireRoot returns the .tasks/ directory under baseDir, or
// models.ErrNotInitialized if the store has not been initialized.
func RequireRoot(baseDir string) (string, error) {
	root, ok := FindRoot(baseDir)
	if !ok {
		return "", fmt.Errorf("%w: no %s/ in %s (run 'taskctl init')", models.ErrNotInitialized, TasksDirName, baseDir)
	}
	return root, nil
}

// DetectResult describes the outcome of probing for a store.
type DetectResult struct {
	Exists bool   `json:"exists"`
	Valid  bool   `json:"valid"`
	Path   string `json:"path,omitempty"`
}

// Detect probes baseDir for a store and reports whether it exists and has
// the required subdirectories.
func Detect(baseDir string) DetectResult {
	root, ok := FindRoot(baseDir)
	if !ok {
		return DetectResult{}
	}
	res := DetectResult{Exists: true, Valid: true, Path: root}
	for _, d := range requiredSubdirs {
		if info, err := os.Stat(filepath.Join(root, d)); err != nil || !info.IsDir() {
			res.Valid = false
			break
		}
	}
	return res
}

// Initialize creates the .tasks/ directory structure, meta.json, and the
// default config.json under baseDir. Idempotent: if the store already
// exists, nothing is written and created is false.
func Initialize(baseDir string) (created bool, err error) {
	root := filepath.Join(baseDir, TasksDirName)
	if _, statErr := os.Stat(root); statErr == nil {
		return false, nil
	}

	for _, d := range requiredSubdirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o750); err != nil {
			return false, fmt.Errorf("initializing store: creating %s: %w", d, err)
		}
	}

	meta := models.Meta{
		SchemaVersion: models.SchemaVersion,
		SetupVersion:  models.SetupVersion,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if err := writeJSONAtomic(filepath.Join(root, "meta.json"), meta); err != nil {
		return false, fmt.Errorf("initializing store: %w", err)
	}
	if err := writeJSONAtomic(filepath.Join(root, "config.json"), models.DefaultProjectConfig()); err != nil {
		return false, fmt.Errorf("initializing store: %w", err)
	}
	return true, nil
}

// readJSON decodes the JSON file at path into v. A missing file is reported
// as os.ErrNotExist for the caller to translate into its own NotFound error.
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// writeTempJSON marshals v into a fresh temporary file next to path and
// returns the temp file's location. The caller moves it into place.
func writeTempJSON(path string, v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling %s: %w", path, err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("closing temp file: %w", err)
	}
	return tmpPath, nil
}

// writeJSONAtomic marshals v and replaces path atomically: the content is
// written to a temporary file in the same directory and renamed over the
// target, so a crash mid-write leaves the prior record intact.
func writeJSONAtomic(path string, v any) error {
	tmpPath, err := writeTempJSON(path, v)
	if err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// writeJSONExclusive marshals v into a brand-new file at path. The content
// is written to a temporary file and hard-linked into place, which fails if
// the target already exists, so two racing creators cannot overwrite each
// other. An existing target surfaces as os.ErrExist for the caller to
// translate.
func writeJSONExclusive(path string, v any) error {
	tmpPath, err := writeTempJSON(path, v)
	if err != nil {
		return err
	}
	linkErr := os.Link(tmpPath, path)
	_ = os.Remove(tmpPath)
	if linkErr != nil {
		if os.IsExist(linkErr) {
			return linkErr
		}
		return fmt.Errorf("creating %s: %w", path, linkErr)
	}
	return nil
}
