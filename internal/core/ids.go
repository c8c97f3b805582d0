// Package core contains the business logic of the taskctl state engine:
// identifier generation, lifecycle state machines, dependency readiness,
// the review-gating loop, guard-hook evaluation, and next-action planning.
package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/valter-silva-au/taskctl/internal/storage"
	"github.com/valter-silva-au/taskctl/pkg/models"
)

// maxIDAttempts bounds the suffix retry loop when generating epic IDs.
const maxIDAttempts = 10

// suffixLen is the length of the random epic ID suffix.
const suffixLen = 3

// EpicIDGenerator produces collision-resistant epic IDs of the form
// <prefix>-<sequence>-<suffix>.
type EpicIDGenerator interface {
	NewEpicID() (string, error)
}

type epicIDGenerator struct {
	epics  storage.EpicStore
	prefix string
	suffix func() string
}

// NewEpicIDGenerator creates an EpicIDGenerator using the given store to
// detect collisions and the given ID prefix (e.g. "ca").
func NewEpicIDGenerator(epics storage.EpicStore, prefix string) EpicIDGenerator {
	return &epicIDGenerator{epics: epics, prefix: prefix, suffix: randomSuffix}
}

// newEpicIDGeneratorWithSuffix creates a generator with an injectable suffix
// source for testing collision behavior.
func newEpicIDGeneratorWithSuffix(epics storage.EpicStore, prefix string, suffix func() string) EpicIDGenerator {
	return &epicIDGenerator{epics: epics, prefix: prefix, suffix: suffix}
}

// NewEpicID combines the next sequence number with a short random suffix.
// Two concurrent creations can race on the same sequence number, so the
// suffix is regenerated and re-checked against the store up to
// maxIDAttempts times before failing.
func (g *epicIDGenerator) NewEpicID() (string, error) {
	seq, err := g.epics.NextSequence(g.prefix)
	if err != nil {
		return "", fmt.Errorf("generating epic ID: %w", err)
	}

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := fmt.Sprintf("%s-%d-%s", g.prefix, seq, g.suffix())
		exists, err := g.epics.Exists(id)
		if err != nil {
			return "", fmt.Errorf("generating epic ID: %w", err)
		}
		if !exists {
			return id, nil
		}
	}
	return "", fmt.Errorf("no unused epic ID after %d attempts: %w", maxIDAttempts, models.ErrGenerationExhausted)
}

// randomSuffix returns a short lowercase hex suffix drawn from a UUID.
func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:suffixLen]
}

// NewTaskID forms a task ID from its parent epic and 1-based task number.
func NewTaskID(epicID string, number int) string {
	return fmt.Sprintf("%s.%d", epicID, number)
}

// IsTaskID reports whether id names a task (epic IDs contain no dot).
func IsTaskID(id string) bool {
	return strings.Contains(id, ".")
}

// ParseTaskID splits a task ID into its epic ID and task number.
func ParseTaskID(id string) (epicID string, number int, err error) {
	idx := strings.LastIndex(id, ".")
	if idx <= 0 || idx == len(id)-1 {
		return "", 0, fmt.Errorf("invalid task ID format: %s", id)
	}
	number, err = strconv.Atoi(id[idx+1:])
	if err != nil || number < 1 {
		return "", 0, fmt.Errorf("invalid task number in ID: %s", id)
	}
	return id[:idx], number, nil
}
