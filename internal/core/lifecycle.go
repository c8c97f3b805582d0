package core

import (
	"fmt"

	"github.com/valter-silva-au/taskctl/pkg/models"
)

// transitions is the closed state machine shared by epics and tasks.
// done and cancelled are terminal: they map to no successor states.
var transitions = map[models.Status][]models.Status{
	models.StatusPending:    {models.StatusInProgress, models.StatusBlocked, models.StatusCancelled},
	models.StatusInProgress: {models.StatusDone, models.StatusBlocked, models.StatusCancelled},
	models.StatusBlocked:    {models.StatusInProgress, models.StatusCancelled},
	models.StatusDone:       {},
	models.StatusCancelled:  {},
}

// CanTransition reports whether the lifecycle state machine permits moving
// from one status to another.
func CanTransition(from, to models.Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// validateTransition returns an ErrInvalidTransition naming the entity and
// both states when the move is not permitted.
func validateTransition(id string, from, to models.Status) error {
	if !to.Valid() {
		return fmt.Errorf("%s: unknown status %q: %w", id, to, models.ErrInvalidTransition)
	}
	if CanTransition(from, to) {
		return nil
	}
	if from.Terminal() {
		return fmt.Errorf("%s is %s (terminal) and cannot move to %s: %w", id, from, to, models.ErrInvalidTransition)
	}
	return fmt.Errorf("%s cannot move from %s to %s: %w", id, from, to, models.ErrInvalidTransition)
}
