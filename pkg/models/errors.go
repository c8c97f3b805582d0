package models

import "errors"

// Sentinel error kinds for the state engine. Callers distinguish failure
// classes with errors.Is; the wrapping message names the offending IDs.
var (
	// ErrNotInitialized means the .tasks/ store does not exist for this
	// project. Distinct from ErrNotFound so callers can instruct the user
	// to run 'taskctl init' instead of reporting a missing entity.
	ErrNotInitialized = errors.New("task store not initialized")

	// ErrNotFound means a referenced epic, task, or review does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition means a status change violates the lifecycle
	// state machine, including any mutation of a terminal entity.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrCyclicDependency means a depends_on edge would close a cycle.
	ErrCyclicDependency = errors.New("cyclic dependency")

	// ErrConcurrentModification means a record changed between the read
	// and the atomic replace of a read-modify-write cycle.
	ErrConcurrentModification = errors.New("concurrent modification")

	// ErrGenerationExhausted means ID generation ran out of retry attempts
	// without finding an unused identifier.
	ErrGenerationExhausted = errors.New("id generation exhausted")

	// ErrInvalidReference means a dependency or epic reference points at a
	// non-existent entity or crosses epic boundaries.
	ErrInvalidReference = errors.New("invalid reference")
)
