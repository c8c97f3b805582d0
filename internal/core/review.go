package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/valter-silva-au/taskctl/internal/storage"
	"github.com/valter-silva-au/taskctl/pkg/models"
)

// ReviewOutcome reports the result of one review submission.
type ReviewOutcome struct {
	Record *models.ReviewRecord
	// Escalated is true when a NEEDS_WORK submission was converted to
	// MAJOR_RETHINK because the iteration bound was reached.
	Escalated bool
	// TaskCompleted is true when a SHIP verdict moved the task to done.
	TaskCompleted bool
}

// ReviewEngine implements the bounded review-gating loop. Each submission
// appends an immutable receipt; the iteration counter is derived from the
// receipt count and never resets for a given task.
type ReviewEngine interface {
	// Init creates the reviews directory and enables review gating in the
	// project configuration.
	Init() error
	Log(taskID string, verdict models.Verdict, reviewer, notes string) (*ReviewOutcome, error)
	Count(taskID string) (int, error)
	List(taskID string) ([]*models.ReviewRecord, error)
	// Show returns the receipt for the given iteration, or the latest
	// when iteration is 0.
	Show(taskID string, iteration int) (*models.ReviewRecord, error)
}

type reviewEngine struct {
	reviews         storage.ReviewStore
	config          storage.ConfigStore
	tasks           TaskManager
	defaultReviewer string
	events          EventSink
}

// NewReviewEngine creates a ReviewEngine. defaultReviewer is recorded on
// receipts when the caller names none; events may be nil.
func NewReviewEngine(reviews storage.ReviewStore, config storage.ConfigStore, tasks TaskManager, defaultReviewer string, events EventSink) ReviewEngine {
	return &reviewEngine{
		reviews:         reviews,
		config:          config,
		tasks:           tasks,
		defaultReviewer: defaultReviewer,
		events:          events,
	}
}

func (e *reviewEngine) Init() error {
	if err := e.reviews.Init(); err != nil {
		return err
	}
	if err := e.config.Set("review.enabled", "true"); err != nil {
		return err
	}
	if _, err := e.config.Get("review.maxIterations"); errors.Is(err, models.ErrNotFound) {
		return e.config.Set("review.maxIterations", fmt.Sprintf("%d", models.DefaultMaxReviewIterations))
	}
	return nil
}

func (e *reviewEngine) Log(taskID string, verdict models.Verdict, reviewer, notes string) (*ReviewOutcome, error) {
	if !verdict.Valid() {
		return nil, fmt.Errorf("invalid verdict %q (must be SHIP, NEEDS_WORK, or MAJOR_RETHINK)", verdict)
	}
	if !IsTaskID(taskID) {
		return nil, fmt.Errorf("expected a task ID, got epic ID %s: %w", taskID, models.ErrInvalidReference)
	}

	cfg, err := e.config.Load()
	if err != nil {
		return nil, err
	}
	if !cfg.Review.Enabled {
		return nil, fmt.Errorf("review gating is disabled (run 'taskctl review init' first)")
	}
	initialized, err := e.reviews.Initialized()
	if err != nil {
		return nil, err
	}
	if !initialized {
		return nil, fmt.Errorf("review system not initialized (run 'taskctl review init' first)")
	}

	task, err := e.tasks.Get(taskID)
	if err != nil {
		return nil, err
	}

	count, err := e.reviews.Count(taskID)
	if err != nil {
		return nil, err
	}
	iteration := count + 1

	// Escalation bound: the final permitted NEEDS_WORK converts to
	// MAJOR_RETHINK on that same submission, never an N+1th iteration.
	effective := verdict
	escalated := false
	if verdict == models.VerdictNeedsWork && iteration >= cfg.Review.MaxIterations {
		effective = models.VerdictMajorRethink
		escalated = true
	}

	if reviewer == "" {
		reviewer = e.defaultReviewer
	}
	record := &models.ReviewRecord{
		ID:        uuid.NewString(),
		TaskID:    taskID,
		EpicID:    task.EpicID,
		Iteration: iteration,
		Verdict:   effective,
		Escalated: escalated,
		Reviewer:  reviewer,
		Notes:     notes,
		Timestamp: time.Now().UTC(),
	}
	if err := e.reviews.Append(record); err != nil {
		return nil, err
	}

	outcome := &ReviewOutcome{Record: record, Escalated: escalated}
	switch effective {
	case models.VerdictShip:
		// SHIP completes the owning task through the normal lifecycle.
		if _, err := e.tasks.Complete(taskID, "approved by review"); err != nil {
			return nil, fmt.Errorf("review receipt logged, but completing %s failed: %w", taskID, err)
		}
		outcome.TaskCompleted = true
	case models.VerdictMajorRethink:
		// Escalation requires a human decision; the task must not end up
		// done. Block it when the lifecycle permits, otherwise leave the
		// current status untouched.
		if task.Status == models.StatusPending || task.Status == models.StatusInProgress {
			reason := fmt.Sprintf("review escalation: MAJOR_RETHINK at iteration %d", iteration)
			if _, err := e.tasks.Block(taskID, reason); err != nil {
				return nil, fmt.Errorf("review receipt logged, but blocking %s failed: %w", taskID, err)
			}
		}
	}

	emit(e.events, "review.logged", "review verdict logged", map[string]any{
		"task_id":   taskID,
		"verdict":   string(effective),
		"iteration": iteration,
		"escalated": escalated,
	})
	return outcome, nil
}

func (e *reviewEngine) Count(taskID string) (int, error) {
	return e.reviews.Count(taskID)
}

func (e *reviewEngine) List(taskID string) ([]*models.ReviewRecord, error) {
	return e.reviews.ListByTask(taskID)
}

func (e *reviewEngine) Show(taskID string, iteration int) (*models.ReviewRecord, error) {
	records, err := e.reviews.ListByTask(taskID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no reviews for %s: %w", taskID, models.ErrNotFound)
	}
	if iteration == 0 {
		return records[len(records)-1], nil
	}
	for _, record := range records {
		if record.Iteration == iteration {
			return record, nil
		}
	}
	return nil, fmt.Errorf("review iteration %d for %s: %w", iteration, taskID, models.ErrNotFound)
}
