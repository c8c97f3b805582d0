package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/valter-silva-au/taskctl/pkg/models"
)

func newTestReviewEngine(t *testing.T) (*testEnv, ReviewEngine) {
	t.Helper()
	env := newTestEnv(t)
	engine := NewReviewEngine(env.reviews, env.config, env.taskMgr, "qa-auditor", nil)
	if err := engine.Init(); err != nil {
		t.Fatalf("initializing review engine: %v", err)
	}
	return env, engine
}

func startedTask(t *testing.T, env *testEnv) string {
	t.Helper()
	epicID := env.mustCreateEpic(t, "e")
	id := env.mustCreateTask(t, epicID, "t", nil)
	if _, err := env.taskMgr.Start(id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return id
}

func TestReviewEngine_InitEnablesGating(t *testing.T) {
	env, _ := newTestReviewEngine(t)

	cfg, err := env.config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Review.Enabled {
		t.Fatal("expected review.enabled after init")
	}
	if cfg.Review.MaxIterations != models.DefaultMaxReviewIterations {
		t.Fatalf("expected default maxIterations, got %d", cfg.Review.MaxIterations)
	}

	initialized, err := env.reviews.Initialized()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !initialized {
		t.Fatal("expected reviews directory after init")
	}
}

func TestReviewEngine_LogRequiresInit(t *testing.T) {
	env := newTestEnv(t)
	engine := NewReviewEngine(env.reviews, env.config, env.taskMgr, "qa-auditor", nil)
	id := startedTask(t, env)

	_, err := engine.Log(id, models.VerdictShip, "", "")
	if err == nil || !strings.Contains(err.Error(), "review init") {
		t.Fatalf("expected disabled-gating error, got %v", err)
	}
}

func TestReviewEngine_LogRejectsEpicID(t *testing.T) {
	_, engine := newTestReviewEngine(t)

	_, err := engine.Log("ca-1-abc", models.VerdictShip, "", "")
	if !errors.Is(err, models.ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference for epic ID, got %v", err)
	}
}

func TestReviewEngine_LogRejectsUnknownVerdict(t *testing.T) {
	env, engine := newTestReviewEngine(t)
	id := startedTask(t, env)

	_, err := engine.Log(id, models.Verdict("LGTM"), "", "")
	if err == nil {
		t.Fatal("expected error for unknown verdict")
	}
}

func TestReviewEngine_ShipCompletesTask(t *testing.T) {
	env, engine := newTestReviewEngine(t)
	id := startedTask(t, env)

	outcome, err := engine.Log(id, models.VerdictShip, "", "looks good")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !outcome.TaskCompleted || outcome.Escalated {
		t.Fatalf("expected completed without escalation, got %+v", outcome)
	}
	if outcome.Record.Reviewer != "qa-auditor" {
		t.Fatalf("expected default reviewer, got %q", outcome.Record.Reviewer)
	}

	task, err := env.taskMgr.Get(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Status != models.StatusDone {
		t.Fatalf("expected done after SHIP, got %s", task.Status)
	}
}

func TestReviewEngine_NeedsWorkBelowBound(t *testing.T) {
	env, engine := newTestReviewEngine(t)
	id := startedTask(t, env)

	for iteration := 1; iteration <= 2; iteration++ {
		outcome, err := engine.Log(id, models.VerdictNeedsWork, "alice", "fix it")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if outcome.Escalated {
			t.Fatalf("iteration %d must not escalate", iteration)
		}
		if outcome.Record.Verdict != models.VerdictNeedsWork {
			t.Fatalf("expected NEEDS_WORK, got %s", outcome.Record.Verdict)
		}
		if outcome.Record.Iteration != iteration {
			t.Fatalf("expected iteration %d, got %d", iteration, outcome.Record.Iteration)
		}
	}

	task, err := env.taskMgr.Get(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Status != models.StatusInProgress {
		t.Fatalf("expected task still in progress, got %s", task.Status)
	}
}

func TestReviewEngine_EscalationAtBound(t *testing.T) {
	env, engine := newTestReviewEngine(t)
	id := startedTask(t, env)

	for i := 0; i < 2; i++ {
		if _, err := engine.Log(id, models.VerdictNeedsWork, "", ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// Third NEEDS_WORK hits the bound and converts on the same submission.
	outcome, err := engine.Log(id, models.VerdictNeedsWork, "", "still broken")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !outcome.Escalated {
		t.Fatal("expected escalation at the iteration bound")
	}
	if outcome.Record.Verdict != models.VerdictMajorRethink {
		t.Fatalf("expected MAJOR_RETHINK receipt, got %s", outcome.Record.Verdict)
	}
	if outcome.Record.Iteration != 3 {
		t.Fatalf("expected iteration 3, got %d", outcome.Record.Iteration)
	}
	if !outcome.Record.Escalated {
		t.Fatal("expected escalated flag on receipt")
	}

	task, err := env.taskMgr.Get(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Status != models.StatusBlocked {
		t.Fatalf("expected task blocked after escalation, got %s", task.Status)
	}
	if !strings.Contains(task.BlockedBy, "MAJOR_RETHINK") {
		t.Fatalf("expected escalation reason, got %q", task.BlockedBy)
	}
}

func TestReviewEngine_ExplicitMajorRethinkBlocks(t *testing.T) {
	env, engine := newTestReviewEngine(t)
	id := startedTask(t, env)

	outcome, err := engine.Log(id, models.VerdictMajorRethink, "", "wrong approach")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// A reviewer-chosen MAJOR_RETHINK is not an escalation.
	if outcome.Escalated {
		t.Fatal("explicit MAJOR_RETHINK must not be marked escalated")
	}

	task, err := env.taskMgr.Get(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Status != models.StatusBlocked {
		t.Fatalf("expected blocked, got %s", task.Status)
	}
}

func TestReviewEngine_IterationNeverResets(t *testing.T) {
	env, engine := newTestReviewEngine(t)
	id := startedTask(t, env)

	if _, err := engine.Log(id, models.VerdictNeedsWork, "", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.taskMgr.Start(id); err == nil {
		// Task is still in progress; restart not needed. Continue reviewing.
		t.Fatal("expected restart of in-progress task to fail")
	}

	outcome, err := engine.Log(id, models.VerdictNeedsWork, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Record.Iteration != 2 {
		t.Fatalf("expected iteration counter to keep climbing, got %d", outcome.Record.Iteration)
	}
}

func TestReviewEngine_Show(t *testing.T) {
	env, engine := newTestReviewEngine(t)
	id := startedTask(t, env)

	if _, err := engine.Log(id, models.VerdictNeedsWork, "", "first pass"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := engine.Log(id, models.VerdictShip, "", "second pass"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	latest, err := engine.Show(id, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest.Iteration != 2 || latest.Verdict != models.VerdictShip {
		t.Fatalf("expected latest receipt, got %+v", latest)
	}

	first, err := engine.Show(id, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Notes != "first pass" {
		t.Fatalf("expected first receipt, got %+v", first)
	}

	if _, err := engine.Show(id, 9); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing iteration, got %v", err)
	}
}
