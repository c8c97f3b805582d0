package storage

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/valter-silva-au/taskctl/pkg/models"
)

func newTestReviewStore(t *testing.T) ReviewStore {
	t.Helper()
	dir := t.TempDir()
	if _, err := Initialize(dir); err != nil {
		t.Fatalf("initializing store: %v", err)
	}
	return NewReviewStore(dir)
}

func sampleReview(taskID string, iteration int, verdict models.Verdict) *models.ReviewRecord {
	return &models.ReviewRecord{
		ID:        uuid.NewString(),
		TaskID:    taskID,
		EpicID:    "ca-1-abc",
		Iteration: iteration,
		Verdict:   verdict,
		Reviewer:  "qa-auditor",
		Timestamp: time.Now().UTC(),
	}
}

func TestReviewStore_InitAndInitialized(t *testing.T) {
	store := newTestReviewStore(t)

	ok, err := store.Initialized()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected reviews directory to be absent before Init")
	}

	if err := store.Init(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ok, err = store.Initialized()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected reviews directory after Init")
	}
}

func TestReviewStore_AppendAndList(t *testing.T) {
	store := newTestReviewStore(t)
	if err := store.Init(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Append out of iteration order.
	for _, it := range []int{2, 1, 3} {
		verdict := models.VerdictNeedsWork
		if it == 3 {
			verdict = models.VerdictShip
		}
		if err := store.Append(sampleReview("ca-1-abc.1", it, verdict)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	records, err := store.ListByTask("ca-1-abc.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 receipts, got %d", len(records))
	}
	for i, record := range records {
		if record.Iteration != i+1 {
			t.Fatalf("expected receipt %d at iteration %d, got %d", i, i+1, record.Iteration)
		}
	}
	if records[2].Verdict != models.VerdictShip {
		t.Fatalf("expected final verdict SHIP, got %s", records[2].Verdict)
	}
}

func TestReviewStore_ListByTask_NoPrefixBleed(t *testing.T) {
	store := newTestReviewStore(t)
	if err := store.Init(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// ca-1-abc.1 is a filename prefix of ca-1-abc.10 receipts.
	if err := store.Append(sampleReview("ca-1-abc.1", 1, models.VerdictShip)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Append(sampleReview("ca-1-abc.10", 1, models.VerdictNeedsWork)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := store.ListByTask("ca-1-abc.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 receipt for ca-1-abc.1, got %d", len(records))
	}
	if records[0].TaskID != "ca-1-abc.1" {
		t.Fatalf("expected receipt for ca-1-abc.1, got %s", records[0].TaskID)
	}
}

func TestReviewStore_Count(t *testing.T) {
	store := newTestReviewStore(t)
	if err := store.Init(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 1; i <= 4; i++ {
		if err := store.Append(sampleReview("ca-1-abc.2", i, models.VerdictNeedsWork)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	n, err := store.Count("ca-1-abc.2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 4 {
		t.Fatalf("expected 4 receipts, got %d", n)
	}
}

func TestReviewStore_SameSecondReceiptsDoNotCollide(t *testing.T) {
	store := newTestReviewStore(t)
	if err := store.Init(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ts := time.Now().UTC()
	for i := 1; i <= 3; i++ {
		record := sampleReview("ca-1-abc.3", i, models.VerdictNeedsWork)
		record.Timestamp = ts
		if err := store.Append(record); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	n, err := store.Count("ca-1-abc.3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 receipts written in the same second, got %d", n)
	}
}
