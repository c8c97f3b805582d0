package cli

import (
	"testing"
	"time"
)

func TestParseSince(t *testing.T) {
	before := time.Now().UTC()

	got, err := parseSince("2h")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := before.Add(-2 * time.Hour)
	if got.Before(want.Add(-time.Minute)) || got.After(want.Add(time.Minute)) {
		t.Fatalf("expected roughly %v, got %v", want, got)
	}

	got, err = parseSince("7d")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want = before.AddDate(0, 0, -7)
	if got.Before(want.Add(-time.Minute)) || got.After(want.Add(time.Minute)) {
		t.Fatalf("expected roughly %v, got %v", want, got)
	}
}

func TestParseSince_Invalid(t *testing.T) {
	for _, s := range []string{"", "h", "5", "5w", "xd"} {
		if _, err := parseSince(s); err == nil {
			t.Errorf("expected error for %q", s)
		}
	}
}

func TestFlattenConfig(t *testing.T) {
	raw := map[string]any{
		"review": map[string]any{
			"enabled":       true,
			"maxIterations": float64(3),
		},
		"memory": map[string]any{"enabled": false},
	}

	out := make(map[string]any)
	flattenConfig("", raw, out)

	if out["review.enabled"] != true {
		t.Errorf("expected review.enabled true, got %v", out["review.enabled"])
	}
	if out["review.maxIterations"] != float64(3) {
		t.Errorf("expected review.maxIterations 3, got %v", out["review.maxIterations"])
	}
	if out["memory.enabled"] != false {
		t.Errorf("expected memory.enabled false, got %v", out["memory.enabled"])
	}
}
