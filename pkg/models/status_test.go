package models

import "testing"

func TestStatusValid(t *testing.T) {
	for _, s := range AllStatuses {
		if !s.Valid() {
			t.Errorf("expected %s to be valid", s)
		}
	}
	for _, s := range []Status{"", "DONE", "in progress", "archived"} {
		if s.Valid() {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	terminal := map[Status]bool{StatusDone: true, StatusCancelled: true}
	for _, s := range AllStatuses {
		if s.Terminal() != terminal[s] {
			t.Errorf("Terminal(%s) = %v, want %v", s, s.Terminal(), terminal[s])
		}
	}
}

func TestVerdictValid(t *testing.T) {
	for _, v := range AllVerdicts {
		if !v.Valid() {
			t.Errorf("expected %s to be valid", v)
		}
	}
	if Verdict("ship").Valid() {
		t.Error("verdicts are case-sensitive")
	}
}

func TestMemoryTypeValid(t *testing.T) {
	for _, m := range AllMemoryTypes {
		if !m.Valid() {
			t.Errorf("expected %s to be valid", m)
		}
	}
	if MemoryType("note").Valid() {
		t.Error("expected unknown memory type to be invalid")
	}
}
