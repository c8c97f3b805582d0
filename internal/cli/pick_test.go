package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/valter-silva-au/taskctl/pkg/models"
)

func pickFixture() pickModel {
	return newPickModel([]*models.Task{
		{ID: "ca-1-abc.1", Title: "first"},
		{ID: "ca-1-abc.2", Title: "second"},
	})
}

func TestPickModel_Navigation(t *testing.T) {
	m := pickFixture()

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(pickModel)
	if m.cursor != 1 {
		t.Fatalf("expected cursor 1, got %d", m.cursor)
	}

	// Cursor stops at the last entry.
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(pickModel)
	if m.cursor != 1 {
		t.Fatalf("expected cursor clamped at 1, got %d", m.cursor)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(pickModel)
	if m.cursor != 0 {
		t.Fatalf("expected cursor 0, got %d", m.cursor)
	}
}

func TestPickModel_SelectAndCancel(t *testing.T) {
	m := pickFixture()

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	chosen := next.(pickModel)
	if chosen.chosen != "ca-1-abc.1" {
		t.Fatalf("expected first task chosen, got %q", chosen.chosen)
	}
	if cmd == nil {
		t.Fatal("expected quit command after selection")
	}

	next, _ = pickFixture().Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cancelled := next.(pickModel); cancelled.chosen != "" {
		t.Fatalf("expected no selection on cancel, got %q", cancelled.chosen)
	}
}

func TestPickModel_View(t *testing.T) {
	view := pickFixture().View()
	for _, want := range []string{"ca-1-abc.1", "first", "ca-1-abc.2", "second"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view", want)
		}
	}
}
