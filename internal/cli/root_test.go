package cli

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestRootCommandRegistration(t *testing.T) {
	want := []string{
		"init", "detect", "status", "next", "cat", "pick",
		"epic", "task", "review", "config", "memory",
		"hook", "dashboard", "events", "mcp", "version",
	}

	registered := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		registered[cmd.Name()] = true
	}

	for _, name := range want {
		if !registered[name] {
			t.Errorf("expected %q to be registered on the root command", name)
		}
	}
}

func TestEpicSubcommands(t *testing.T) {
	assertSubcommands(t, epicCmd.Commands(), "create", "list", "show", "cat", "set-status", "delete")
}

func TestTaskSubcommands(t *testing.T) {
	assertSubcommands(t, taskCmd.Commands(),
		"create", "list", "show", "cat", "start", "done", "block",
		"set-status", "set-depends", "ready", "delete")
}

func TestReviewSubcommands(t *testing.T) {
	assertSubcommands(t, reviewCmd.Commands(), "init", "log", "count", "list", "show")
}

func TestHookSubcommands(t *testing.T) {
	assertSubcommands(t, hookCmd.Commands(), "pre-edit", "pre-write")
}

func assertSubcommands(t *testing.T, cmds []*cobra.Command, want ...string) {
	t.Helper()
	registered := make(map[string]bool)
	for _, cmd := range cmds {
		registered[cmd.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("expected subcommand %q to be registered", name)
		}
	}
}
