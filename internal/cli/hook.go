package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/taskctl/internal/hooks"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Handle agent runtime hook events",
	Long: `Process tool-use hook events from an agent runtime.

Each subcommand reads tool_name and tool_input as JSON from stdin,
resolves the active task from the ` + hooks.ActiveTaskEnvVar + ` environment
variable, and allows or denies the pending file mutation.

A denial exits with code 2 and writes the reason to stderr; the agent
runtime surfaces it to the model. Infrastructure failures never deny.`,
}

// runGuardHook is the shared body of the pre-edit and pre-write hooks.
func runGuardHook() error {
	if Guard == nil {
		return nil
	}
	if Settings != nil && !Settings.GuardEnabled {
		return nil
	}

	input, err := hooks.ParseStdin[hooks.PreToolUseInput](os.Stdin)
	if err != nil {
		return nil // Swallow parse errors, don't block.
	}
	// Tool calls that touch no file are outside the guard's jurisdiction.
	if input.ToolName != "" && input.FilePath() == "" {
		return nil
	}

	decision := Guard.Evaluate(hooks.ActiveTaskID())
	if decision.Warning != "" {
		fmt.Fprintf(os.Stderr, "taskctl: %s\n", decision.Warning)
	}
	if !decision.Allow {
		fmt.Fprintln(os.Stderr, decision.Reason)
		os.Exit(2)
	}
	return nil
}

var hookPreEditCmd = &cobra.Command{
	Use:   "pre-edit",
	Short: "Gate file edits behind a started task (blocking)",
	Long: `Deny the pending edit (exit 2) unless the active task is in progress.
With no active task declared, the edit is allowed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGuardHook()
	},
}

var hookPreWriteCmd = &cobra.Command{
	Use:   "pre-write",
	Short: "Gate file writes behind a started task (blocking)",
	Long: `Deny the pending write (exit 2) unless the active task is in progress.
With no active task declared, the write is allowed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGuardHook()
	},
}

func init() {
	hookCmd.AddCommand(hookPreEditCmd)
	hookCmd.AddCommand(hookPreWriteCmd)
	rootCmd.AddCommand(hookCmd)
}
