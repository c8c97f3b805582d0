package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/taskctl/pkg/models"
)

var epicCmd = &cobra.Command{
	Use:   "epic",
	Short: "Manage epics (create, list, show, set-status, delete)",
	Long: `Epic management commands.

An epic is a unit of planned work that owns a markdown spec and a set of
tasks. Epic IDs are generated as <prefix>-<seq>-<suffix>.`,
}

var epicCreateComplexity int

var epicCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a new epic",
	Long: `Create a new epic with the given title. A spec file seeded with the
standard Overview/Requirements/Acceptance Criteria sections is written
alongside it. Use --complexity to record an effort score.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if EpicMgr == nil {
			return fmt.Errorf("epic manager not initialized")
		}

		epic, err := EpicMgr.Create(args[0], epicCreateComplexity)
		if err != nil {
			return fmt.Errorf("creating epic: %w", err)
		}

		fmt.Printf("Created epic %s\n", epic.ID)
		fmt.Printf("  Title:      %s\n", epic.Title)
		fmt.Printf("  Complexity: %d\n", epic.ComplexityScore)
		fmt.Printf("  Spec:       %s\n", epic.SpecRef)
		return nil
	},
}

var epicListStatus string

var epicListCmd = &cobra.Command{
	Use:   "list",
	Short: "List epics in creation order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if EpicMgr == nil {
			return fmt.Errorf("epic manager not initialized")
		}

		var status models.Status
		if epicListStatus != "" {
			status = models.Status(epicListStatus)
			if !status.Valid() {
				return fmt.Errorf("invalid status %q: must be one of %v", epicListStatus, models.AllStatuses)
			}
		}

		epics, err := EpicMgr.List(status)
		if err != nil {
			return fmt.Errorf("listing epics: %w", err)
		}
		return render(epics, func() string { return epicTable(epics) })
	},
}

var epicShowCmd = &cobra.Command{
	Use:   "show <epic-id>",
	Short: "Show epic details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if EpicMgr == nil {
			return fmt.Errorf("epic manager not initialized")
		}

		epic, err := EpicMgr.Get(args[0])
		if err != nil {
			return err
		}
		return render(epic, func() string { return epicDetail(epic) })
	},
}

var epicCatCmd = &cobra.Command{
	Use:   "cat <epic-id>",
	Short: "Print the epic's spec markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if EpicMgr == nil || SpecStore == nil {
			return fmt.Errorf("epic manager not initialized")
		}

		// Resolve the epic first so a missing epic and a missing spec
		// file produce distinct errors.
		epic, err := EpicMgr.Get(args[0])
		if err != nil {
			return err
		}
		content, err := SpecStore.ReadEpicSpec(epic.ID)
		if err != nil {
			return err
		}
		fmt.Print(content)
		return nil
	},
}

var epicSetStatusCmd = &cobra.Command{
	Use:   "set-status <epic-id> <status>",
	Short: "Change an epic's lifecycle status",
	Long: `Change an epic's status through the validated lifecycle. Valid
statuses: pending, in_progress, blocked, done, cancelled. Terminal
statuses (done, cancelled) cannot be left.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if EpicMgr == nil {
			return fmt.Errorf("epic manager not initialized")
		}

		status := models.Status(args[1])
		if !status.Valid() {
			return fmt.Errorf("invalid status %q: must be one of %v", args[1], models.AllStatuses)
		}

		epic, err := EpicMgr.SetStatus(args[0], status)
		if err != nil {
			return err
		}
		fmt.Printf("Epic %s is now %s\n", epic.ID, epic.Status)
		return nil
	},
}

var epicDeleteForce bool

var epicDeleteCmd = &cobra.Command{
	Use:   "delete <epic-id>",
	Short: "Delete an epic and all of its tasks",
	Long: `Remove an epic, its spec file, and every task that belongs to it.
This cannot be undone; --force is required.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if EpicMgr == nil {
			return fmt.Errorf("epic manager not initialized")
		}
		if !epicDeleteForce {
			return fmt.Errorf("deleting an epic removes all of its tasks; re-run with --force")
		}

		if err := EpicMgr.Delete(args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted epic %s\n", args[0])
		return nil
	},
}

func init() {
	epicCreateCmd.Flags().IntVar(&epicCreateComplexity, "complexity", 0, "Complexity score for the epic")
	epicListCmd.Flags().StringVar(&epicListStatus, "status", "", "Filter by status (pending, in_progress, blocked, done, cancelled)")
	epicDeleteCmd.Flags().BoolVar(&epicDeleteForce, "force", false, "Confirm deletion of the epic and its tasks")

	epicCmd.AddCommand(epicCreateCmd)
	epicCmd.AddCommand(epicListCmd)
	epicCmd.AddCommand(epicShowCmd)
	epicCmd.AddCommand(epicCatCmd)
	epicCmd.AddCommand(epicSetStatusCmd)
	epicCmd.AddCommand(epicDeleteCmd)

	rootCmd.AddCommand(epicCmd)
}
