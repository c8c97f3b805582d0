package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/taskctl/pkg/models"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review gating (init, log, count, list, show)",
	Long: `Bounded review loop for task completion.

Each 'review log' appends an immutable receipt. SHIP completes the task;
NEEDS_WORK sends it back for another iteration; MAJOR_RETHINK blocks it
for human attention. When the iteration bound is reached, a NEEDS_WORK
verdict escalates to MAJOR_RETHINK automatically.`,
}

var reviewInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Enable review gating for this workspace",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if ReviewEng == nil {
			return fmt.Errorf("review engine not initialized")
		}

		if err := ReviewEng.Init(); err != nil {
			return err
		}
		fmt.Println("Review gating enabled.")
		return nil
	},
}

var (
	reviewLogReviewer string
	reviewLogNotes    string
)

var reviewLogCmd = &cobra.Command{
	Use:   "log <task-id> <verdict>",
	Short: "Record a review verdict for a task",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if ReviewEng == nil {
			return fmt.Errorf("review engine not initialized")
		}

		outcome, err := ReviewEng.Log(args[0], models.Verdict(args[1]), reviewLogReviewer, reviewLogNotes)
		if err != nil {
			return err
		}

		record := outcome.Record
		fmt.Printf("Review %d for %s: %s\n", record.Iteration, record.TaskID, record.Verdict)
		if outcome.Escalated {
			fmt.Println("Iteration bound reached; verdict escalated to MAJOR_RETHINK.")
		}
		if outcome.TaskCompleted {
			fmt.Printf("Task %s is done\n", record.TaskID)
		}
		return nil
	},
}

var reviewCountCmd = &cobra.Command{
	Use:   "count <task-id>",
	Short: "Print the number of review iterations for a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if ReviewEng == nil {
			return fmt.Errorf("review engine not initialized")
		}

		count, err := ReviewEng.Count(args[0])
		if err != nil {
			return err
		}
		fmt.Println(count)
		return nil
	},
}

var reviewListCmd = &cobra.Command{
	Use:   "list <task-id>",
	Short: "List a task's review receipts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if ReviewEng == nil {
			return fmt.Errorf("review engine not initialized")
		}

		records, err := ReviewEng.List(args[0])
		if err != nil {
			return err
		}
		return render(records, func() string { return reviewTable(records) })
	},
}

var reviewShowCmd = &cobra.Command{
	Use:   "show <task-id> [iteration]",
	Short: "Show one review receipt (latest by default)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if ReviewEng == nil {
			return fmt.Errorf("review engine not initialized")
		}

		iteration := 0
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 1 {
				return fmt.Errorf("invalid iteration %q", args[1])
			}
			iteration = n
		}

		record, err := ReviewEng.Show(args[0], iteration)
		if err != nil {
			return err
		}
		return render(record, func() string { return reviewDetail(record) })
	},
}

func init() {
	reviewLogCmd.Flags().StringVar(&reviewLogReviewer, "reviewer", "", "Reviewer name (defaults to the configured reviewer)")
	reviewLogCmd.Flags().StringVar(&reviewLogNotes, "notes", "", "Free-form review notes")

	reviewCmd.AddCommand(reviewInitCmd)
	reviewCmd.AddCommand(reviewLogCmd)
	reviewCmd.AddCommand(reviewCountCmd)
	reviewCmd.AddCommand(reviewListCmd)
	reviewCmd.AddCommand(reviewShowCmd)
	rootCmd.AddCommand(reviewCmd)
}
