package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/taskctl/pkg/models"
)

// statusDisplayOrder is the lifecycle order used for human output.
var statusDisplayOrder = []models.Status{
	models.StatusInProgress,
	models.StatusBlocked,
	models.StatusPending,
	models.StatusDone,
	models.StatusCancelled,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show a snapshot of the whole backlog",
	Long: `Display epic and task counts grouped by lifecycle status, per-epic
completion progress, and the tasks that are currently ready to start.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Summarizer == nil {
			return fmt.Errorf("summarizer not initialized")
		}
		summary, err := Summarizer.Summarize()
		if err != nil {
			return err
		}
		return render(summary, func() string {
			var b strings.Builder
			fmt.Fprintf(&b, "Epics: %d  Tasks: %d\n\n", summary.EpicTotal, summary.TaskTotal)

			b.WriteString("Tasks by status:\n")
			for _, status := range statusDisplayOrder {
				if count := summary.TasksByStatus[status]; count > 0 {
					fmt.Fprintf(&b, "  %-12s %d\n", status, count)
				}
			}

			if len(summary.Epics) > 0 {
				b.WriteString("\nEpics:\n")
				for _, e := range summary.Epics {
					fmt.Fprintf(&b, "  %-14s %-12s %3d/%-4d %s\n", e.ID, e.Status, e.TasksDone, e.TaskCount, e.Title)
				}
			}

			if len(summary.ReadyTasks) > 0 {
				fmt.Fprintf(&b, "\nReady to start: %s", strings.Join(summary.ReadyTasks, ", "))
			}
			return strings.TrimRight(b.String(), "\n")
		})
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
