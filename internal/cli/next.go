package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/taskctl/internal/core"
)

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Recommend the single next action",
	Long: `Recommend what to work on next: resume an in-progress task, start the
first ready task of the earliest active epic, or break down an epic that
has no tasks yet.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Planner == nil {
			return fmt.Errorf("planner not initialized")
		}

		action, err := Planner.Next()
		if err != nil {
			return err
		}
		return render(action, func() string {
			var b strings.Builder
			switch action.Kind {
			case core.ActionResume:
				fmt.Fprintf(&b, "Resume %s", action.ID)
			case core.ActionStart:
				fmt.Fprintf(&b, "Start %s", action.ID)
			case core.ActionPlan:
				fmt.Fprintf(&b, "Plan %s", action.ID)
			case core.ActionAllDone:
				b.WriteString("All done")
			default:
				b.WriteString("Nothing ready")
			}
			if action.Title != "" {
				fmt.Fprintf(&b, ": %s", action.Title)
			}
			if action.Detail != "" {
				fmt.Fprintf(&b, "\n  %s", action.Detail)
			}
			return b.String()
		})
	},
}

func init() {
	rootCmd.AddCommand(nextCmd)
}
