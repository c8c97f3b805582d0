package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/taskctl/internal/core"
)

var catCmd = &cobra.Command{
	Use:   "cat <id>",
	Short: "Print the spec markdown for an epic or task",
	Long: `Print the spec file for the given ID. Task IDs (<epic-id>.<n>)
resolve to task specs, anything else to epic specs.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if SpecStore == nil {
			return fmt.Errorf("spec store not initialized")
		}

		id := args[0]
		if core.IsTaskID(id) {
			return taskCatCmd.RunE(taskCatCmd, args)
		}
		return epicCatCmd.RunE(epicCatCmd, args)
	},
}

func init() {
	rootCmd.AddCommand(catCmd)
}
