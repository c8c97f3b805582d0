package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/taskctl/internal/storage"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Initialize a taskctl store in the given directory",
	Long: `Create the .tasks/ store directory with its epics, specs, and tasks
subdirectories plus the schema metadata and default project configuration.

Safe to run on an existing store -- nothing is overwritten.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		basePath := BasePath
		if len(args) > 0 {
			basePath = args[0]
		}
		absPath, err := filepath.Abs(basePath)
		if err != nil {
			return fmt.Errorf("resolving path: %w", err)
		}

		created, err := storage.Initialize(absPath)
		if err != nil {
			return err
		}
		if !created {
			fmt.Printf("Store already exists at %s\n", filepath.Join(absPath, storage.TasksDirName))
			return nil
		}
		fmt.Printf("Initialized empty store at %s\n", filepath.Join(absPath, storage.TasksDirName))
		return nil
	},
}

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Report whether a taskctl store exists here",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		result := storage.Detect(BasePath)
		return render(result, func() string {
			switch {
			case !result.Exists:
				return "No store found (run 'taskctl init')."
			case !result.Valid:
				return fmt.Sprintf("Store at %s is missing required subdirectories.", result.Path)
			default:
				return fmt.Sprintf("Store found at %s.", result.Path)
			}
		})
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(detectCmd)
}
