package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/taskctl/pkg/models"
)

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Manage the project memory (pitfalls, conventions, decisions)",
	Long: `Append-only markdown memory, one file per category under
.tasks/memory/. Agents record pitfalls, conventions, and decisions here
so later sessions can read them back.`,
}

var memoryInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the memory files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if MemoryStore == nil {
			return fmt.Errorf("memory store not initialized")
		}

		initialized, err := MemoryStore.Initialized()
		if err != nil {
			return err
		}
		if initialized {
			fmt.Println("Memory already initialized.")
			return nil
		}
		if err := MemoryStore.Init(); err != nil {
			return err
		}
		if ConfigStore != nil {
			if err := ConfigStore.Set("memory.enabled", "true"); err != nil {
				return err
			}
		}
		fmt.Println("Memory initialized.")
		return nil
	},
}

var memoryAddCmd = &cobra.Command{
	Use:   "add <type> <content>",
	Short: "Append an entry to a memory category",
	Long: `Append a timestamped entry to one of the memory files. Valid types:
pitfall, convention, decision.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if MemoryStore == nil {
			return fmt.Errorf("memory store not initialized")
		}

		memType := models.MemoryType(args[0])
		if !memType.Valid() {
			return fmt.Errorf("invalid memory type %q: must be pitfall, convention, or decision", args[0])
		}

		if err := MemoryStore.Append(memType, args[1]); err != nil {
			return err
		}
		fmt.Printf("Recorded %s\n", memType)
		return nil
	},
}

var memoryListCmd = &cobra.Command{
	Use:   "list <type>",
	Short: "Print a memory category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if MemoryStore == nil {
			return fmt.Errorf("memory store not initialized")
		}

		memType := models.MemoryType(args[0])
		if !memType.Valid() {
			return fmt.Errorf("invalid memory type %q: must be pitfall, convention, or decision", args[0])
		}

		content, err := MemoryStore.Read(memType)
		if err != nil {
			return err
		}
		fmt.Print(content)
		return nil
	},
}

func init() {
	memoryCmd.AddCommand(memoryInitCmd)
	memoryCmd.AddCommand(memoryAddCmd)
	memoryCmd.AddCommand(memoryListCmd)
	rootCmd.AddCommand(memoryCmd)
}
