package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and edit the project configuration",
	Long: `Read and write keys in the workspace's .tasks/config.json using dot
notation (e.g. review.maxIterations).`,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if ConfigStore == nil {
			return fmt.Errorf("config store not initialized")
		}

		value, err := ConfigStore.Get(args[0])
		if err != nil {
			return err
		}
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encoding value: %w", err)
		}
		fmt.Println(string(data))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one configuration value",
	Long: `Set a configuration key. Values parse as JSON where possible, so
'true', '3', and '"text"' become bool, number, and string; anything
else is stored as a plain string.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if ConfigStore == nil {
			return fmt.Errorf("config store not initialized")
		}

		if err := ConfigStore.Set(args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Set %s = %s\n", args[0], args[1])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the whole configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if ConfigStore == nil {
			return fmt.Errorf("config store not initialized")
		}

		raw, err := ConfigStore.Raw()
		if err != nil {
			return err
		}
		return render(raw, func() string {
			flat := make(map[string]any)
			flattenConfig("", raw, flat)
			keys := make([]string, 0, len(flat))
			for k := range flat {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			out := ""
			for _, k := range keys {
				data, _ := json.Marshal(flat[k])
				out += fmt.Sprintf("%s = %s\n", k, data)
			}
			if out == "" {
				return "No configuration set."
			}
			return out[:len(out)-1]
		})
	},
}

// flattenConfig expands nested maps into dot-notation keys.
func flattenConfig(prefix string, value any, out map[string]any) {
	m, ok := value.(map[string]any)
	if !ok {
		out[prefix] = value
		return
	}
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		flattenConfig(key, v, out)
	}
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}
