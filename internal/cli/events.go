package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/taskctl/internal/observability"
)

var (
	eventsType  string
	eventsSince string
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Read the workspace event log",
	Long: `Print events from the append-only JSONL log written alongside the
store. Filter by type with --type and by age with --since (e.g. 24h, 7d).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if EventLog == nil {
			return fmt.Errorf("event log not available (no store found or events disabled)")
		}

		filter := observability.EventFilter{Type: eventsType}
		if eventsSince != "" {
			since, err := parseSince(eventsSince)
			if err != nil {
				return err
			}
			filter.Since = &since
		}

		events, err := EventLog.Read(filter)
		if err != nil {
			return err
		}
		return render(events, func() string {
			if len(events) == 0 {
				return "No events found."
			}
			var b strings.Builder
			for _, e := range events {
				fmt.Fprintf(&b, "%s  %-22s %s\n", e.Time.Format(time.RFC3339), e.Type, e.Message)
			}
			return strings.TrimRight(b.String(), "\n")
		})
	},
}

// parseSince parses a human-friendly duration like "7d" or "24h" into the
// corresponding time in the past.
func parseSince(s string) (time.Time, error) {
	now := time.Now().UTC()

	if len(s) < 2 {
		return time.Time{}, fmt.Errorf("invalid duration %q", s)
	}

	suffix := s[len(s)-1]
	numStr := s[:len(s)-1]
	var num int
	if _, err := fmt.Sscanf(numStr, "%d", &num); err != nil {
		return time.Time{}, fmt.Errorf("invalid duration %q: %w", s, err)
	}

	switch suffix {
	case 'd':
		return now.AddDate(0, 0, -num), nil
	case 'h':
		return now.Add(-time.Duration(num) * time.Hour), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported duration suffix %q (use d or h)", string(suffix))
	}
}

func init() {
	eventsCmd.Flags().StringVar(&eventsType, "type", "", "Filter by event type (e.g. task.status_changed)")
	eventsCmd.Flags().StringVar(&eventsSince, "since", "", "Only events newer than this (e.g. 24h, 7d)")
	rootCmd.AddCommand(eventsCmd)
}
