package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/valter-silva-au/taskctl/pkg/models"
)

// outputFlag holds the --output flag value shared by all commands.
var outputFlag string

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFlag, "output", "o", "", "Output format: table, json, or yaml")
}

// outputFormat resolves the effective output format: the --output flag
// wins, then the global settings default, then table.
func outputFormat() string {
	if outputFlag != "" {
		return outputFlag
	}
	if Settings != nil && Settings.OutputFormat != "" {
		return Settings.OutputFormat
	}
	return "table"
}

// render prints v in the effective output format. table is called only
// for the table format and returns the human-readable rendering.
func render(v any, table func() string) error {
	switch outputFormat() {
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding output: %w", err)
		}
		fmt.Println(string(data))
	case "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding output: %w", err)
		}
		fmt.Print(string(data))
	case "table":
		fmt.Println(table())
	default:
		return fmt.Errorf("unknown output format %q (use table, json, or yaml)", outputFormat())
	}
	return nil
}

func epicTable(epics []*models.Epic) string {
	if len(epics) == 0 {
		return "No epics found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-14s %-12s %-6s %-8s %s\n", "ID", "STATUS", "CPLX", "TASKS", "TITLE")
	for _, e := range epics {
		fmt.Fprintf(&b, "%-14s %-12s %-6d %3d/%-4d %s\n",
			e.ID, e.Status, e.ComplexityScore, e.TasksDone, e.TaskCount, e.Title)
	}
	return strings.TrimRight(b.String(), "\n")
}

func epicDetail(e *models.Epic) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Epic:       %s\n", e.ID)
	fmt.Fprintf(&b, "Title:      %s\n", e.Title)
	fmt.Fprintf(&b, "Status:     %s\n", e.Status)
	fmt.Fprintf(&b, "Complexity: %d\n", e.ComplexityScore)
	fmt.Fprintf(&b, "Tasks:      %d/%d done\n", e.TasksDone, e.TaskCount)
	fmt.Fprintf(&b, "Created:    %s\n", e.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Updated:    %s", e.UpdatedAt.Format(time.RFC3339))
	return b.String()
}

func taskTable(tasks []*models.Task) string {
	if len(tasks) == 0 {
		return "No tasks found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-16s %-12s %-20s %s\n", "ID", "STATUS", "DEPENDS ON", "TITLE")
	for _, t := range tasks {
		deps := strings.Join(t.DependsOn, ",")
		if deps == "" {
			deps = "-"
		}
		fmt.Fprintf(&b, "%-16s %-12s %-20s %s\n", t.ID, t.Status, deps, t.Title)
	}
	return strings.TrimRight(b.String(), "\n")
}

func taskDetail(t *models.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Task:    %s\n", t.ID)
	fmt.Fprintf(&b, "Epic:    %s\n", t.EpicID)
	fmt.Fprintf(&b, "Title:   %s\n", t.Title)
	fmt.Fprintf(&b, "Status:  %s\n", t.Status)
	if len(t.DependsOn) > 0 {
		fmt.Fprintf(&b, "Depends: %s\n", strings.Join(t.DependsOn, ", "))
	}
	if t.BlockedBy != "" {
		fmt.Fprintf(&b, "Blocked: %s\n", t.BlockedBy)
	}
	if t.DoneSummary != "" {
		fmt.Fprintf(&b, "Summary: %s\n", t.DoneSummary)
	}
	fmt.Fprintf(&b, "Created: %s\n", t.CreatedAt.Format(time.RFC3339))
	if t.StartedAt != nil {
		fmt.Fprintf(&b, "Started: %s\n", t.StartedAt.Format(time.RFC3339))
	}
	if t.CompletedAt != nil {
		fmt.Fprintf(&b, "Done:    %s\n", t.CompletedAt.Format(time.RFC3339))
	}
	fmt.Fprintf(&b, "Updated: %s", t.UpdatedAt.Format(time.RFC3339))
	return b.String()
}

func reviewTable(records []*models.ReviewRecord) string {
	if len(records) == 0 {
		return "No reviews found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-4s %-14s %-10s %-12s %s\n", "#", "VERDICT", "ESCALATED", "REVIEWER", "NOTES")
	for _, r := range records {
		escalated := "-"
		if r.Escalated {
			escalated = "yes"
		}
		fmt.Fprintf(&b, "%-4d %-14s %-10s %-12s %s\n", r.Iteration, r.Verdict, escalated, r.Reviewer, r.Notes)
	}
	return strings.TrimRight(b.String(), "\n")
}

func reviewDetail(r *models.ReviewRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Review:    %s iteration %d\n", r.TaskID, r.Iteration)
	fmt.Fprintf(&b, "Verdict:   %s\n", r.Verdict)
	if r.Escalated {
		fmt.Fprintf(&b, "Escalated: yes\n")
	}
	fmt.Fprintf(&b, "Reviewer:  %s\n", r.Reviewer)
	if r.Notes != "" {
		fmt.Fprintf(&b, "Notes:     %s\n", r.Notes)
	}
	fmt.Fprintf(&b, "Logged:    %s", r.Timestamp.Format(time.RFC3339))
	return b.String()
}
