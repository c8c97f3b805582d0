package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/taskctl/pkg/models"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks (create, list, start, done, block, set-depends, ready)",
	Long: `Task management commands.

A task belongs to exactly one epic and carries depends_on edges to
sibling tasks. IDs take the form <epic-id>.<n>.`,
}

var taskCreateDepends []string

var taskCreateCmd = &cobra.Command{
	Use:   "create <epic-id> <title>",
	Short: "Create a new task under an epic",
	Long: `Create a task under the given epic. The task number is assigned
automatically. Use --depends-on to declare sibling tasks that must be
done before this one becomes ready.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskMgr == nil {
			return fmt.Errorf("task manager not initialized")
		}

		task, err := TaskMgr.Create(args[0], args[1], taskCreateDepends)
		if err != nil {
			return fmt.Errorf("creating task: %w", err)
		}

		fmt.Printf("Created task %s\n", task.ID)
		fmt.Printf("  Title: %s\n", task.Title)
		if len(task.DependsOn) > 0 {
			fmt.Printf("  Depends on: %s\n", strings.Join(task.DependsOn, ", "))
		}
		return nil
	},
}

var (
	taskListEpic   string
	taskListStatus string
)

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskMgr == nil {
			return fmt.Errorf("task manager not initialized")
		}

		var status models.Status
		if taskListStatus != "" {
			status = models.Status(taskListStatus)
			if !status.Valid() {
				return fmt.Errorf("invalid status %q: must be one of %v", taskListStatus, models.AllStatuses)
			}
		}

		tasks, err := TaskMgr.List(taskListEpic, status)
		if err != nil {
			return fmt.Errorf("listing tasks: %w", err)
		}
		return render(tasks, func() string { return taskTable(tasks) })
	},
}

var taskShowCmd = &cobra.Command{
	Use:   "show <task-id>",
	Short: "Show task details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskMgr == nil {
			return fmt.Errorf("task manager not initialized")
		}

		task, err := TaskMgr.Get(args[0])
		if err != nil {
			return err
		}
		return render(task, func() string { return taskDetail(task) })
	},
}

var taskCatCmd = &cobra.Command{
	Use:   "cat <task-id>",
	Short: "Print the task's spec markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskMgr == nil || SpecStore == nil {
			return fmt.Errorf("task manager not initialized")
		}

		task, err := TaskMgr.Get(args[0])
		if err != nil {
			return err
		}
		content, err := SpecStore.ReadTaskSpec(task.ID)
		if err != nil {
			return err
		}
		fmt.Print(content)
		return nil
	},
}

var taskStartCmd = &cobra.Command{
	Use:   "start <task-id>",
	Short: "Start working on a task",
	Long: `Move a task to in_progress. Pending tasks must have every dependency
done; blocked tasks are resumed and their blocked reason cleared.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskMgr == nil {
			return fmt.Errorf("task manager not initialized")
		}

		task, err := TaskMgr.Start(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Task %s is now %s\n", task.ID, task.Status)
		return nil
	},
}

var taskDoneSummary string

var taskDoneCmd = &cobra.Command{
	Use:   "done <task-id>",
	Short: "Complete a task",
	Long: `Move an in-progress task to done, recording an optional summary of
what was delivered. Tasks depending on it may become ready.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskMgr == nil {
			return fmt.Errorf("task manager not initialized")
		}

		task, err := TaskMgr.Complete(args[0], taskDoneSummary)
		if err != nil {
			return err
		}
		fmt.Printf("Task %s is done\n", task.ID)
		return nil
	},
}

var taskBlockReason string

var taskBlockCmd = &cobra.Command{
	Use:   "block <task-id>",
	Short: "Mark a task as blocked",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskMgr == nil {
			return fmt.Errorf("task manager not initialized")
		}

		task, err := TaskMgr.Block(args[0], taskBlockReason)
		if err != nil {
			return err
		}
		fmt.Printf("Task %s is blocked", task.ID)
		if task.BlockedBy != "" {
			fmt.Printf(": %s", task.BlockedBy)
		}
		fmt.Println()
		return nil
	},
}

var taskSetStatusReason string

var taskSetStatusCmd = &cobra.Command{
	Use:   "set-status <task-id> <status>",
	Short: "Change a task's lifecycle status",
	Long: `Change a task's status through the validated lifecycle. Valid
statuses: pending, in_progress, blocked, done, cancelled. Use --reason
to record a blocked reason or done summary.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskMgr == nil {
			return fmt.Errorf("task manager not initialized")
		}

		status := models.Status(args[1])
		if !status.Valid() {
			return fmt.Errorf("invalid status %q: must be one of %v", args[1], models.AllStatuses)
		}

		var task *models.Task
		var err error
		switch status {
		case models.StatusInProgress:
			task, err = TaskMgr.Start(args[0])
		case models.StatusDone:
			task, err = TaskMgr.Complete(args[0], taskSetStatusReason)
		case models.StatusBlocked:
			task, err = TaskMgr.Block(args[0], taskSetStatusReason)
		case models.StatusCancelled:
			task, err = TaskMgr.Cancel(args[0])
		default:
			task, err = TaskMgr.SetStatus(args[0], status)
		}
		if err != nil {
			return err
		}
		fmt.Printf("Task %s is now %s\n", task.ID, task.Status)
		return nil
	},
}

var taskSetDependsCmd = &cobra.Command{
	Use:   "set-depends <task-id> [dep-id...]",
	Short: "Replace a task's dependency set",
	Long: `Replace the task's depends_on edges with the given sibling task IDs.
Passing no dependency IDs clears the set. Only permitted while the task
is pending; cycles and cross-epic references are rejected.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskMgr == nil {
			return fmt.Errorf("task manager not initialized")
		}

		task, err := TaskMgr.SetDependencies(args[0], args[1:])
		if err != nil {
			return err
		}
		if len(task.DependsOn) == 0 {
			fmt.Printf("Task %s has no dependencies\n", task.ID)
		} else {
			fmt.Printf("Task %s depends on %s\n", task.ID, strings.Join(task.DependsOn, ", "))
		}
		return nil
	},
}

var taskReadyEpic string

var taskReadyCmd = &cobra.Command{
	Use:   "ready",
	Short: "List tasks that are ready to start",
	Long: `List pending tasks whose every declared dependency is done. Use
--epic to restrict the scan to one epic.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskMgr == nil {
			return fmt.Errorf("task manager not initialized")
		}

		tasks, err := TaskMgr.Ready(taskReadyEpic)
		if err != nil {
			return err
		}
		return render(tasks, func() string { return taskTable(tasks) })
	},
}

var taskDeleteForce bool

var taskDeleteCmd = &cobra.Command{
	Use:   "delete <task-id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskMgr == nil {
			return fmt.Errorf("task manager not initialized")
		}
		if !taskDeleteForce {
			return fmt.Errorf("deleting a task cannot be undone; re-run with --force")
		}

		if err := TaskMgr.Delete(args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted task %s\n", args[0])
		return nil
	},
}

func init() {
	taskCreateCmd.Flags().StringSliceVar(&taskCreateDepends, "depends-on", nil, "Sibling task IDs this task depends on")
	taskListCmd.Flags().StringVar(&taskListEpic, "epic", "", "Restrict to one epic")
	taskListCmd.Flags().StringVar(&taskListStatus, "status", "", "Filter by status (pending, in_progress, blocked, done, cancelled)")
	taskDoneCmd.Flags().StringVar(&taskDoneSummary, "summary", "", "Short summary of what was delivered")
	taskBlockCmd.Flags().StringVar(&taskBlockReason, "reason", "", "Why the task is blocked")
	taskSetStatusCmd.Flags().StringVar(&taskSetStatusReason, "reason", "", "Blocked reason or done summary")
	taskReadyCmd.Flags().StringVar(&taskReadyEpic, "epic", "", "Restrict to one epic")
	taskDeleteCmd.Flags().BoolVar(&taskDeleteForce, "force", false, "Confirm deletion")

	taskCmd.AddCommand(taskCreateCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskShowCmd)
	taskCmd.AddCommand(taskCatCmd)
	taskCmd.AddCommand(taskStartCmd)
	taskCmd.AddCommand(taskDoneCmd)
	taskCmd.AddCommand(taskBlockCmd)
	taskCmd.AddCommand(taskSetStatusCmd)
	taskCmd.AddCommand(taskSetDependsCmd)
	taskCmd.AddCommand(taskReadyCmd)
	taskCmd.AddCommand(taskDeleteCmd)

	rootCmd.AddCommand(taskCmd)
}
