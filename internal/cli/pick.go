package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/taskctl/pkg/models"
)

// Picker styles.
var (
	pickTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	pickCursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true)
	pickDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type pickModel struct {
	tasks  []*models.Task
	cursor int

	// chosen holds the selected task ID after enter; empty on cancel.
	chosen string
}

func newPickModel(tasks []*models.Task) pickModel {
	return pickModel{tasks: tasks}
}

func (m pickModel) Init() tea.Cmd {
	return nil
}

func (m pickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "j":
			if m.cursor < len(m.tasks)-1 {
				m.cursor++
			}
			return m, nil
		case "enter":
			m.chosen = m.tasks[m.cursor].ID
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m pickModel) View() string {
	var b strings.Builder
	b.WriteString(pickTitleStyle.Render(" Ready tasks "))
	b.WriteString("\n\n")

	for i, t := range m.tasks {
		line := fmt.Sprintf("%-16s %s", t.ID, t.Title)
		if i == m.cursor {
			b.WriteString(pickCursorStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(pickDimStyle.Render("up/down: move | enter: start task | q: cancel"))
	return b.String()
}

var pickEpic string

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Interactively pick a ready task and start it",
	Long: `Show the tasks that are ready to start in an interactive list and
move the selected one to in_progress.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskMgr == nil {
			return fmt.Errorf("task manager not initialized")
		}

		tasks, err := TaskMgr.Ready(pickEpic)
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			fmt.Println("No ready tasks.")
			return nil
		}

		p := tea.NewProgram(newPickModel(tasks))
		final, err := p.Run()
		if err != nil {
			return fmt.Errorf("running picker: %w", err)
		}

		model, ok := final.(pickModel)
		if !ok || model.chosen == "" {
			return nil
		}

		task, err := TaskMgr.Start(model.chosen)
		if err != nil {
			return err
		}
		fmt.Printf("Task %s is now %s\n", task.ID, task.Status)
		return nil
	},
}

func init() {
	pickCmd.Flags().StringVar(&pickEpic, "epic", "", "Restrict to one epic")
	rootCmd.AddCommand(pickCmd)
}
