package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/taskctl/internal/core"
	"github.com/valter-silva-au/taskctl/internal/observability"
	"github.com/valter-silva-au/taskctl/pkg/models"
)

// Dashboard panel indices.
const (
	panelEpics = iota
	panelTasks
	panelNext
	panelCount
)

type dashboardModel struct {
	activePanel int
	width       int
	height      int

	// Data.
	summary *observability.StatusSummary
	next    *core.NextAction

	// State.
	loading bool
	err     error
}

// dashboardDataMsg carries loaded data back to the model.
type dashboardDataMsg struct {
	summary *observability.StatusSummary
	next    *core.NextAction
	err     error
}

// Style definitions.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(1, 2)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			MarginBottom(1)

	statusInProgressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	statusDoneStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	statusBlockedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusPendingStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	statusCancelledStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newDashboardModel() dashboardModel {
	return dashboardModel{
		activePanel: panelEpics,
		loading:     true,
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return loadDashboardData
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.activePanel = (m.activePanel + 1) % panelCount
			return m, nil
		case "shift+tab":
			m.activePanel = (m.activePanel - 1 + panelCount) % panelCount
			return m, nil
		case "r":
			m.loading = true
			return m, loadDashboardData
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case dashboardDataMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.summary = msg.summary
		m.next = msg.next
		m.err = nil
		return m, nil
	}

	return m, nil
}

func (m dashboardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	title := titleStyle.Render(" taskctl Dashboard ")
	help := helpStyle.Render("tab: switch panel | r: refresh | q: quit")

	if m.loading {
		return fmt.Sprintf("%s\n\n  Loading data...\n\n%s", title, help)
	}

	if m.err != nil {
		return fmt.Sprintf("%s\n\n  Error: %s\n\n%s", title, m.err, help)
	}

	epicsPanel := m.renderEpicsPanel()
	tasksPanel := m.renderTasksPanel()
	nextPanel := m.renderNextPanel()

	// Available width for panels after accounting for margins.
	availableWidth := m.width - 2

	var body string
	if availableWidth > 120 {
		// Horizontal layout: three columns.
		colWidth := availableWidth / 3
		epicsPanel = m.applyPanelStyle(panelEpics, epicsPanel, colWidth-4)
		tasksPanel = m.applyPanelStyle(panelTasks, tasksPanel, colWidth-4)
		nextPanel = m.applyPanelStyle(panelNext, nextPanel, colWidth-4)
		body = lipgloss.JoinHorizontal(lipgloss.Top, epicsPanel, tasksPanel, nextPanel)
	} else {
		// Vertical layout: stacked.
		panelWidth := availableWidth - 4
		if panelWidth < 20 {
			panelWidth = 20
		}
		epicsPanel = m.applyPanelStyle(panelEpics, epicsPanel, panelWidth)
		tasksPanel = m.applyPanelStyle(panelTasks, tasksPanel, panelWidth)
		nextPanel = m.applyPanelStyle(panelNext, nextPanel, panelWidth)
		body = lipgloss.JoinVertical(lipgloss.Left, epicsPanel, tasksPanel, nextPanel)
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s", title, body, help)
}

func (m dashboardModel) applyPanelStyle(panel int, content string, width int) string {
	style := panelStyle
	if m.activePanel == panel {
		style = activePanelStyle
	}
	return style.Width(width).Render(content)
}

func (m dashboardModel) renderEpicsPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Epics"))
	b.WriteString("\n")

	if m.summary == nil || len(m.summary.Epics) == 0 {
		b.WriteString("  No epics found.")
		return b.String()
	}

	for _, e := range m.summary.Epics {
		label := fmt.Sprintf("  %-14s %3d/%-4d %s", e.ID, e.TasksDone, e.TaskCount, e.Title)
		b.WriteString(styleForStatus(e.Status).Render(label))
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("\n  Total: %d", len(m.summary.Epics)))

	return b.String()
}

func (m dashboardModel) renderTasksPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Tasks"))
	b.WriteString("\n")

	if m.summary == nil || m.summary.TaskTotal == 0 {
		b.WriteString("  No tasks found.")
		return b.String()
	}

	for _, status := range statusDisplayOrder {
		count := m.summary.TasksByStatus[status]
		if count == 0 {
			continue
		}
		label := fmt.Sprintf("  %-14s %d", status, count)
		b.WriteString(styleForStatus(status).Render(label))
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("\n  Ready: %d  Total: %d", len(m.summary.ReadyTasks), m.summary.TaskTotal))

	return b.String()
}

func (m dashboardModel) renderNextPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Next"))
	b.WriteString("\n")

	if m.next == nil {
		b.WriteString("  No recommendation.")
		return b.String()
	}

	switch m.next.Kind {
	case core.ActionResume:
		b.WriteString(statusInProgressStyle.Render(fmt.Sprintf("  Resume %s", m.next.ID)))
	case core.ActionStart:
		b.WriteString(statusPendingStyle.Render(fmt.Sprintf("  Start %s", m.next.ID)))
	case core.ActionPlan:
		b.WriteString(fmt.Sprintf("  Plan %s", m.next.ID))
	case core.ActionAllDone:
		b.WriteString(statusDoneStyle.Render("  All done."))
	default:
		b.WriteString(statusBlockedStyle.Render("  Nothing ready."))
	}
	if m.next.Title != "" {
		b.WriteString(fmt.Sprintf("\n  %s", m.next.Title))
	}
	if m.next.Detail != "" {
		b.WriteString(fmt.Sprintf("\n\n  %s", m.next.Detail))
	}

	return b.String()
}

func styleForStatus(status models.Status) lipgloss.Style {
	switch status {
	case models.StatusInProgress:
		return statusInProgressStyle
	case models.StatusDone:
		return statusDoneStyle
	case models.StatusBlocked:
		return statusBlockedStyle
	case models.StatusPending:
		return statusPendingStyle
	case models.StatusCancelled:
		return statusCancelledStyle
	default:
		return lipgloss.NewStyle()
	}
}

func loadDashboardData() tea.Msg {
	var result dashboardDataMsg

	if Summarizer != nil {
		summary, err := Summarizer.Summarize()
		if err != nil {
			result.err = fmt.Errorf("loading summary: %w", err)
			return result
		}
		result.summary = summary
	}

	if Planner != nil {
		next, err := Planner.Next()
		if err != nil {
			result.err = fmt.Errorf("computing next action: %w", err)
			return result
		}
		result.next = next
	}

	return result
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive TUI dashboard for the backlog",
	Long: `Launch an interactive terminal dashboard showing epic progress, task
status counts, and the recommended next action.

Navigate between panels with Tab, refresh with r, quit with q.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Summarizer == nil {
			return fmt.Errorf("summarizer not initialized")
		}
		p := tea.NewProgram(newDashboardModel(), tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
