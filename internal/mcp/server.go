// Package mcp provides an MCP (Model Context Protocol) server that exposes
// taskctl functionality as MCP tools for AI coding agents.
package mcp

import (
	"context"
	"fmt"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/valter-silva-au/taskctl/internal/core"
	"github.com/valter-silva-au/taskctl/internal/observability"
	"github.com/valter-silva-au/taskctl/pkg/models"
)

// Server wraps taskctl services and exposes them as MCP tools.
type Server struct {
	server     *gomcp.Server
	epicMgr    core.EpicManager
	taskMgr    core.TaskManager
	reviews    core.ReviewEngine
	planner    core.Planner
	summarizer observability.Summarizer
}

// NewServer creates a new MCP server with the given taskctl service
// dependencies. summarizer may be nil if observability is disabled.
func NewServer(epicMgr core.EpicManager, taskMgr core.TaskManager, reviews core.ReviewEngine, planner core.Planner, summarizer observability.Summarizer, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		epicMgr:    epicMgr,
		taskMgr:    taskMgr,
		reviews:    reviews,
		planner:    planner,
		summarizer: summarizer,
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "taskctl", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server on stdio, blocking until the client
// disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type getEpicInput struct {
	EpicID string `json:"epic_id" jsonschema:"required,the epic identifier (e.g. ca-1-x7f)"`
}

type epicOutput struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Status     string `json:"status"`
	Complexity int    `json:"complexity_score"`
	TaskCount  int    `json:"task_count"`
	TasksDone  int    `json:"tasks_done"`
	Created    string `json:"created"`
	Updated    string `json:"updated"`
}

type getTaskInput struct {
	TaskID string `json:"task_id" jsonschema:"required,the task identifier (e.g. ca-1-x7f.2)"`
}

type taskOutput struct {
	ID          string   `json:"id"`
	EpicID      string   `json:"epic_id"`
	Title       string   `json:"title"`
	Status      string   `json:"status"`
	DependsOn   []string `json:"depends_on,omitempty"`
	BlockedBy   string   `json:"blocked_by,omitempty"`
	DoneSummary string   `json:"done_summary,omitempty"`
	Created     string   `json:"created"`
	Updated     string   `json:"updated"`
}

type listReadyTasksInput struct {
	EpicID string `json:"epic_id,omitempty" jsonschema:"restrict to one epic; omit to scan the whole backlog"`
}

type listReadyTasksOutput struct {
	Tasks []taskOutput `json:"tasks"`
	Count int          `json:"count"`
}

type nextActionInput struct{}

type nextActionOutput struct {
	Kind   string `json:"kind"`
	ID     string `json:"id,omitempty"`
	Title  string `json:"title,omitempty"`
	Detail string `json:"detail,omitempty"`
}

type updateTaskStatusInput struct {
	TaskID string `json:"task_id" jsonschema:"required,the task identifier (e.g. ca-1-x7f.2)"`
	Status string `json:"status" jsonschema:"required,the new status (pending, in_progress, blocked, done, cancelled)"`
	Reason string `json:"reason,omitempty" jsonschema:"blocked reason or done summary"`
}

type updateTaskStatusOutput struct {
	Message string `json:"message"`
}

type logReviewInput struct {
	TaskID   string `json:"task_id" jsonschema:"required,the task under review"`
	Verdict  string `json:"verdict" jsonschema:"required,one of SHIP NEEDS_WORK MAJOR_RETHINK"`
	Reviewer string `json:"reviewer,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

type logReviewOutput struct {
	Iteration     int    `json:"iteration"`
	Verdict       string `json:"verdict"`
	Escalated     bool   `json:"escalated"`
	TaskCompleted bool   `json:"task_completed"`
	Message       string `json:"message"`
}

type getStatusSummaryInput struct{}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_epic",
		Description: "Get epic details by ID, including task completion counts.",
	}, s.handleGetEpic)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_task",
		Description: "Get task details by ID. Returns the full task object including status and dependencies.",
	}, s.handleGetTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_ready_tasks",
		Description: "List tasks that are pending with every dependency done, optionally restricted to one epic.",
	}, s.handleListReadyTasks)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "next_action",
		Description: "Recommend the single next action: resume in-progress work, start a ready task, or plan an empty epic.",
	}, s.handleNextAction)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "update_task_status",
		Description: "Update a task's lifecycle status. Valid statuses: pending, in_progress, blocked, done, cancelled.",
	}, s.handleUpdateTaskStatus)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "log_review",
		Description: "Record a review verdict for a task (SHIP, NEEDS_WORK, MAJOR_RETHINK). SHIP completes the task; reaching the iteration bound escalates NEEDS_WORK to MAJOR_RETHINK.",
	}, s.handleLogReview)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_status_summary",
		Description: "Get a snapshot of the whole backlog: epic and task counts by status plus currently ready tasks.",
	}, s.handleGetStatusSummary)
}

// --- Tool handlers ---

func (s *Server) handleGetEpic(_ context.Context, _ *gomcp.CallToolRequest, input getEpicInput) (*gomcp.CallToolResult, epicOutput, error) {
	if input.EpicID == "" {
		return errorResult("epic_id is required"), epicOutput{}, nil
	}

	epic, err := s.epicMgr.Get(input.EpicID)
	if err != nil {
		return errorResult(fmt.Sprintf("getting epic %s: %s", input.EpicID, err)), epicOutput{}, nil
	}

	return nil, epicToOutput(epic), nil
}

func (s *Server) handleGetTask(_ context.Context, _ *gomcp.CallToolRequest, input getTaskInput) (*gomcp.CallToolResult, taskOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), taskOutput{}, nil
	}

	task, err := s.taskMgr.Get(input.TaskID)
	if err != nil {
		return errorResult(fmt.Sprintf("getting task %s: %s", input.TaskID, err)), taskOutput{}, nil
	}

	return nil, taskToOutput(task), nil
}

func (s *Server) handleListReadyTasks(_ context.Context, _ *gomcp.CallToolRequest, input listReadyTasksInput) (*gomcp.CallToolResult, listReadyTasksOutput, error) {
	tasks, err := s.taskMgr.Ready(input.EpicID)
	if err != nil {
		return errorResult(fmt.Sprintf("listing ready tasks: %s", err)), listReadyTasksOutput{}, nil
	}

	out := listReadyTasksOutput{
		Tasks: make([]taskOutput, len(tasks)),
		Count: len(tasks),
	}
	for i, t := range tasks {
		out.Tasks[i] = taskToOutput(t)
	}
	return nil, out, nil
}

func (s *Server) handleNextAction(_ context.Context, _ *gomcp.CallToolRequest, _ nextActionInput) (*gomcp.CallToolResult, nextActionOutput, error) {
	action, err := s.planner.Next()
	if err != nil {
		return errorResult(fmt.Sprintf("computing next action: %s", err)), nextActionOutput{}, nil
	}
	return nil, nextActionOutput{
		Kind:   action.Kind,
		ID:     action.ID,
		Title:  action.Title,
		Detail: action.Detail,
	}, nil
}

func (s *Server) handleUpdateTaskStatus(_ context.Context, _ *gomcp.CallToolRequest, input updateTaskStatusInput) (*gomcp.CallToolResult, updateTaskStatusOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), updateTaskStatusOutput{}, nil
	}

	status := models.Status(input.Status)
	if !status.Valid() {
		return errorResult(fmt.Sprintf("invalid status %q: must be one of pending, in_progress, blocked, done, cancelled", input.Status)), updateTaskStatusOutput{}, nil
	}

	var err error
	switch status {
	case models.StatusInProgress:
		_, err = s.taskMgr.Start(input.TaskID)
	case models.StatusDone:
		_, err = s.taskMgr.Complete(input.TaskID, input.Reason)
	case models.StatusBlocked:
		_, err = s.taskMgr.Block(input.TaskID, input.Reason)
	case models.StatusCancelled:
		_, err = s.taskMgr.Cancel(input.TaskID)
	default:
		_, err = s.taskMgr.SetStatus(input.TaskID, status)
	}
	if err != nil {
		return errorResult(fmt.Sprintf("updating task %s status: %s", input.TaskID, err)), updateTaskStatusOutput{}, nil
	}

	return nil, updateTaskStatusOutput{
		Message: fmt.Sprintf("task %s status updated to %s", input.TaskID, input.Status),
	}, nil
}

func (s *Server) handleLogReview(_ context.Context, _ *gomcp.CallToolRequest, input logReviewInput) (*gomcp.CallToolResult, logReviewOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), logReviewOutput{}, nil
	}
	if input.Verdict == "" {
		return errorResult("verdict is required"), logReviewOutput{}, nil
	}

	outcome, err := s.reviews.Log(input.TaskID, models.Verdict(input.Verdict), input.Reviewer, input.Notes)
	if err != nil {
		return errorResult(fmt.Sprintf("logging review for %s: %s", input.TaskID, err)), logReviewOutput{}, nil
	}

	out := logReviewOutput{
		Iteration:     outcome.Record.Iteration,
		Verdict:       string(outcome.Record.Verdict),
		Escalated:     outcome.Escalated,
		TaskCompleted: outcome.TaskCompleted,
		Message:       fmt.Sprintf("review %d for %s recorded as %s", outcome.Record.Iteration, input.TaskID, outcome.Record.Verdict),
	}
	return nil, out, nil
}

func (s *Server) handleGetStatusSummary(_ context.Context, _ *gomcp.CallToolRequest, _ getStatusSummaryInput) (*gomcp.CallToolResult, *observability.StatusSummary, error) {
	if s.summarizer == nil {
		return errorResult("status summarizer not available"), nil, nil
	}

	summary, err := s.summarizer.Summarize()
	if err != nil {
		return errorResult(fmt.Sprintf("summarizing backlog: %s", err)), nil, nil
	}
	return nil, summary, nil
}

// --- Helpers ---

func epicToOutput(e *models.Epic) epicOutput {
	return epicOutput{
		ID:         e.ID,
		Title:      e.Title,
		Status:     string(e.Status),
		Complexity: e.ComplexityScore,
		TaskCount:  e.TaskCount,
		TasksDone:  e.TasksDone,
		Created:    e.CreatedAt.Format(time.RFC3339),
		Updated:    e.UpdatedAt.Format(time.RFC3339),
	}
}

func taskToOutput(t *models.Task) taskOutput {
	return taskOutput{
		ID:          t.ID,
		EpicID:      t.EpicID,
		Title:       t.Title,
		Status:      string(t.Status),
		DependsOn:   t.DependsOn,
		BlockedBy:   t.BlockedBy,
		DoneSummary: t.DoneSummary,
		Created:     t.CreatedAt.Format(time.RFC3339),
		Updated:     t.UpdatedAt.Format(time.RFC3339),
	}
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}
