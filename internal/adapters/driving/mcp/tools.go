package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/ypsync/internal/core/domain"
	"github.com/custodia-labs/ypsync/internal/core/ports/driving"
)

// CreateTaskInput is the input schema for the create_task tool.
type CreateTaskInput struct {
	Title             string        `json:"title" jsonschema:"title of the parent task"`
	Description       string        `json:"description,omitempty" jsonschema:"notes of the parent task"`
	Category          string        `json:"category" jsonschema:"title of the category; created when missing"`
	DueDate           string        `json:"dueDate,omitempty" jsonschema:"RFC 3339 due date"`
	EstimatedDuration int           `json:"estimatedDuration,omitempty" jsonschema:"estimated duration in minutes"`
	Actions           []ActionInput `json:"actions,omitempty" jsonschema:"sub-actions created as child tasks in order"`
}

// ActionInput is one sub-action of a create_task call.
type ActionInput struct {
	ID                any    `json:"id,omitempty" jsonschema:"caller identifier of the action; not stored remotely"`
	Title             string `json:"title" jsonschema:"title of the child task"`
	Description       string `json:"description,omitempty" jsonschema:"notes of the child task"`
	DueDate           string `json:"dueDate,omitempty" jsonschema:"RFC 3339 due date"`
	EstimatedDuration *int   `json:"estimatedDuration,omitempty" jsonschema:"estimated duration in minutes; 0 omits the annotation"`
}

// CreateTaskOutput is the output schema for the create_task tool.
type CreateTaskOutput struct {
	CategoryID string   `json:"category_id"`
	ParentID   string   `json:"parent_id"`
	ChildIDs   []string `json:"child_ids"`
}

// ReconcileInput is the input schema for the reconcile tool.
type ReconcileInput struct {
	DryRun bool `json:"dry_run,omitempty" jsonschema:"compute the delta without applying or committing it"`
}

// ReconcileOutput is the output schema for the reconcile tool.
type ReconcileOutput struct {
	RunID      string              `json:"run_id"`
	DryRun     bool                `json:"dry_run"`
	Summary    domain.DeltaSummary `json:"summary"`
	Applied    driving.ApplyResult `json:"applied"`
	DurationMS int64               `json:"duration_ms"`
}

// CompleteTaskInput is the input schema for the complete_task tool.
type CompleteTaskInput struct {
	CategoryID string `json:"category_id" jsonschema:"remote id of the category holding the task"`
	TaskID     string `json:"task_id" jsonschema:"remote id of the task"`
	Reopen     bool   `json:"reopen,omitempty" jsonschema:"mark the task as needing action instead of completed"`
}

// TaskOutput describes a remote task after modification.
type TaskOutput struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_task",
		Description: "Create a task with one sub-task per action in the named category",
	}, s.handleCreateTask)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "reconcile",
		Description: "Diff the remote tasks against the last snapshot and mirror the changes locally",
	}, s.handleReconcile)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "complete_task",
		Description: "Mark a remote task as completed, or reopen it",
	}, s.handleCompleteTask)
}

// handleCreateTask handles the create_task tool invocation.
func (s *Server) handleCreateTask(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CreateTaskInput,
) (*mcp.CallToolResult, CreateTaskOutput, error) {
	if s.ports.Tasks == nil {
		return nil, CreateTaskOutput{}, ErrMissingTaskService
	}

	req, err := input.toRequest()
	if err != nil {
		return nil, CreateTaskOutput{}, err
	}

	created, err := s.ports.Tasks.CreateTask(ctx, req)
	if err != nil {
		return nil, CreateTaskOutput{}, err
	}

	output := CreateTaskOutput{
		CategoryID: created.CategoryID,
		ParentID:   created.Parent.ID,
		ChildIDs:   make([]string, len(created.Children)),
	}
	for i, child := range created.Children {
		output.ChildIDs[i] = child.ID
	}

	return nil, output, nil
}

func (in CreateTaskInput) toRequest() (domain.CreateTaskRequest, error) {
	req := domain.CreateTaskRequest{
		Type:              domain.RequestTypeCreate,
		Title:             in.Title,
		Description:       in.Description,
		Category:          in.Category,
		DueDate:           in.DueDate,
		EstimatedDuration: in.EstimatedDuration,
		Actions:           make([]domain.ActionSpec, len(in.Actions)),
	}
	for i, a := range in.Actions {
		spec := domain.ActionSpec{
			Title:             a.Title,
			Description:       a.Description,
			DueDate:           a.DueDate,
			EstimatedDuration: a.EstimatedDuration,
		}
		if a.ID != nil {
			raw, err := json.Marshal(a.ID)
			if err != nil {
				return domain.CreateTaskRequest{}, fmt.Errorf("%w: action %d: id: %v", domain.ErrInvalidInput, i, err)
			}
			spec.ID = raw
		}
		req.Actions[i] = spec
	}
	return req, nil
}

// handleReconcile handles the reconcile tool invocation.
func (s *Server) handleReconcile(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReconcileInput,
) (*mcp.CallToolResult, ReconcileOutput, error) {
	var (
		result *driving.RunResult
		err    error
	)
	if input.DryRun {
		result, err = s.ports.Reconciler.DryRun(ctx)
	} else {
		result, err = s.ports.Reconciler.Run(ctx)
	}
	if err != nil {
		return nil, ReconcileOutput{}, err
	}

	return nil, ReconcileOutput{
		RunID:      result.RunID,
		DryRun:     result.DryRun,
		Summary:    result.Summary,
		Applied:    result.Applied,
		DurationMS: result.Duration.Milliseconds(),
	}, nil
}

// handleCompleteTask handles the complete_task tool invocation.
func (s *Server) handleCompleteTask(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CompleteTaskInput,
) (*mcp.CallToolResult, TaskOutput, error) {
	if s.ports.Tasks == nil {
		return nil, TaskOutput{}, ErrMissingTaskService
	}

	var (
		task domain.Record
		err  error
	)
	if input.Reopen {
		task, err = s.ports.Tasks.UncompleteTask(ctx, input.CategoryID, input.TaskID)
	} else {
		task, err = s.ports.Tasks.CompleteTask(ctx, input.CategoryID, input.TaskID)
	}
	if err != nil {
		return nil, TaskOutput{}, err
	}

	return nil, TaskOutput{
		ID:     task.ID,
		Title:  task.Title(),
		Status: task.Fields.String(domain.FieldStatus),
	}, nil
}
