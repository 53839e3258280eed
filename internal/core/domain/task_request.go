package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// RequestTypeCreate is the only recognised task request discriminant.
const RequestTypeCreate = "create"

// ActionSpec describes one sub-action to be created as a child task.
type ActionSpec struct {
	// ID is the caller's identifier for the action. It is not sent remotely.
	ID          json.RawMessage `json:"id,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	DueDate     string          `json:"dueDate,omitempty"`

	// EstimatedDuration in minutes. Nil or zero omits the annotation.
	EstimatedDuration *int `json:"estimatedDuration,omitempty"`
}

// CreateTaskRequest is the payload that creates a parent task with children.
type CreateTaskRequest struct {
	Type              string       `json:"type"`
	Title             string       `json:"title"`
	Description       string       `json:"description"`
	Category          string       `json:"category"`
	DueDate           string       `json:"dueDate,omitempty"`
	EstimatedDuration int          `json:"estimatedDuration"`
	Actions           []ActionSpec `json:"actions,omitempty"`
}

// Validate checks the request fields.
func (r CreateTaskRequest) Validate() error {
	if r.Type != "" && r.Type != RequestTypeCreate {
		return fmt.Errorf("%w: unrecognised request type %q", ErrInputContract, r.Type)
	}
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if strings.TrimSpace(r.Category) == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidInput)
	}
	if r.EstimatedDuration < 0 {
		return fmt.Errorf("%w: estimated duration must not be negative", ErrInvalidInput)
	}
	for i, a := range r.Actions {
		if strings.TrimSpace(a.Title) == "" {
			return fmt.Errorf("%w: action %d: title is required", ErrInvalidInput, i)
		}
		if a.EstimatedDuration != nil && *a.EstimatedDuration < 0 {
			return fmt.Errorf("%w: action %d: estimated duration must not be negative", ErrInvalidInput, i)
		}
	}
	return nil
}

// DecodeTaskRequest decodes a raw request payload.
// A payload whose type is not "create" is an input contract violation.
func DecodeTaskRequest(raw []byte) (CreateTaskRequest, error) {
	var req CreateTaskRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return CreateTaskRequest{}, fmt.Errorf("%w: decode request: %v", ErrInputContract, err)
	}
	if req.Type != RequestTypeCreate {
		return CreateTaskRequest{}, fmt.Errorf("%w: unrecognised request type %q", ErrInputContract, req.Type)
	}
	return req, nil
}

// ComposeNotes appends the estimated duration annotation to description.
// A nil minutes value leaves description unchanged.
func ComposeNotes(description string, minutes *int) string {
	if minutes == nil {
		return description
	}
	return description + "\n\nEstimated Duration: " + strconv.Itoa(*minutes) + " minutes"
}

// ParentFields builds the remote fields of the parent task.
// The parent always carries the duration annotation.
func (r CreateTaskRequest) ParentFields() Fields {
	minutes := r.EstimatedDuration
	return taskFields(r.Title, ComposeNotes(r.Description, &minutes), r.DueDate)
}

// Fields builds the remote fields of a child task.
func (a ActionSpec) Fields() Fields {
	minutes := a.EstimatedDuration
	if minutes != nil && *minutes == 0 {
		minutes = nil
	}
	return taskFields(a.Title, ComposeNotes(a.Description, minutes), a.DueDate)
}

func taskFields(title, notes, due string) Fields {
	f := Fields{
		FieldTitle: StringValue(title),
		FieldNotes: StringValue(notes),
	}
	if due != "" {
		f[FieldDue] = StringValue(due)
	}
	return f
}

// CreatedTasks is the result of a task creation.
type CreatedTasks struct {
	CategoryID string   `json:"categoryId"`
	Parent     Record   `json:"parent"`
	Children   []Record `json:"children"`
}

// ActionPatch modifies one child task.
type ActionPatch struct {
	TaskID      string  `json:"taskId"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
}

// TaskUpdateRequest modifies a remote task and optionally its children.
// Nil and empty fields are left unchanged.
type TaskUpdateRequest struct {
	CategoryID  string        `json:"categoryId"`
	TaskID      string        `json:"taskId"`
	Title       *string       `json:"title,omitempty"`
	Description *string       `json:"description,omitempty"`
	DueDate     *string       `json:"dueDate,omitempty"`
	Actions     []ActionPatch `json:"actions,omitempty"`
}

// Validate checks the request identifiers.
func (r TaskUpdateRequest) Validate() error {
	if r.CategoryID == "" || r.TaskID == "" {
		return fmt.Errorf("%w: category id and task id are required", ErrInvalidInput)
	}
	for i, a := range r.Actions {
		if a.TaskID == "" {
			return fmt.Errorf("%w: action %d: task id is required", ErrInvalidInput, i)
		}
	}
	return nil
}

// PatchFields returns the remote fields changed by the patch.
func PatchFields(title, description, due *string) Fields {
	f := Fields{}
	if title != nil && *title != "" {
		f[FieldTitle] = StringValue(*title)
	}
	if description != nil && *description != "" {
		f[FieldNotes] = StringValue(*description)
	}
	if due != nil && *due != "" {
		f[FieldDue] = StringValue(*due)
	}
	return f
}
