package driving

import (
	"context"

	"github.com/custodia-labs/ypsync/internal/core/domain"
)

// TaskService creates and modifies remote tasks.
type TaskService interface {
	// CreateTask creates a parent task and one child per action.
	// The category is resolved by exact title and created when missing.
	CreateTask(ctx context.Context, req domain.CreateTaskRequest) (*domain.CreatedTasks, error)

	// HandleRequest decodes a raw request payload and dispatches it.
	// Unrecognised request types fail with domain.ErrInputContract.
	HandleRequest(ctx context.Context, raw []byte) (*domain.CreatedTasks, error)

	// UpdateTask changes title, notes or due date of a task and its actions.
	UpdateTask(ctx context.Context, req domain.TaskUpdateRequest) error

	// CompleteTask marks a task as completed.
	CompleteTask(ctx context.Context, categoryID, taskID string) (domain.Record, error)

	// UncompleteTask marks a task as needing action.
	UncompleteTask(ctx context.Context, categoryID, taskID string) (domain.Record, error)

	// ListCategories returns every remote category.
	ListCategories(ctx context.Context) (domain.Collection, error)

	// PurgeCategories deletes every remote category except those in keep.
	// Returns the ids of deleted categories.
	PurgeCategories(ctx context.Context, keep []string) ([]string, error)
}

// RecordQuery reads the local mirror.
type RecordQuery interface {
	// ListCategories returns all local categories.
	ListCategories(ctx context.Context) ([]domain.CategoryRecord, error)

	// ListTasks returns local tasks of a category, or all when categoryID is empty.
	ListTasks(ctx context.Context, categoryID string) ([]domain.TaskRecord, error)
}
