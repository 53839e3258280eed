package driven

//go:generate mockgen -source=recordstore.go -destination=../../../mock/recordstore_mock.go -package=mock

import (
	"context"

	"github.com/custodia-labs/ypsync/internal/core/domain"
)

// RecordStore persists the local mirror of remote categories and tasks.
type RecordStore interface {
	// SaveCategory creates or replaces a category by ID.
	SaveCategory(ctx context.Context, category *domain.CategoryRecord) error

	// GetCategory retrieves a category by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetCategory(ctx context.Context, id string) (*domain.CategoryRecord, error)

	// UpdateCategory applies a partial update.
	// Returns domain.ErrNotFound if the category does not exist.
	UpdateCategory(ctx context.Context, id string, update domain.CategoryUpdate) error

	// ListCategories returns all categories ordered by title.
	ListCategories(ctx context.Context) ([]domain.CategoryRecord, error)

	// SaveTask creates or replaces a task by ID.
	SaveTask(ctx context.Context, task *domain.TaskRecord) error

	// GetTask retrieves a task by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetTask(ctx context.Context, id string) (*domain.TaskRecord, error)

	// UpdateTask applies a partial update.
	// Returns domain.ErrNotFound if the task does not exist.
	UpdateTask(ctx context.Context, id string, update domain.TaskUpdate) error

	// ListTasks returns the tasks of a category, or all tasks when
	// categoryID is empty.
	ListTasks(ctx context.Context, categoryID string) ([]domain.TaskRecord, error)
}
