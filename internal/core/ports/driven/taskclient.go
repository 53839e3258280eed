package driven

//go:generate mockgen -source=taskclient.go -destination=../../../mock/taskclient_mock.go -package=mock

import (
	"context"

	"github.com/custodia-labs/ypsync/internal/core/domain"
)

// TaskClient is the remote task service.
// Categories are remote task lists; every record carries the remote id.
type TaskClient interface {
	// ListCategories returns every category visible to the account.
	ListCategories(ctx context.Context) (domain.Collection, error)

	// GetCategory returns one category.
	// Returns domain.ErrNotFound if it does not exist.
	GetCategory(ctx context.Context, categoryID string) (domain.Record, error)

	// CreateCategory creates a category with the given title.
	CreateCategory(ctx context.Context, title string) (domain.Record, error)

	// DeleteCategory removes a category and all of its tasks.
	DeleteCategory(ctx context.Context, categoryID string) error

	// ListTasks returns every task of a category, following pagination.
	ListTasks(ctx context.Context, categoryID string) (domain.Collection, error)

	// GetTask returns one task.
	// Returns domain.ErrNotFound if it does not exist.
	GetTask(ctx context.Context, categoryID, taskID string) (domain.Record, error)

	// CreateTask creates a task in a category.
	// A non-empty parentID nests the task under that parent.
	CreateTask(ctx context.Context, categoryID string, fields domain.Fields, parentID string) (domain.Record, error)

	// UpdateTask changes the given fields of a task and leaves others intact.
	UpdateTask(ctx context.Context, categoryID, taskID string, fields domain.Fields) (domain.Record, error)
}
