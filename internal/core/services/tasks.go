package services

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/custodia-labs/ypsync/internal/core/domain"
	"github.com/custodia-labs/ypsync/internal/core/ports/driven"
	"github.com/custodia-labs/ypsync/internal/core/ports/driving"
	"github.com/custodia-labs/ypsync/internal/logger"
)

// Ensure TaskService implements the interface.
var _ driving.TaskService = (*TaskService)(nil)

// TaskService creates and modifies tasks on the remote service.
type TaskService struct {
	client driven.TaskClient
	cache  *CategoryCache
}

// NewTaskService creates a task service.
// A nil cache gets a private cache without expiry.
func NewTaskService(client driven.TaskClient, cache *CategoryCache) *TaskService {
	if cache == nil {
		cache = NewCategoryCache(0)
	}
	return &TaskService{client: client, cache: cache}
}

// CreateTask resolves the category, creates the parent and then one child
// per action in input order.
func (s *TaskService) CreateTask(ctx context.Context, req domain.CreateTaskRequest) (*domain.CreatedTasks, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	categoryID, err := s.resolveCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}

	parent, err := s.client.CreateTask(ctx, categoryID, req.ParentFields(), "")
	if errors.Is(err, domain.ErrNotFound) {
		// The cached category is gone remotely.
		s.cache.Invalidate()
		if categoryID, err = s.resolveCategory(ctx, req.Category); err != nil {
			return nil, err
		}
		parent, err = s.client.CreateTask(ctx, categoryID, req.ParentFields(), "")
	}
	if err != nil {
		return nil, fmt.Errorf("create parent task: %w", err)
	}
	logger.Info("Created task %s in category %s", parent.ID, categoryID)

	created := &domain.CreatedTasks{
		CategoryID: categoryID,
		Parent:     parent,
		Children:   make([]domain.Record, 0, len(req.Actions)),
	}
	for i, action := range req.Actions {
		child, err := s.client.CreateTask(ctx, categoryID, action.Fields(), parent.ID)
		if err != nil {
			return created, fmt.Errorf("create action %d of %s: %w", i, parent.ID, err)
		}
		created.Children = append(created.Children, child)
	}
	logger.Debug("Created %d actions under %s", len(created.Children), parent.ID)

	return created, nil
}

// HandleRequest decodes a raw payload and creates the described task.
func (s *TaskService) HandleRequest(ctx context.Context, raw []byte) (*domain.CreatedTasks, error) {
	req, err := domain.DecodeTaskRequest(raw)
	if err != nil {
		return nil, err
	}
	return s.CreateTask(ctx, req)
}

// resolveCategory returns the id of the category with the exact title,
// creating it when none exists.
func (s *TaskService) resolveCategory(ctx context.Context, title string) (string, error) {
	if id, ok := s.cache.Lookup(title); ok {
		return id, nil
	}

	categories, err := s.client.ListCategories(ctx)
	if err != nil {
		return "", fmt.Errorf("list categories: %w", err)
	}
	s.cache.Replace(categories)

	if rec, ok := categories.FindByTitle(title); ok {
		return rec.ID, nil
	}

	category, err := s.client.CreateCategory(ctx, title)
	if err != nil {
		return "", fmt.Errorf("create category %q: %w", title, err)
	}
	s.cache.Put(title, category.ID)
	logger.Info("Created category %q (%s)", title, category.ID)

	return category.ID, nil
}

// UpdateTask changes the task and then each listed action.
// Every patch is attempted; failures are joined.
func (s *TaskService) UpdateTask(ctx context.Context, req domain.TaskUpdateRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	var errs []error
	if fields := domain.PatchFields(req.Title, req.Description, req.DueDate); len(fields) > 0 {
		if _, err := s.client.UpdateTask(ctx, req.CategoryID, req.TaskID, fields); err != nil {
			errs = append(errs, fmt.Errorf("update task %s: %w", req.TaskID, err))
		}
	}

	for _, action := range req.Actions {
		fields := domain.PatchFields(action.Title, action.Description, action.DueDate)
		if len(fields) == 0 {
			continue
		}
		if _, err := s.client.UpdateTask(ctx, req.CategoryID, action.TaskID, fields); err != nil {
			errs = append(errs, fmt.Errorf("update action %s: %w", action.TaskID, err))
		}
	}

	return errors.Join(errs...)
}

// CompleteTask marks a task as completed.
func (s *TaskService) CompleteTask(ctx context.Context, categoryID, taskID string) (domain.Record, error) {
	return s.setStatus(ctx, categoryID, taskID, domain.StatusCompleted)
}

// UncompleteTask marks a task as needing action.
func (s *TaskService) UncompleteTask(ctx context.Context, categoryID, taskID string) (domain.Record, error) {
	return s.setStatus(ctx, categoryID, taskID, domain.StatusNeedsAction)
}

func (s *TaskService) setStatus(ctx context.Context, categoryID, taskID, status string) (domain.Record, error) {
	if categoryID == "" || taskID == "" {
		return domain.Record{}, fmt.Errorf("%w: category id and task id are required", domain.ErrInvalidInput)
	}

	fields := domain.Fields{domain.FieldStatus: domain.StringValue(status)}
	if status == domain.StatusNeedsAction {
		fields[domain.FieldCompleted] = domain.NullValue()
	}

	rec, err := s.client.UpdateTask(ctx, categoryID, taskID, fields)
	if err != nil {
		return domain.Record{}, fmt.Errorf("set status %s on %s: %w", status, taskID, err)
	}
	return rec, nil
}

// ListCategories returns every remote category and refreshes the cache.
func (s *TaskService) ListCategories(ctx context.Context) (domain.Collection, error) {
	categories, err := s.client.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	s.cache.Replace(categories)
	return categories, nil
}

// PurgeCategories deletes every remote category whose id is not in keep.
func (s *TaskService) PurgeCategories(ctx context.Context, keep []string) ([]string, error) {
	categories, err := s.client.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	var (
		deleted []string
		errs    []error
	)
	for _, cat := range categories {
		if slices.Contains(keep, cat.ID) {
			continue
		}
		if err := s.client.DeleteCategory(ctx, cat.ID); err != nil {
			errs = append(errs, fmt.Errorf("delete category %s: %w", cat.ID, err))
			continue
		}
		s.cache.Remove(cat.ID)
		deleted = append(deleted, cat.ID)
		logger.Info("Deleted category %s (%s)", cat.ID, cat.Title())
	}

	return deleted, errors.Join(errs...)
}
