package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/ypsync/internal/core/domain"
	"github.com/custodia-labs/ypsync/internal/core/ports/driven"
	"github.com/custodia-labs/ypsync/internal/core/ports/driving"
)

// Ensure RecordService implements the interface.
var _ driving.RecordQuery = (*RecordService)(nil)

// RecordService exposes the local mirror read-only.
type RecordService struct {
	store driven.RecordStore
}

// NewRecordService creates a record service.
func NewRecordService(store driven.RecordStore) *RecordService {
	return &RecordService{store: store}
}

// ListCategories returns all local categories.
func (s *RecordService) ListCategories(ctx context.Context) ([]domain.CategoryRecord, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// ListTasks returns local tasks of a category, or all tasks.
func (s *RecordService) ListTasks(ctx context.Context, categoryID string) ([]domain.TaskRecord, error) {
	tasks, err := s.store.ListTasks(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}
