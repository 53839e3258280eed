package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/ypsync/internal/core/domain"
	"github.com/custodia-labs/ypsync/internal/core/ports/driven"
)

// Ensure RecordStore implements the interface.
var _ driven.RecordStore = (*RecordStore)(nil)

// RecordStore is an in-memory implementation of driven.RecordStore.
type RecordStore struct {
	mu         sync.RWMutex
	categories map[string]domain.CategoryRecord
	tasks      map[string]domain.TaskRecord
	now        func() time.Time
}

// NewRecordStore creates a new in-memory record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{
		categories: make(map[string]domain.CategoryRecord),
		tasks:      make(map[string]domain.TaskRecord),
		now:        time.Now,
	}
}

// SaveCategory creates or replaces a category, keeping its creation time.
func (s *RecordStore) SaveCategory(_ context.Context, category *domain.CategoryRecord) error {
	if category == nil || category.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := *category
	now := s.now()
	if existing, ok := s.categories[rec.ID]; ok {
		rec.CreatedAt = existing.CreatedAt
	} else {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	s.categories[rec.ID] = rec
	return nil
}

// GetCategory retrieves a category by ID.
func (s *RecordStore) GetCategory(_ context.Context, id string) (*domain.CategoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.categories[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

// UpdateCategory applies a partial update.
func (s *RecordStore) UpdateCategory(_ context.Context, id string, update domain.CategoryUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.categories[id]
	if !ok {
		return domain.ErrNotFound
	}
	if update.Title != nil {
		rec.Title = *update.Title
	}
	if update.RemoteUpdated != nil {
		rec.RemoteUpdated = timePtr(*update.RemoteUpdated)
	}
	if update.Deleted != nil {
		rec.Deleted = *update.Deleted
	}
	rec.UpdatedAt = s.now()
	s.categories[id] = rec
	return nil
}

// ListCategories returns all categories ordered by title.
func (s *RecordStore) ListCategories(_ context.Context) ([]domain.CategoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CategoryRecord, 0, len(s.categories))
	for _, rec := range s.categories {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// SaveTask creates or replaces a task, keeping its creation time.
func (s *RecordStore) SaveTask(_ context.Context, task *domain.TaskRecord) error {
	if task == nil || task.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := *task
	now := s.now()
	if existing, ok := s.tasks[rec.ID]; ok {
		rec.CreatedAt = existing.CreatedAt
	} else {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	s.tasks[rec.ID] = rec
	return nil
}

// GetTask retrieves a task by ID.
func (s *RecordStore) GetTask(_ context.Context, id string) (*domain.TaskRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.tasks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

// UpdateTask applies a partial update.
func (s *RecordStore) UpdateTask(_ context.Context, id string, update domain.TaskUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.tasks[id]
	if !ok {
		return domain.ErrNotFound
	}
	if update.Title != nil {
		rec.Title = *update.Title
	}
	if update.Description != nil {
		rec.Description = *update.Description
	}
	if update.DueDate != nil {
		rec.DueDate = timePtr(*update.DueDate)
	}
	if update.Status != nil {
		rec.Status = *update.Status
	}
	if update.ETA != nil {
		rec.ETA = *update.ETA
	}
	if update.ParentID != nil {
		rec.ParentID = *update.ParentID
	}
	if update.Completed != nil {
		rec.Completed = timePtr(*update.Completed)
	}
	if update.Deleted != nil {
		rec.Deleted = *update.Deleted
	}
	rec.UpdatedAt = s.now()
	s.tasks[id] = rec
	return nil
}

// ListTasks returns tasks of a category, or all tasks, ordered by ID.
func (s *RecordStore) ListTasks(_ context.Context, categoryID string) ([]domain.TaskRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.TaskRecord, 0, len(s.tasks))
	for _, rec := range s.tasks {
		if categoryID != "" && rec.CategoryID != categoryID {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func timePtr(n domain.Nullable[time.Time]) *time.Time {
	if !n.Valid {
		return nil
	}
	t := n.Value
	return &t
}
