package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/custodia-labs/ypsync/internal/core/domain"
	"github.com/custodia-labs/ypsync/internal/core/ports/driven"
)

// recordStore implements driven.RecordStore.
type recordStore struct {
	store *Store
}

var _ driven.RecordStore = (*recordStore)(nil)

var categoryColumns = []string{"id", "title", "remote_updated", "deleted", "created_at", "updated_at"}

var taskColumns = []string{
	"id", "category_id", "title", "description", "category", "due_date", "status", "eta",
	"assigned", "creator", "parent_id", "completed", "deleted", "created_at", "updated_at",
}

// ==================== Categories ====================

// SaveCategory creates or replaces a category, keeping its creation time.
func (s *recordStore) SaveCategory(ctx context.Context, category *domain.CategoryRecord) error {
	if category == nil || category.ID == "" {
		return domain.ErrInvalidInput
	}

	now := formatTime(s.store.now())
	query, args, err := builder.Insert("categories").
		Columns(categoryColumns...).
		Values(category.ID, category.Title, formatTimePtr(category.RemoteUpdated),
			boolToInt(category.Deleted), now, now).
		Suffix(`ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			remote_updated = excluded.remote_updated,
			deleted = excluded.deleted,
			updated_at = excluded.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("building category upsert: %w", err)
	}

	if _, err := s.store.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("saving category %s: %w", category.ID, err)
	}
	return nil
}

// GetCategory retrieves a category by ID.
func (s *recordStore) GetCategory(ctx context.Context, id string) (*domain.CategoryRecord, error) {
	query, args, err := builder.Select(categoryColumns...).
		From("categories").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building category query: %w", err)
	}

	rec, err := scanCategory(s.store.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// UpdateCategory applies a partial update.
func (s *recordStore) UpdateCategory(ctx context.Context, id string, update domain.CategoryUpdate) error {
	set := map[string]any{}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.RemoteUpdated != nil {
		set["remote_updated"] = nullableTime(*update.RemoteUpdated)
	}
	if update.Deleted != nil {
		set["deleted"] = boolToInt(*update.Deleted)
	}
	return s.update(ctx, "categories", id, set)
}

// ListCategories returns all categories ordered by title.
func (s *recordStore) ListCategories(ctx context.Context) ([]domain.CategoryRecord, error) {
	query, args, err := builder.Select(categoryColumns...).
		From("categories").
		OrderBy("title", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building category query: %w", err)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	var out []domain.CategoryRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		rec, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}
	return out, nil
}

// ==================== Tasks ====================

// SaveTask creates or replaces a task, keeping its creation time.
func (s *recordStore) SaveTask(ctx context.Context, task *domain.TaskRecord) error {
	if task == nil || task.ID == "" {
		return domain.ErrInvalidInput
	}

	now := formatTime(s.store.now())
	query, args, err := builder.Insert("tasks").
		Columns(taskColumns...).
		Values(task.ID, task.CategoryID, task.Title, task.Description, task.Category,
			formatTimePtr(task.DueDate), task.Status, task.ETA, task.Assigned, task.Creator,
			task.ParentID, formatTimePtr(task.Completed), boolToInt(task.Deleted), now, now).
		Suffix(`ON CONFLICT(id) DO UPDATE SET
			category_id = excluded.category_id,
			title = excluded.title,
			description = excluded.description,
			category = excluded.category,
			due_date = excluded.due_date,
			status = excluded.status,
			eta = excluded.eta,
			assigned = excluded.assigned,
			creator = excluded.creator,
			parent_id = excluded.parent_id,
			completed = excluded.completed,
			deleted = excluded.deleted,
			updated_at = excluded.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("building task upsert: %w", err)
	}

	if _, err := s.store.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("saving task %s: %w", task.ID, err)
	}
	return nil
}

// GetTask retrieves a task by ID.
func (s *recordStore) GetTask(ctx context.Context, id string) (*domain.TaskRecord, error) {
	query, args, err := builder.Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building task query: %w", err)
	}

	rec, err := scanTask(s.store.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// UpdateTask applies a partial update.
func (s *recordStore) UpdateTask(ctx context.Context, id string, update domain.TaskUpdate) error {
	set := map[string]any{}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.DueDate != nil {
		set["due_date"] = nullableTime(*update.DueDate)
	}
	if update.Status != nil {
		set["status"] = *update.Status
	}
	if update.ETA != nil {
		set["eta"] = *update.ETA
	}
	if update.ParentID != nil {
		set["parent_id"] = *update.ParentID
	}
	if update.Completed != nil {
		set["completed"] = nullableTime(*update.Completed)
	}
	if update.Deleted != nil {
		set["deleted"] = boolToInt(*update.Deleted)
	}
	return s.update(ctx, "tasks", id, set)
}

// ListTasks returns the tasks of a category, or all tasks when categoryID is empty.
func (s *recordStore) ListTasks(ctx context.Context, categoryID string) ([]domain.TaskRecord, error) {
	q := builder.Select(taskColumns...).From("tasks").OrderBy("category_id", "id")
	if categoryID != "" {
		q = q.Where(sq.Eq{"category_id": categoryID})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building task query: %w", err)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	var out []domain.TaskRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		rec, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return out, nil
}

// update writes the given columns of one row and stamps updated_at.
// An empty column set still checks that the row exists.
func (s *recordStore) update(ctx context.Context, table, id string, set map[string]any) error {
	set["updated_at"] = formatTime(s.store.now())

	query, args, err := builder.Update(table).
		SetMap(set).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building %s update: %w", table, err)
	}

	res, err := s.store.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating %s %s: %w", table, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating %s %s: %w", table, id, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ==================== Helper Functions ====================

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (*domain.CategoryRecord, error) {
	var (
		rec                  domain.CategoryRecord
		remoteUpdated        sql.NullString
		deleted              int
		createdAt, updatedAt string
	)
	if err := row.Scan(&rec.ID, &rec.Title, &remoteUpdated, &deleted, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning category: %w", err)
	}
	rec.RemoteUpdated = parseTimePtr(remoteUpdated)
	rec.Deleted = deleted == 1
	rec.CreatedAt = parseTime(createdAt)
	rec.UpdatedAt = parseTime(updatedAt)
	return &rec, nil
}

func scanTask(row rowScanner) (*domain.TaskRecord, error) {
	var (
		rec                  domain.TaskRecord
		dueDate, completed   sql.NullString
		deleted              int
		createdAt, updatedAt string
	)
	if err := row.Scan(&rec.ID, &rec.CategoryID, &rec.Title, &rec.Description, &rec.Category,
		&dueDate, &rec.Status, &rec.ETA, &rec.Assigned, &rec.Creator, &rec.ParentID,
		&completed, &deleted, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}
	rec.DueDate = parseTimePtr(dueDate)
	rec.Completed = parseTimePtr(completed)
	rec.Deleted = deleted == 1
	rec.CreatedAt = parseTime(createdAt)
	rec.UpdatedAt = parseTime(updatedAt)
	return &rec, nil
}

// nullableTime maps a nullable update to a column value.
func nullableTime(n domain.Nullable[time.Time]) any {
	if !n.Valid {
		return nil
	}
	return formatTime(n.Value)
}
