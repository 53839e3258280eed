package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/ypsync/internal/core/domain"
	"github.com/custodia-labs/ypsync/internal/core/ports/driven"
	"github.com/custodia-labs/ypsync/internal/core/ports/driving"
	"github.com/custodia-labs/ypsync/internal/logger"
)

// Ensure DeltaApplier implements the interface.
var _ driving.DeltaApplier = (*DeltaApplier)(nil)

// Apply operations used in ApplyError.
const (
	opCreate  = "create"
	opUpdate  = "update"
	opArchive = "archive"
)

// DeltaApplier mirrors deltas into the local record store.
// Applying the same delta twice leaves the store in the same state.
type DeltaApplier struct {
	store  driven.RecordStore
	policy domain.DeletionPolicy
	owner  string
}

// NewDeltaApplier creates an applier.
// An invalid policy falls back to domain.DeletionPolicyReport.
func NewDeltaApplier(store driven.RecordStore, policy domain.DeletionPolicy, owner string) *DeltaApplier {
	if !policy.IsValid() {
		policy = domain.DeletionPolicyReport
	}
	return &DeltaApplier{store: store, policy: policy, owner: owner}
}

// Apply applies categories first, then tasks per category, in id order.
func (a *DeltaApplier) Apply(ctx context.Context, delta *domain.Delta, current *domain.Snapshot) (driving.ApplyResult, error) {
	var (
		res  driving.ApplyResult
		errs []error
	)

	fail := func(err *domain.ApplyError) {
		res.Failed++
		errs = append(errs, err)
		logger.Warn("%v", err)
	}

	for _, id := range domain.SortedKeys(delta.NewCategories) {
		rec := domain.CategoryRecordFromRemote(delta.NewCategories[id])
		if err := a.store.SaveCategory(ctx, &rec); err != nil {
			fail(&domain.ApplyError{Entity: domain.EntityCategory, ID: id, Op: opCreate, Err: err})
			continue
		}
		res.Created++
	}

	for _, id := range domain.SortedKeys(delta.ChangedCategories) {
		diff := delta.ChangedCategories[id]
		created, err := a.updateCategory(ctx, id, diff, current)
		if err != nil {
			fail(&domain.ApplyError{Entity: domain.EntityCategory, ID: id, Op: opUpdate, Err: err})
			continue
		}
		if created {
			res.Created++
		} else {
			res.Updated++
		}
	}

	for _, id := range domain.SortedKeys(delta.DeletedCategories) {
		if a.policy != domain.DeletionPolicyArchive {
			logger.Info("Category %s was deleted remotely", id)
			res.Reported++
			continue
		}
		deleted := true
		err := a.store.UpdateCategory(ctx, id, domain.CategoryUpdate{Deleted: &deleted})
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			fail(&domain.ApplyError{Entity: domain.EntityCategory, ID: id, Op: opArchive, Err: err})
			continue
		}
		res.Archived++
	}

	for _, catID := range domain.SortedKeys(delta.NewTasks) {
		tasks := delta.NewTasks[catID]
		for _, id := range domain.SortedKeys(tasks) {
			rec := domain.TaskRecordFromRemote(catID, tasks[id], a.owner)
			if err := a.store.SaveTask(ctx, &rec); err != nil {
				fail(&domain.ApplyError{Entity: domain.EntityTask, ID: id, CategoryID: catID, Op: opCreate, Err: err})
				continue
			}
			res.Created++
		}
	}

	for _, catID := range domain.SortedKeys(delta.ChangedTasks) {
		diffs := delta.ChangedTasks[catID]
		for _, id := range domain.SortedKeys(diffs) {
			created, err := a.updateTask(ctx, catID, id, diffs[id], current)
			if err != nil {
				fail(&domain.ApplyError{Entity: domain.EntityTask, ID: id, CategoryID: catID, Op: opUpdate, Err: err})
				continue
			}
			if created {
				res.Created++
			} else {
				res.Updated++
			}
		}
	}

	for _, catID := range domain.SortedKeys(delta.DeletedTasks) {
		for _, id := range domain.SortedKeys(delta.DeletedTasks[catID]) {
			if a.policy != domain.DeletionPolicyArchive {
				logger.Info("Task %s/%s was deleted remotely", catID, id)
				res.Reported++
				continue
			}
			deleted := true
			err := a.store.UpdateTask(ctx, id, domain.TaskUpdate{Deleted: &deleted})
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				fail(&domain.ApplyError{Entity: domain.EntityTask, ID: id, CategoryID: catID, Op: opArchive, Err: err})
				continue
			}
			res.Archived++
		}
	}

	logger.Info("Applied: %d created, %d updated, %d archived, %d reported, %d failed",
		res.Created, res.Updated, res.Archived, res.Reported, res.Failed)

	if len(errs) > 0 {
		return res, errors.Join(errs...)
	}
	return res, nil
}

// updateCategory applies a field diff, creating the record when missing.
func (a *DeltaApplier) updateCategory(ctx context.Context, id string, diff domain.FieldDiff, current *domain.Snapshot) (bool, error) {
	_, err := a.store.GetCategory(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		var remote domain.Collection
		if current != nil {
			remote = current.Categories
		}
		rec := domain.CategoryRecordFromRemote(fullRecord(remote, id, diff))
		if err := a.store.SaveCategory(ctx, &rec); err != nil {
			return false, err
		}
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("get category: %w", err)
	}

	update := domain.CategoryUpdateFromDiff(diff)
	if update.IsEmpty() {
		return false, nil
	}
	return false, a.store.UpdateCategory(ctx, id, update)
}

// updateTask applies a field diff, creating the record when missing.
func (a *DeltaApplier) updateTask(ctx context.Context, categoryID, id string, diff domain.FieldDiff, current *domain.Snapshot) (bool, error) {
	_, err := a.store.GetTask(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		var remote domain.Collection
		if current != nil {
			remote = current.Tasks[categoryID]
		}
		rec := domain.TaskRecordFromRemote(categoryID, fullRecord(remote, id, diff), a.owner)
		if err := a.store.SaveTask(ctx, &rec); err != nil {
			return false, err
		}
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("get task: %w", err)
	}

	update := domain.TaskUpdateFromDiff(diff)
	if update.IsEmpty() {
		return false, nil
	}
	return false, a.store.UpdateTask(ctx, id, update)
}

// fullRecord returns the remote record id from current with diff laid over
// it, or a record of the diff alone when current does not hold it.
func fullRecord(current domain.Collection, id string, diff domain.FieldDiff) domain.Record {
	rec, ok := current.ByID()[id]
	if !ok {
		return domain.NewRecord(id, diff)
	}
	rec = rec.Clone()
	if rec.Fields == nil {
		rec.Fields = domain.Fields{}
	}
	for name, value := range diff {
		rec.Fields[name] = value
	}
	return rec
}
