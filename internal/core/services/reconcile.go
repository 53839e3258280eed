package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/ypsync/internal/core/domain"
	"github.com/custodia-labs/ypsync/internal/core/ports/driven"
	"github.com/custodia-labs/ypsync/internal/core/ports/driving"
	"github.com/custodia-labs/ypsync/internal/logger"
)

// Ensure Reconciler implements the interface.
var _ driving.Reconciler = (*Reconciler)(nil)

// Reconciler runs fetch, diff, apply and commit against the remote service.
type Reconciler struct {
	client    driven.TaskClient
	snapshots driven.SnapshotStore
	applier   driving.DeltaApplier
	cache     *CategoryCache

	now   func() time.Time
	newID func() string

	mu     sync.Mutex
	status driving.RunStatus
}

// NewReconciler creates a reconciler.
// The applier and cache are optional: without an applier runs only commit,
// without a cache titles are not refreshed for the task service.
func NewReconciler(
	client driven.TaskClient,
	snapshots driven.SnapshotStore,
	applier driving.DeltaApplier,
	cache *CategoryCache,
) *Reconciler {
	return &Reconciler{
		client:    client,
		snapshots: snapshots,
		applier:   applier,
		cache:     cache,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Reconcile fetches the current remote state and diffs it against former.
func (r *Reconciler) Reconcile(ctx context.Context, former *domain.Snapshot) (*domain.Delta, *domain.Snapshot, error) {
	if former != nil {
		if err := former.Validate(); err != nil {
			return nil, nil, domain.NewRunError(domain.StageLoad, domain.ErrInputContract, err)
		}
	}

	logger.Section("Fetch")
	categories, err := r.client.ListCategories(ctx)
	if err != nil {
		return nil, nil, domain.NewRunError(domain.StageFetch, domain.ErrRemoteFetch, fmt.Errorf("list categories: %w", err))
	}
	if r.cache != nil {
		r.cache.Replace(categories)
	}

	current := domain.NewSnapshot()
	current.Categories = categories
	current.TakenAt = r.now().UTC()

	delta := domain.NewDelta()
	delta.ComputedAt = current.TakenAt
	delta.Bootstrap = former == nil

	if former == nil {
		logger.Info("No former snapshot, treating %d categories as new", len(categories))
		catDiff, err := allNew("categories", categories)
		if err != nil {
			return nil, nil, domain.NewRunError(domain.StageDiff, domain.ErrInputContract, err)
		}
		delta.SetCategories(catDiff)
	} else {
		logger.Section("Diff categories")
		catDiff, err := diffCollections("categories", former.Categories, categories)
		if err != nil {
			return nil, nil, domain.NewRunError(domain.StageDiff, domain.ErrInputContract, err)
		}
		delta.SetCategories(catDiff)
		logger.Info("Categories: %d new, %d changed, %d deleted",
			len(catDiff.New), len(catDiff.Changed), len(catDiff.Deleted))
	}

	logger.Section("Diff tasks")
	for _, cat := range categories {
		if _, dup := current.Tasks[cat.ID]; dup {
			continue
		}

		tasks, err := r.client.ListTasks(ctx, cat.ID)
		if err != nil {
			return nil, nil, domain.NewRunError(domain.StageFetch, domain.ErrRemoteFetch,
				fmt.Errorf("list tasks of %s: %w", cat.ID, err))
		}
		current.Tasks[cat.ID] = tasks

		var formerTasks domain.Collection
		known := false
		if former != nil {
			formerTasks, known = former.Tasks[cat.ID]
		}

		if !known {
			// Wholly new category: its tasks are new without diffing, and it
			// gets an entry even when it has none.
			diff, err := allNew(cat.ID, tasks)
			if err != nil {
				return nil, nil, domain.NewRunError(domain.StageDiff, domain.ErrInputContract, err)
			}
			delta.NewTasks[cat.ID] = diff.New
			delta.Anomalies = append(delta.Anomalies, diff.Anomalies...)
			logger.Debug("Category %s is new: %d tasks", cat.ID, len(tasks))
			continue
		}

		taskDiff, err := diffCollections(cat.ID, formerTasks, tasks)
		if err != nil {
			return nil, nil, domain.NewRunError(domain.StageDiff, domain.ErrInputContract, err)
		}
		delta.MergeTasks(cat.ID, taskDiff)
		logger.Debug("Category %s: %d new, %d changed, %d deleted tasks",
			cat.ID, len(taskDiff.New), len(taskDiff.Changed), len(taskDiff.Deleted))
	}

	return delta, current, nil
}

// Run performs one full reconciliation run.
// The new snapshot is committed only after the delta was applied; on any
// failure the former snapshot is left untouched.
func (r *Reconciler) Run(ctx context.Context) (*driving.RunResult, error) {
	return r.run(ctx, false)
}

// DryRun computes the delta against the stored snapshot without side effects.
func (r *Reconciler) DryRun(ctx context.Context) (*driving.RunResult, error) {
	return r.run(ctx, true)
}

func (r *Reconciler) run(ctx context.Context, dryRun bool) (*driving.RunResult, error) {
	runID, err := r.begin()
	if err != nil {
		return nil, err
	}

	result, err := r.execute(ctx, runID, dryRun)
	r.finish(err)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return result, nil
}

func (r *Reconciler) execute(ctx context.Context, runID string, dryRun bool) (*driving.RunResult, error) {
	started := r.now()
	logger.Info("Starting reconciliation run %s", runID)

	former, err := r.snapshots.LoadSnapshot(ctx)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		former = nil
	case err != nil:
		return nil, domain.NewRunError(domain.StageLoad, domain.ErrLocalStore, err)
	}

	delta, current, err := r.Reconcile(ctx, former)
	if err != nil {
		return nil, err
	}
	delta.RunID = runID

	result := &driving.RunResult{
		RunID:   runID,
		DryRun:  dryRun,
		Delta:   delta,
		Summary: delta.Summary(),
	}

	if dryRun {
		result.Duration = r.now().Sub(started)
		return result, nil
	}

	if r.applier != nil {
		logger.Section("Apply")
		applied, err := r.applier.Apply(ctx, delta, current)
		result.Applied = applied
		if err != nil {
			return result, domain.NewRunError(domain.StageApply, domain.ErrLocalStore, err)
		}
	}

	logger.Section("Commit")
	if err := r.snapshots.Commit(ctx, current, delta); err != nil {
		return result, domain.NewRunError(domain.StageCommit, domain.ErrLocalStore, err)
	}

	result.Duration = r.now().Sub(started)
	logger.Info("Run %s complete: %d changes, %d anomalies",
		runID, result.Summary.Total(), result.Summary.Anomalies)
	return result, nil
}

// LastDelta returns the delta of the last committed run.
func (r *Reconciler) LastDelta(ctx context.Context) (*domain.Delta, error) {
	delta, err := r.snapshots.LoadDelta(ctx)
	if err != nil {
		return nil, fmt.Errorf("load delta: %w", err)
	}
	return delta, nil
}

// Status returns the state of the current or last run.
func (r *Reconciler) Status() driving.RunStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

func (r *Reconciler) begin() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status.Running {
		return "", fmt.Errorf("run %s: %w", r.status.RunID, domain.ErrSyncInProgress)
	}
	r.status = driving.RunStatus{
		Running:      true,
		RunID:        r.newID(),
		LastFinished: r.status.LastFinished,
	}
	return r.status.RunID, nil
}

func (r *Reconciler) finish(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status.Running = false
	r.status.LastFinished = r.now()
	r.status.LastError = ""
	if err != nil {
		r.status.LastError = err.Error()
	}
}
