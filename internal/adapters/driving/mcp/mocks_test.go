package mcp

import (
	"context"

	"github.com/custodia-labs/ypsync/internal/core/domain"
	"github.com/custodia-labs/ypsync/internal/core/ports/driving"
)

// mockReconciler is a mock implementation of driving.Reconciler.
type mockReconciler struct {
	result     *driving.RunResult
	delta      *domain.Delta
	err        error
	runCalls   int
	dryRunCall int
}

func (m *mockReconciler) Reconcile(
	_ context.Context,
	_ *domain.Snapshot,
) (*domain.Delta, *domain.Snapshot, error) {
	return m.delta, nil, m.err
}

func (m *mockReconciler) Run(_ context.Context) (*driving.RunResult, error) {
	m.runCalls++
	return m.result, m.err
}

func (m *mockReconciler) DryRun(_ context.Context) (*driving.RunResult, error) {
	m.dryRunCall++
	return m.result, m.err
}

func (m *mockReconciler) LastDelta(_ context.Context) (*domain.Delta, error) {
	return m.delta, m.err
}

func (m *mockReconciler) Status() driving.RunStatus {
	return driving.RunStatus{}
}

// mockTaskService is a mock implementation of driving.TaskService.
type mockTaskService struct {
	created    *domain.CreatedTasks
	task       domain.Record
	categories domain.Collection
	deleted    []string
	err        error

	lastCreate   domain.CreateTaskRequest
	lastComplete [2]string
	reopened     bool
}

func (m *mockTaskService) CreateTask(_ context.Context, req domain.CreateTaskRequest) (*domain.CreatedTasks, error) {
	m.lastCreate = req
	return m.created, m.err
}

func (m *mockTaskService) HandleRequest(_ context.Context, _ []byte) (*domain.CreatedTasks, error) {
	return m.created, m.err
}

func (m *mockTaskService) UpdateTask(_ context.Context, _ domain.TaskUpdateRequest) error {
	return m.err
}

func (m *mockTaskService) CompleteTask(_ context.Context, categoryID, taskID string) (domain.Record, error) {
	m.lastComplete = [2]string{categoryID, taskID}
	return m.task, m.err
}

func (m *mockTaskService) UncompleteTask(_ context.Context, categoryID, taskID string) (domain.Record, error) {
	m.lastComplete = [2]string{categoryID, taskID}
	m.reopened = true
	return m.task, m.err
}

func (m *mockTaskService) ListCategories(_ context.Context) (domain.Collection, error) {
	return m.categories, m.err
}

func (m *mockTaskService) PurgeCategories(_ context.Context, _ []string) ([]string, error) {
	return m.deleted, m.err
}

// mockRecordQuery is a mock implementation of driving.RecordQuery.
type mockRecordQuery struct {
	categories   []domain.CategoryRecord
	tasks        []domain.TaskRecord
	err          error
	lastCategory string
}

func (m *mockRecordQuery) ListCategories(_ context.Context) ([]domain.CategoryRecord, error) {
	return m.categories, m.err
}

func (m *mockRecordQuery) ListTasks(_ context.Context, categoryID string) ([]domain.TaskRecord, error) {
	m.lastCategory = categoryID
	return m.tasks, m.err
}

// mockScheduler is a mock implementation of driving.Scheduler.
type mockScheduler struct {
	jobs      []domain.Job
	runs      []domain.JobRun
	err       error
	lastJobID string
	lastLimit int
}

func (m *mockScheduler) Start(_ context.Context) error { return nil }

func (m *mockScheduler) Stop() error { return nil }

func (m *mockScheduler) UpdateConfig(_ context.Context, _ domain.SchedulerConfig) error {
	return nil
}

func (m *mockScheduler) Jobs(_ context.Context) ([]domain.Job, error) {
	return m.jobs, m.err
}

func (m *mockScheduler) History(_ context.Context, jobID string, limit int) ([]domain.JobRun, error) {
	m.lastJobID, m.lastLimit = jobID, limit
	return m.runs, m.err
}
