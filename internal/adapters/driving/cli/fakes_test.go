package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/ypsync/internal/core/domain"
	"github.com/custodia-labs/ypsync/internal/core/ports/driving"
)

// executeCommand runs the root command with args and returns everything
// written to stdout and stderr. Flags are reset afterwards.
func executeCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		resetFlags(rootCmd)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// withServices swaps the package service variables for the test.
func withServices(t *testing.T, svc Services) {
	t.Helper()

	old := Services{
		Reconciler:  reconciler,
		Tasks:       taskService,
		Records:     recordQuery,
		Settings:    settingsService,
		Scheduler:   scheduler,
		WatchConfig: watchConfig,
	}
	reconciler = svc.Reconciler
	taskService = svc.Tasks
	recordQuery = svc.Records
	settingsService = svc.Settings
	scheduler = svc.Scheduler
	watchConfig = svc.WatchConfig

	t.Cleanup(func() {
		reconciler = old.Reconciler
		taskService = old.Tasks
		recordQuery = old.Records
		settingsService = old.Settings
		scheduler = old.Scheduler
		watchConfig = old.WatchConfig
	})
}

// fakeReconciler implements driving.Reconciler for testing.
type fakeReconciler struct {
	result      *driving.RunResult
	delta       *domain.Delta
	err         error
	runCalls    int
	dryRunCalls int
}

func (f *fakeReconciler) Reconcile(_ context.Context, _ *domain.Snapshot) (*domain.Delta, *domain.Snapshot, error) {
	return f.delta, nil, f.err
}

func (f *fakeReconciler) Run(_ context.Context) (*driving.RunResult, error) {
	f.runCalls++
	return f.result, f.err
}

func (f *fakeReconciler) DryRun(_ context.Context) (*driving.RunResult, error) {
	f.dryRunCalls++
	return f.result, f.err
}

func (f *fakeReconciler) LastDelta(_ context.Context) (*domain.Delta, error) {
	return f.delta, f.err
}

func (f *fakeReconciler) Status() driving.RunStatus {
	return driving.RunStatus{}
}

// fakeTaskService implements driving.TaskService for testing.
type fakeTaskService struct {
	created    *domain.CreatedTasks
	task       domain.Record
	categories domain.Collection
	purged     []string
	err        error

	createReq  domain.CreateTaskRequest
	rawRequest []byte
	updateReq  domain.TaskUpdateRequest
	completed  []string
	reopened   []string
	keep       []string
	purgeCalls int
}

func (f *fakeTaskService) CreateTask(_ context.Context, req domain.CreateTaskRequest) (*domain.CreatedTasks, error) {
	f.createReq = req
	return f.created, f.err
}

func (f *fakeTaskService) HandleRequest(_ context.Context, raw []byte) (*domain.CreatedTasks, error) {
	f.rawRequest = raw
	return f.created, f.err
}

func (f *fakeTaskService) UpdateTask(_ context.Context, req domain.TaskUpdateRequest) error {
	f.updateReq = req
	return f.err
}

func (f *fakeTaskService) CompleteTask(_ context.Context, categoryID, taskID string) (domain.Record, error) {
	f.completed = []string{categoryID, taskID}
	return f.task, f.err
}

func (f *fakeTaskService) UncompleteTask(_ context.Context, categoryID, taskID string) (domain.Record, error) {
	f.reopened = []string{categoryID, taskID}
	return f.task, f.err
}

func (f *fakeTaskService) ListCategories(_ context.Context) (domain.Collection, error) {
	return f.categories, f.err
}

func (f *fakeTaskService) PurgeCategories(_ context.Context, keep []string) ([]string, error) {
	f.purgeCalls++
	f.keep = keep
	return f.purged, f.err
}

// fakeRecordQuery implements driving.RecordQuery for testing.
type fakeRecordQuery struct {
	categories   []domain.CategoryRecord
	tasks        []domain.TaskRecord
	err          error
	lastCategory string
}

func (f *fakeRecordQuery) ListCategories(_ context.Context) ([]domain.CategoryRecord, error) {
	return f.categories, f.err
}

func (f *fakeRecordQuery) ListTasks(_ context.Context, categoryID string) ([]domain.TaskRecord, error) {
	f.lastCategory = categoryID
	return f.tasks, f.err
}

// fakeSettingsService implements driving.SettingsService for testing.
type fakeSettingsService struct {
	settings    domain.AppSettings
	validateErr error
	saved       *domain.AppSettings
	policy      domain.DeletionPolicy
}

func newFakeSettingsService() *fakeSettingsService {
	return &fakeSettingsService{settings: domain.DefaultAppSettings()}
}

func (f *fakeSettingsService) Get() (*domain.AppSettings, error) {
	s := f.settings
	return &s, nil
}

func (f *fakeSettingsService) Save(settings *domain.AppSettings) error {
	f.saved = settings
	f.settings = *settings
	return nil
}

func (f *fakeSettingsService) SetDeletionPolicy(policy domain.DeletionPolicy) error {
	if !policy.IsValid() {
		return domain.ErrInvalidInput
	}
	f.policy = policy
	return nil
}

func (f *fakeSettingsService) Validate() error {
	return f.validateErr
}

func (f *fakeSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (f *fakeSettingsService) GetSchedulerConfig() domain.SchedulerConfig {
	return f.settings.Scheduler
}

// fakeScheduler implements driving.Scheduler for testing.
// Start blocks until UpdateConfig is called, the context ends or a timeout.
type fakeScheduler struct {
	mu      sync.Mutex
	started bool
	stopped bool
	configs []domain.SchedulerConfig
	once    sync.Once
	updated chan struct{}

	jobs    []domain.Job
	runs    []domain.JobRun
	limit   int
	jobsErr error
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{updated: make(chan struct{})}
}

func (f *fakeScheduler) Start(ctx context.Context) error {
	f.mu.Lock()
	f.started = true
	f.mu.Unlock()

	select {
	case <-f.updated:
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
	}
	return nil
}

func (f *fakeScheduler) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
	return nil
}

func (f *fakeScheduler) UpdateConfig(_ context.Context, cfg domain.SchedulerConfig) error {
	f.mu.Lock()
	f.configs = append(f.configs, cfg)
	f.mu.Unlock()
	f.once.Do(func() { close(f.updated) })
	return nil
}

func (f *fakeScheduler) Jobs(context.Context) ([]domain.Job, error) {
	return f.jobs, f.jobsErr
}

func (f *fakeScheduler) History(_ context.Context, _ string, limit int) ([]domain.JobRun, error) {
	f.limit = limit
	return f.runs, nil
}
