package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/ypsync/internal/core/domain"
	"github.com/custodia-labs/ypsync/internal/core/ports/driven"
	"github.com/custodia-labs/ypsync/internal/core/ports/driving"
	"github.com/custodia-labs/ypsync/internal/logger"
)

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

// historyRetention is the number of runs kept per job.
const historyRetention = 100

// Scheduler runs due jobs on a fixed tick.
// Job state lives in the store, so a restart resumes the schedule and a
// run that overlaps the previous one is skipped.
type Scheduler struct {
	store      driven.SchedulerStore
	reconciler driving.Reconciler
	tick       time.Duration
	now        func() time.Time

	mu      sync.Mutex
	config  domain.SchedulerConfig
	running bool
	active  map[string]bool
	stopCh  chan struct{}
	wg      sync.WaitGroup

	// jobMu serialises read-modify-write of stored jobs between config
	// syncs and finishing runs.
	jobMu sync.Mutex
}

// NewScheduler creates a scheduler with configuration.
func NewScheduler(
	config domain.SchedulerConfig,
	store driven.SchedulerStore,
	reconciler driving.Reconciler,
) *Scheduler {
	return &Scheduler{
		config:     config,
		store:      store,
		reconciler: reconciler,
		tick:       time.Minute,
		now:        time.Now,
		active:     make(map[string]bool),
	}
}

// Start begins the scheduler loop. This method blocks until Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		logger.Info("Scheduler disabled")
		return nil
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	if err := s.syncJobs(ctx); err != nil {
		logger.Warn("scheduler: failed to sync jobs: %v", err)
	}

	return s.loop(ctx)
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

// UpdateConfig replaces the configuration and re-syncs stored job state.
func (s *Scheduler) UpdateConfig(ctx context.Context, config domain.SchedulerConfig) error {
	s.mu.Lock()
	s.config = config
	running := s.running
	s.mu.Unlock()

	if !running {
		return nil
	}
	logger.Info("Scheduler configuration reloaded")
	return s.syncJobs(ctx)
}

// Jobs returns the persisted job state.
func (s *Scheduler) Jobs(ctx context.Context) ([]domain.Job, error) {
	jobs, err := s.store.ListJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

// History returns the most recent runs of a job.
func (s *Scheduler) History(ctx context.Context, jobID string, limit int) ([]domain.JobRun, error) {
	runs, err := s.store.JobHistory(ctx, jobID, limit)
	if err != nil {
		return nil, fmt.Errorf("job history %s: %w", jobID, err)
	}
	return runs, nil
}

func (s *Scheduler) currentConfig() domain.SchedulerConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

// syncJobs reconciles stored jobs with the configuration.
func (s *Scheduler) syncJobs(ctx context.Context) error {
	cfg := s.currentConfig()
	job := cfg.Job(domain.JobReconcile)
	// The master switch disables every job.
	job.Enabled = job.Enabled && cfg.Enabled
	return s.syncJob(ctx, domain.JobReconcile, job)
}

func (s *Scheduler) syncJob(ctx context.Context, id string, cfg domain.JobConfig) error {
	s.jobMu.Lock()
	defer s.jobMu.Unlock()

	job, err := s.store.GetJob(ctx, id)
	if err != nil {
		return err
	}

	now := s.now()
	switch {
	case job == nil && !cfg.Enabled:
		return nil
	case job == nil:
		// First run is due immediately.
		job = &domain.Job{ID: id, Interval: cfg.Interval, Enabled: true, NextRun: now}
	default:
		if job.Interval != cfg.Interval {
			job.Interval = cfg.Interval
			job.NextRun = now.Add(job.Delay())
		}
		job.Enabled = cfg.Enabled
	}

	return s.store.SaveJob(ctx, job)
}

func (s *Scheduler) loop(ctx context.Context) error {
	s.runDue(ctx)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			return ctx.Err()
		case <-s.stopCh:
			return nil
		case <-ticker.C:
			s.runDue(ctx)
		}
	}
}

// runDue starts every job whose next run has passed.
func (s *Scheduler) runDue(ctx context.Context) {
	if !s.currentConfig().Enabled {
		return
	}

	jobs, err := s.store.ListJobs(ctx)
	if err != nil {
		logger.Warn("scheduler: failed to list jobs: %v", err)
		return
	}

	now := s.now()
	for i := range jobs {
		if jobs[i].Due(now) {
			s.start(ctx, jobs[i])
		}
	}
}

// start runs a job in the background unless it is still running.
func (s *Scheduler) start(ctx context.Context, job domain.Job) {
	s.mu.Lock()
	if s.active[job.ID] {
		s.mu.Unlock()
		logger.Debug("scheduler: job %s still running, skipping", job.ID)
		return
	}
	s.active[job.ID] = true
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			delete(s.active, job.ID)
			s.mu.Unlock()
		}()

		run := s.execute(ctx, job.ID)

		// A cancelled run is still recorded.
		storeCtx := context.WithoutCancel(ctx)
		s.finish(storeCtx, job, run)
		if err := s.store.RecordRun(storeCtx, &run); err != nil {
			logger.Warn("scheduler: failed to record run of %s: %v", job.ID, err)
		}
		if err := s.store.PruneHistory(storeCtx, historyRetention); err != nil {
			logger.Warn("scheduler: failed to prune history: %v", err)
		}
	}()
}

// finish folds run into the stored job. The job is re-read so that a
// config sync made while the run was in flight is kept.
func (s *Scheduler) finish(ctx context.Context, job domain.Job, run domain.JobRun) {
	s.jobMu.Lock()
	defer s.jobMu.Unlock()

	stored, err := s.store.GetJob(ctx, job.ID)
	switch {
	case err != nil:
		logger.Warn("scheduler: failed to reload job %s: %v", job.ID, err)
	case stored != nil:
		job = *stored
	}

	job.Finish(run)
	if !run.Succeeded() {
		logger.Error("scheduler: job %s failed (%d in a row), next run %s: %s",
			job.ID, job.Failures, job.NextRun.Format(time.RFC3339), run.Error)
	}
	if err := s.store.SaveJob(ctx, &job); err != nil {
		logger.Warn("scheduler: failed to save job %s: %v", job.ID, err)
	}
}

func (s *Scheduler) execute(ctx context.Context, jobID string) domain.JobRun {
	run := domain.JobRun{JobID: jobID, StartedAt: s.now()}

	switch jobID {
	case domain.JobReconcile:
		s.reconcile(ctx, &run)
	default:
		run.Error = fmt.Sprintf("unknown job %q", jobID)
	}

	run.EndedAt = s.now()
	return run
}

func (s *Scheduler) reconcile(ctx context.Context, run *domain.JobRun) {
	if s.reconciler == nil {
		run.Skipped = true
		return
	}

	result, err := s.reconciler.Run(ctx)
	switch {
	case errors.Is(err, domain.ErrSyncInProgress):
		run.Skipped = true
	case err != nil:
		run.Error = err.Error()
	default:
		run.RunID = result.RunID
		run.Changes = result.Summary.Total()
	}
}
