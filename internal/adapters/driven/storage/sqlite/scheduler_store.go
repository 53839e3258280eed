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

// schedulerStore implements driven.SchedulerStore on the jobs and
// job_runs tables.
type schedulerStore struct {
	store *Store
}

var _ driven.SchedulerStore = (*schedulerStore)(nil)

var (
	jobColumns = []string{
		"id", "interval_seconds", "enabled", "last_run", "next_run", "last_success", "last_error", "failures",
	}
	jobRunColumns = []string{
		"job_id", "run_id", "started_at", "ended_at", "skipped", "error", "changes",
	}
)

// GetJob returns nil and no error if the job does not exist.
func (s *schedulerStore) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	query, args, err := builder.Select(jobColumns...).
		From("jobs").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building job query: %w", err)
	}

	job, err := scanJob(s.store.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return job, err
}

func (s *schedulerStore) ListJobs(ctx context.Context) ([]domain.Job, error) {
	query, args, err := builder.Select(jobColumns...).
		From("jobs").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building job query: %w", err)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.Job //nolint:prealloc // size unknown from query
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating jobs: %w", err)
	}
	return jobs, nil
}

func (s *schedulerStore) SaveJob(ctx context.Context, job *domain.Job) error {
	if job == nil || job.ID == "" {
		return fmt.Errorf("%w: job without id", domain.ErrInvalidInput)
	}

	query, args, err := builder.Insert("jobs").
		Columns(jobColumns...).
		Values(job.ID, int64(job.Interval/time.Second), boolToInt(job.Enabled),
			zeroTimeAsNull(job.LastRun), zeroTimeAsNull(job.NextRun), zeroTimeAsNull(job.LastSuccess),
			nullString(job.LastError), job.Failures).
		Suffix(`ON CONFLICT(id) DO UPDATE SET
			interval_seconds = excluded.interval_seconds,
			enabled = excluded.enabled,
			last_run = excluded.last_run,
			next_run = excluded.next_run,
			last_success = excluded.last_success,
			last_error = excluded.last_error,
			failures = excluded.failures`).
		ToSql()
	if err != nil {
		return fmt.Errorf("building job upsert: %w", err)
	}

	if _, err := s.store.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("saving job %s: %w", job.ID, err)
	}
	return nil
}

func (s *schedulerStore) DeleteJob(ctx context.Context, id string) error {
	query, args, err := builder.Delete("jobs").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("building job delete: %w", err)
	}
	if _, err := s.store.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("deleting job %s: %w", id, err)
	}
	return nil
}

func (s *schedulerStore) RecordRun(ctx context.Context, run *domain.JobRun) error {
	if run == nil || run.JobID == "" {
		return fmt.Errorf("%w: run without job id", domain.ErrInvalidInput)
	}

	query, args, err := builder.Insert("job_runs").
		Columns(jobRunColumns...).
		Values(run.JobID, nullString(run.RunID), formatTime(run.StartedAt), formatTime(run.EndedAt),
			boolToInt(run.Skipped), nullString(run.Error), run.Changes).
		ToSql()
	if err != nil {
		return fmt.Errorf("building job run insert: %w", err)
	}

	if _, err := s.store.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("recording run of %s: %w", run.JobID, err)
	}
	return nil
}

// JobHistory returns the newest runs first; ties on start time fall back
// to insertion order.
func (s *schedulerStore) JobHistory(ctx context.Context, jobID string, limit int) ([]domain.JobRun, error) {
	q := builder.Select(jobRunColumns...).
		From("job_runs").
		Where(sq.Eq{"job_id": jobID}).
		OrderBy("started_at DESC", "id DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building job history query: %w", err)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying job history: %w", err)
	}
	defer rows.Close()

	var runs []domain.JobRun //nolint:prealloc // size unknown from query
	for rows.Next() {
		run, err := scanJobRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating job history: %w", err)
	}
	return runs, nil
}

func (s *schedulerStore) PruneHistory(ctx context.Context, keep int) error {
	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM job_runs
		WHERE id NOT IN (
			SELECT id FROM (
				SELECT id, ROW_NUMBER() OVER (PARTITION BY job_id ORDER BY started_at DESC, id DESC) AS rn
				FROM job_runs
			) WHERE rn <= ?
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("pruning job history: %w", err)
	}
	return nil
}

func scanJob(row rowScanner) (*domain.Job, error) {
	var (
		job                                    domain.Job
		intervalSeconds                        int64
		enabled                                int
		lastRun, nextRun, lastSuccess, lastErr sql.NullString
	)
	if err := row.Scan(&job.ID, &intervalSeconds, &enabled,
		&lastRun, &nextRun, &lastSuccess, &lastErr, &job.Failures); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning job: %w", err)
	}

	job.Interval = time.Duration(intervalSeconds) * time.Second
	job.Enabled = enabled == 1
	job.LastRun = nullTimeValue(lastRun)
	job.NextRun = nullTimeValue(nextRun)
	job.LastSuccess = nullTimeValue(lastSuccess)
	job.LastError = lastErr.String
	return &job, nil
}

func scanJobRun(row rowScanner) (*domain.JobRun, error) {
	var (
		run                domain.JobRun
		runID, errMsg      sql.NullString
		startedAt, endedAt string
		skipped            int
	)
	if err := row.Scan(&run.JobID, &runID, &startedAt, &endedAt,
		&skipped, &errMsg, &run.Changes); err != nil {
		return nil, fmt.Errorf("scanning job run: %w", err)
	}

	run.RunID = runID.String
	run.StartedAt = parseTime(startedAt)
	run.EndedAt = parseTime(endedAt)
	run.Skipped = skipped == 1
	run.Error = errMsg.String
	return &run, nil
}

// zeroTimeAsNull formats a time, or returns nil for the zero time.
func zeroTimeAsNull(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return formatTime(t)
}

// nullTimeValue parses a nullable timestamp; NULL is the zero time.
func nullTimeValue(s sql.NullString) time.Time {
	if t := parseTimePtr(s); t != nil {
		return *t
	}
	return time.Time{}
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
