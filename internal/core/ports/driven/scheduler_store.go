package driven

//go:generate mockgen -source=scheduler_store.go -destination=../../../mock/scheduler_store_mock.go -package=mock

import (
	"context"

	"github.com/custodia-labs/ypsync/internal/core/domain"
)

// SchedulerStore persists job state and run history so a restarted
// scheduler resumes where it left off.
type SchedulerStore interface {
	// GetJob returns nil and no error if the job does not exist.
	GetJob(ctx context.Context, id string) (*domain.Job, error)

	ListJobs(ctx context.Context) ([]domain.Job, error)

	// SaveJob creates or replaces a job by id.
	SaveJob(ctx context.Context, job *domain.Job) error

	DeleteJob(ctx context.Context, id string) error

	// RecordRun appends to the run history.
	RecordRun(ctx context.Context, run *domain.JobRun) error

	// JobHistory returns the most recent runs of a job, newest first.
	// A limit of zero returns every run.
	JobHistory(ctx context.Context, jobID string, limit int) ([]domain.JobRun, error)

	// PruneHistory keeps the newest keep runs per job.
	PruneHistory(ctx context.Context, keep int) error
}
