package driving

import (
	"context"

	"github.com/custodia-labs/ypsync/internal/core/domain"
)

// Scheduler runs periodic reconciliation in the background.
type Scheduler interface {
	// Start blocks until Stop is called or ctx is cancelled.
	Start(ctx context.Context) error

	// Stop waits for in-flight jobs and returns.
	Stop() error

	// UpdateConfig replaces the configuration.
	// Changed intervals take effect on the next tick.
	UpdateConfig(ctx context.Context, config domain.SchedulerConfig) error

	// Jobs returns the persisted job state.
	Jobs(ctx context.Context) ([]domain.Job, error)

	// History returns the most recent runs of a job, newest first.
	History(ctx context.Context, jobID string, limit int) ([]domain.JobRun, error)
}
