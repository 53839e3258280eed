package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/ypsync/internal/core/domain"
)

// Reconciler detects remote changes and mirrors them into the local store.
type Reconciler interface {
	// Reconcile fetches the current remote state and diffs it against former.
	// A nil former is a bootstrap: everything is new. Nothing is persisted.
	Reconcile(ctx context.Context, former *domain.Snapshot) (*domain.Delta, *domain.Snapshot, error)

	// Run performs one full run: load, reconcile, apply, commit.
	Run(ctx context.Context) (*RunResult, error)

	// DryRun loads the former snapshot and reconciles without applying or committing.
	DryRun(ctx context.Context) (*RunResult, error)

	// LastDelta returns the delta of the last committed run.
	LastDelta(ctx context.Context) (*domain.Delta, error)

	// Status returns the state of the current or last run.
	Status() RunStatus
}

// DeltaApplier mirrors a delta into the local record store.
type DeltaApplier interface {
	// Apply applies every entry of the delta.
	// current is the snapshot the delta leads to; when a changed record is
	// missing locally it is created from there. current may be nil.
	// Per-entry failures are joined into the returned error; the other
	// entries are still applied.
	Apply(ctx context.Context, delta *domain.Delta, current *domain.Snapshot) (ApplyResult, error)
}

// ApplyResult counts what a delta application did.
type ApplyResult struct {
	Created  int `json:"created" yaml:"created"`
	Updated  int `json:"updated" yaml:"updated"`
	Archived int `json:"archived" yaml:"archived"`
	Reported int `json:"reported" yaml:"reported"`
	Failed   int `json:"failed" yaml:"failed"`
}

// RunResult describes a finished reconciliation run.
type RunResult struct {
	RunID    string              `json:"run_id" yaml:"run_id"`
	DryRun   bool                `json:"dry_run" yaml:"dry_run"`
	Delta    *domain.Delta       `json:"delta" yaml:"-"`
	Summary  domain.DeltaSummary `json:"summary" yaml:"summary"`
	Applied  ApplyResult         `json:"applied" yaml:"applied"`
	Duration time.Duration       `json:"duration" yaml:"duration"`
}

// RunStatus represents the state of reconciliation.
type RunStatus struct {
	// Running indicates if a run is currently in progress.
	Running bool

	// RunID identifies the current or last run.
	RunID string

	// LastFinished is when the last run ended.
	LastFinished time.Time

	// LastError is the error of the last run, if any.
	LastError string
}
