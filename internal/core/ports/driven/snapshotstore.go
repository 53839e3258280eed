package driven

//go:generate mockgen -source=snapshotstore.go -destination=../../../mock/snapshotstore_mock.go -package=mock

import (
	"context"

	"github.com/custodia-labs/ypsync/internal/core/domain"
)

// SnapshotStore persists the former snapshot and the last computed delta.
type SnapshotStore interface {
	// LoadSnapshot returns the former snapshot.
	// Returns domain.ErrNotFound before the first commit.
	LoadSnapshot(ctx context.Context) (*domain.Snapshot, error)

	// LoadDelta returns the delta of the last committed run.
	// Returns domain.ErrNotFound before the first commit.
	LoadDelta(ctx context.Context) (*domain.Delta, error)

	// Commit replaces the snapshot and delta slots atomically.
	// Either both slots are written or neither is.
	Commit(ctx context.Context, snapshot *domain.Snapshot, delta *domain.Delta) error
}
