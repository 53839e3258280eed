package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/custodia-labs/ypsync/internal/core/domain"
	"github.com/custodia-labs/ypsync/internal/core/ports/driven"
)

// Ensure SnapshotStore implements the interface.
var _ driven.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore is an in-memory implementation of driven.SnapshotStore.
// Slots hold encoded JSON so stored values never alias caller state.
type SnapshotStore struct {
	mu       sync.RWMutex
	snapshot []byte
	delta    []byte
	commits  int
}

// NewSnapshotStore creates a new in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// LoadSnapshot returns the committed snapshot.
func (s *SnapshotStore) LoadSnapshot(_ context.Context) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return nil, domain.ErrNotFound
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(s.snapshot, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// LoadDelta returns the committed delta.
func (s *SnapshotStore) LoadDelta(_ context.Context) (*domain.Delta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.delta == nil {
		return nil, domain.ErrNotFound
	}
	var delta domain.Delta
	if err := json.Unmarshal(s.delta, &delta); err != nil {
		return nil, fmt.Errorf("decode delta: %w", err)
	}
	return &delta, nil
}

// Commit replaces both slots.
func (s *SnapshotStore) Commit(_ context.Context, snapshot *domain.Snapshot, delta *domain.Delta) error {
	if snapshot == nil || delta == nil {
		return fmt.Errorf("%w: snapshot and delta are required", domain.ErrInvalidInput)
	}
	snapData, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	deltaData, err := json.Marshal(delta)
	if err != nil {
		return fmt.Errorf("encode delta: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snapData
	s.delta = deltaData
	s.commits++
	return nil
}

// Commits returns the number of successful commits.
func (s *SnapshotStore) Commits() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.commits
}
