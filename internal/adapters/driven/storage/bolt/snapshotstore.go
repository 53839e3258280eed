// Package bolt provides the snapshot store on a bbolt key/value file.
package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/custodia-labs/ypsync/internal/core/domain"
	"github.com/custodia-labs/ypsync/internal/core/ports/driven"
)

// Ensure SnapshotStore implements the interface.
var _ driven.SnapshotStore = (*SnapshotStore)(nil)

// DefaultFileName is the database file created in the data directory.
const DefaultFileName = "snapshots.db"

var (
	bucketSlots = []byte("slots")

	keyFormer  = []byte("former")
	keyChanges = []byte("changes")
)

// SnapshotStore keeps the last committed snapshot and delta in two slots.
type SnapshotStore struct {
	db *bbolt.DB
}

// NewSnapshotStore opens (or creates) the database in dir.
func NewSnapshotStore(dir string) (*SnapshotStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return Open(filepath.Join(dir, DefaultFileName))
}

// Open opens the database at path.
func Open(path string) (*SnapshotStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSlots)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}

	return &SnapshotStore{db: db}, nil
}

// Close closes the database.
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *SnapshotStore) Path() string {
	return s.db.Path()
}

// LoadSnapshot returns the committed snapshot.
func (s *SnapshotStore) LoadSnapshot(_ context.Context) (*domain.Snapshot, error) {
	var snap domain.Snapshot
	if err := s.get(keyFormer, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// LoadDelta returns the committed delta.
func (s *SnapshotStore) LoadDelta(_ context.Context) (*domain.Delta, error) {
	var delta domain.Delta
	if err := s.get(keyChanges, &delta); err != nil {
		return nil, err
	}
	return &delta, nil
}

// Commit replaces both slots in one transaction.
func (s *SnapshotStore) Commit(ctx context.Context, snapshot *domain.Snapshot, delta *domain.Delta) error {
	if snapshot == nil || delta == nil {
		return fmt.Errorf("%w: snapshot and delta are required", domain.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	snapData, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	deltaData, err := json.Marshal(delta)
	if err != nil {
		return fmt.Errorf("encode delta: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSlots)
		if err := b.Put(keyFormer, snapData); err != nil {
			return fmt.Errorf("put snapshot: %w", err)
		}
		if err := b.Put(keyChanges, deltaData); err != nil {
			return fmt.Errorf("put delta: %w", err)
		}
		return nil
	})
}

func (s *SnapshotStore) get(key []byte, dest any) error {
	var data []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket(bucketSlots).Get(key); v != nil {
			// Values are only valid for the life of the transaction.
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	if data == nil {
		return domain.ErrNotFound
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}
