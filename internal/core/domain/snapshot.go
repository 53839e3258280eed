package domain

import (
	"fmt"
	"sort"
	"time"
)

// Snapshot is the full known remote state at one instant.
type Snapshot struct {
	// Categories holds every remote task list.
	Categories Collection `json:"categories"`

	// Tasks maps a category id to the tasks of that category.
	Tasks map[string]Collection `json:"tasks"`

	// TakenAt is when the remote state was fetched.
	TakenAt time.Time `json:"taken_at"`
}

// NewSnapshot creates an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Categories: Collection{},
		Tasks:      make(map[string]Collection),
	}
}

// Validate checks the identity contract of every record in the snapshot.
func (s *Snapshot) Validate() error {
	if err := s.Categories.Validate(); err != nil {
		return fmt.Errorf("categories: %w", err)
	}
	for categoryID, tasks := range s.Tasks {
		if err := tasks.Validate(); err != nil {
			return fmt.Errorf("tasks of %s: %w", categoryID, err)
		}
	}
	return nil
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := &Snapshot{
		Categories: s.Categories.Clone(),
		Tasks:      make(map[string]Collection, len(s.Tasks)),
		TakenAt:    s.TakenAt,
	}
	for id, tasks := range s.Tasks {
		out.Tasks[id] = tasks.Clone()
	}
	return out
}

// CategoryIDs returns the ids of the snapshot's task collections in sorted order.
func (s *Snapshot) CategoryIDs() []string {
	ids := make([]string, 0, len(s.Tasks))
	for id := range s.Tasks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// TaskCount returns the total number of tasks across categories.
func (s *Snapshot) TaskCount() int {
	n := 0
	for _, tasks := range s.Tasks {
		n += len(tasks)
	}
	return n
}
