package domain

import (
	"sort"
	"time"
)

// AnomalyKind classifies a non-fatal oddity found while diffing.
type AnomalyKind string

// Known anomaly kinds.
const (
	// AnomalyDuplicateID means an id occurred more than once in one collection.
	AnomalyDuplicateID AnomalyKind = "duplicate_id"
)

// Anomaly records an ambiguous match. Anomalies never abort a run.
type Anomaly struct {
	Kind AnomalyKind `json:"kind"`
	// Side is "former" or "current".
	Side string `json:"side"`
	// Scope names the collection: "categories" or a category id.
	Scope string `json:"scope,omitempty"`
	ID    string `json:"id"`
	Count int    `json:"count"`
}

// Diff sides.
const (
	SideFormer  = "former"
	SideCurrent = "current"
)

// CollectionDiff is the result of comparing two collections of one kind.
type CollectionDiff struct {
	New       map[string]Record    `json:"new"`
	Changed   map[string]FieldDiff `json:"changed"`
	Deleted   map[string]Record    `json:"deleted"`
	Anomalies []Anomaly            `json:"anomalies,omitempty"`
}

// NewCollectionDiff creates an empty diff.
func NewCollectionDiff() CollectionDiff {
	return CollectionDiff{
		New:     make(map[string]Record),
		Changed: make(map[string]FieldDiff),
		Deleted: make(map[string]Record),
	}
}

// IsEmpty reports whether the diff has no new, changed or deleted entries.
func (d CollectionDiff) IsEmpty() bool {
	return len(d.New) == 0 && len(d.Changed) == 0 && len(d.Deleted) == 0
}

// Delta is the structured difference between two snapshots.
type Delta struct {
	// RunID identifies the reconciliation run that produced the delta.
	RunID string `json:"run_id"`

	// ComputedAt is when the delta was computed.
	ComputedAt time.Time `json:"computed_at"`

	// Bootstrap is true when no former snapshot existed.
	Bootstrap bool `json:"bootstrap"`

	NewCategories     map[string]Record    `json:"new_categories"`
	ChangedCategories map[string]FieldDiff `json:"changed_categories"`
	DeletedCategories map[string]Record    `json:"deleted_categories"`

	// Task partitions are keyed by category id, then task id.
	NewTasks     map[string]map[string]Record    `json:"new_tasks"`
	ChangedTasks map[string]map[string]FieldDiff `json:"changed_tasks"`
	DeletedTasks map[string]map[string]Record    `json:"deleted_tasks"`

	Anomalies []Anomaly `json:"anomalies,omitempty"`
}

// NewDelta creates an empty delta.
func NewDelta() *Delta {
	return &Delta{
		NewCategories:     make(map[string]Record),
		ChangedCategories: make(map[string]FieldDiff),
		DeletedCategories: make(map[string]Record),
		NewTasks:          make(map[string]map[string]Record),
		ChangedTasks:      make(map[string]map[string]FieldDiff),
		DeletedTasks:      make(map[string]map[string]Record),
	}
}

// SetCategories stores a category-level diff in the delta.
func (d *Delta) SetCategories(diff CollectionDiff) {
	d.NewCategories = diff.New
	d.ChangedCategories = diff.Changed
	d.DeletedCategories = diff.Deleted
	d.Anomalies = append(d.Anomalies, diff.Anomalies...)
}

// MergeTasks merges the non-empty partitions of a task diff under categoryID.
func (d *Delta) MergeTasks(categoryID string, diff CollectionDiff) {
	if len(diff.New) > 0 {
		d.NewTasks[categoryID] = diff.New
	}
	if len(diff.Changed) > 0 {
		d.ChangedTasks[categoryID] = diff.Changed
	}
	if len(diff.Deleted) > 0 {
		d.DeletedTasks[categoryID] = diff.Deleted
	}
	d.Anomalies = append(d.Anomalies, diff.Anomalies...)
}

// IsEmpty reports whether the delta carries no changes at all.
func (d *Delta) IsEmpty() bool {
	return len(d.NewCategories) == 0 &&
		len(d.ChangedCategories) == 0 &&
		len(d.DeletedCategories) == 0 &&
		len(d.NewTasks) == 0 &&
		len(d.ChangedTasks) == 0 &&
		len(d.DeletedTasks) == 0
}

// DeltaSummary holds entry counts of a delta.
type DeltaSummary struct {
	NewCategories     int `json:"new_categories" yaml:"new_categories"`
	ChangedCategories int `json:"changed_categories" yaml:"changed_categories"`
	DeletedCategories int `json:"deleted_categories" yaml:"deleted_categories"`
	NewTasks          int `json:"new_tasks" yaml:"new_tasks"`
	ChangedTasks      int `json:"changed_tasks" yaml:"changed_tasks"`
	DeletedTasks      int `json:"deleted_tasks" yaml:"deleted_tasks"`
	Anomalies         int `json:"anomalies" yaml:"anomalies"`
}

// Total returns the number of entries across all partitions.
func (s DeltaSummary) Total() int {
	return s.NewCategories + s.ChangedCategories + s.DeletedCategories +
		s.NewTasks + s.ChangedTasks + s.DeletedTasks
}

// Summary counts the delta's entries.
func (d *Delta) Summary() DeltaSummary {
	return DeltaSummary{
		NewCategories:     len(d.NewCategories),
		ChangedCategories: len(d.ChangedCategories),
		DeletedCategories: len(d.DeletedCategories),
		NewTasks:          countNested(d.NewTasks),
		ChangedTasks:      countNested(d.ChangedTasks),
		DeletedTasks:      countNested(d.DeletedTasks),
		Anomalies:         len(d.Anomalies),
	}
}

func countNested[V any](m map[string]map[string]V) int {
	n := 0
	for _, inner := range m {
		n += len(inner)
	}
	return n
}

// SortedKeys returns the keys of a string-keyed map in sorted order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
