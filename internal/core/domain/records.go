package domain

import (
	"regexp"
	"strconv"
	"time"
)

// Remote field names shared by the remote API payloads and the local mapping.
const (
	FieldTitle     = "title"
	FieldNotes     = "notes"
	FieldDue       = "due"
	FieldStatus    = "status"
	FieldParent    = "parent"
	FieldCompleted = "completed"
	FieldDeleted   = "deleted"
	FieldHidden    = "hidden"
	FieldUpdated   = "updated"
	FieldPosition  = "position"
)

// Task statuses understood by the remote service.
const (
	StatusNeedsAction = "needsAction"
	StatusCompleted   = "completed"
)

// CategoryRecord is the local mirror of a remote category.
type CategoryRecord struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	RemoteUpdated *time.Time `json:"remote_updated,omitempty"`
	Deleted       bool       `json:"deleted"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TaskRecord is the local mirror of a remote task.
type TaskRecord struct {
	ID          string `json:"id"`
	CategoryID  string `json:"category_id"`
	Title       string `json:"title"`
	Description string `json:"description"`

	// Category is the remote id of the owning category as recorded by the
	// remote side. It equals CategoryID for tasks created by reconciliation.
	Category string `json:"category"`

	DueDate   *time.Time `json:"due_date,omitempty"`
	Status    string     `json:"status"`
	ETA       string     `json:"eta,omitempty"`
	Assigned  string     `json:"assigned"`
	Creator   string     `json:"creator"`
	ParentID  string     `json:"parent_id,omitempty"`
	Completed *time.Time `json:"completed,omitempty"`
	Deleted   bool       `json:"deleted"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Nullable is an optional update to a nullable column.
// Valid=false with a zero Value clears the column.
type Nullable[T any] struct {
	Value T
	Valid bool
}

// NullableOf returns a set Nullable.
func NullableOf[T any](v T) Nullable[T] {
	return Nullable[T]{Value: v, Valid: true}
}

// CategoryUpdate is a partial update of a local category.
// Nil fields are left unchanged.
type CategoryUpdate struct {
	Title         *string
	RemoteUpdated *Nullable[time.Time]
	Deleted       *bool
}

// IsEmpty reports whether the update changes nothing.
func (u CategoryUpdate) IsEmpty() bool {
	return u.Title == nil && u.RemoteUpdated == nil && u.Deleted == nil
}

// TaskUpdate is a partial update of a local task.
// Nil fields are left unchanged.
type TaskUpdate struct {
	Title       *string
	Description *string
	DueDate     *Nullable[time.Time]
	Status      *string
	ETA         *string
	ParentID    *string
	Completed   *Nullable[time.Time]
	Deleted     *bool
}

// IsEmpty reports whether the update changes nothing.
func (u TaskUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.DueDate == nil &&
		u.Status == nil && u.ETA == nil && u.ParentID == nil &&
		u.Completed == nil && u.Deleted == nil
}

// CategoryRecordFromRemote maps a remote category record to a local one.
func CategoryRecordFromRemote(rec Record) CategoryRecord {
	out := CategoryRecord{
		ID:    rec.ID,
		Title: rec.Fields.String(FieldTitle),
	}
	if t, ok := parseTimeField(rec.Fields, FieldUpdated); ok {
		out.RemoteUpdated = &t
	}
	return out
}

// TaskRecordFromRemote maps a remote task record of a category to a local one.
// owner is stamped as assignee and creator.
func TaskRecordFromRemote(categoryID string, rec Record, owner string) TaskRecord {
	notes := rec.Fields.String(FieldNotes)
	out := TaskRecord{
		ID:          rec.ID,
		CategoryID:  categoryID,
		Category:    categoryID,
		Title:       rec.Fields.String(FieldTitle),
		Description: notes,
		Status:      rec.Fields.String(FieldStatus),
		ETA:         etaFromNotes(notes),
		Assigned:    owner,
		Creator:     owner,
		ParentID:    rec.Fields.String(FieldParent),
		Deleted:     rec.Fields.Bool(FieldDeleted),
	}
	if t, ok := parseTimeField(rec.Fields, FieldDue); ok {
		out.DueDate = &t
	}
	if t, ok := parseTimeField(rec.Fields, FieldCompleted); ok {
		out.Completed = &t
	}
	return out
}

// CategoryUpdateFromDiff maps changed remote fields to a partial update.
// Fields without a local column are ignored.
func CategoryUpdateFromDiff(diff FieldDiff) CategoryUpdate {
	var u CategoryUpdate
	if v, ok := diff[FieldTitle]; ok {
		s, _ := v.Str()
		u.Title = &s
	}
	if _, ok := diff[FieldUpdated]; ok {
		n := nullableTime(diff, FieldUpdated)
		u.RemoteUpdated = &n
	}
	return u
}

// TaskUpdateFromDiff maps changed remote fields to a partial update.
// Fields without a local column are ignored.
func TaskUpdateFromDiff(diff FieldDiff) TaskUpdate {
	var u TaskUpdate
	if v, ok := diff[FieldTitle]; ok {
		s, _ := v.Str()
		u.Title = &s
	}
	if v, ok := diff[FieldNotes]; ok {
		s, _ := v.Str()
		eta := etaFromNotes(s)
		u.Description = &s
		u.ETA = &eta
	}
	if _, ok := diff[FieldDue]; ok {
		n := nullableTime(diff, FieldDue)
		u.DueDate = &n
	}
	if v, ok := diff[FieldStatus]; ok {
		s, _ := v.Str()
		u.Status = &s
	}
	if v, ok := diff[FieldParent]; ok {
		s, _ := v.Str()
		u.ParentID = &s
	}
	if _, ok := diff[FieldCompleted]; ok {
		n := nullableTime(diff, FieldCompleted)
		u.Completed = &n
	}
	if v, ok := diff[FieldDeleted]; ok {
		b, _ := v.Bool()
		u.Deleted = &b
	}
	return u
}

func parseTimeField(f Fields, name string) (time.Time, bool) {
	s, ok := f[name].Str()
	if !ok || s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

func nullableTime(f Fields, name string) Nullable[time.Time] {
	if t, ok := parseTimeField(f, name); ok {
		return NullableOf(t)
	}
	return Nullable[time.Time]{}
}

var durationAnnotation = regexp.MustCompile(`Estimated Duration: (\d+) minutes\s*$`)

// ParseEstimatedDuration extracts the minutes of a trailing
// "Estimated Duration: N minutes" annotation.
func ParseEstimatedDuration(notes string) (int, bool) {
	m := durationAnnotation.FindStringSubmatch(notes)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func etaFromNotes(notes string) string {
	n, ok := ParseEstimatedDuration(notes)
	if !ok {
		return ""
	}
	return strconv.Itoa(n) + " minutes"
}
