package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSyncInProgress indicates a reconciliation run is already in progress.
	ErrSyncInProgress = errors.New("sync in progress")

	// Failure kinds of a reconciliation run or a task request.

	// ErrInputContract indicates a record without identity or a request
	// payload with an unrecognised discriminant. Fatal; nothing is persisted.
	ErrInputContract = errors.New("input contract violation")

	// ErrRemoteFetch indicates a call to the remote task service failed.
	// The run is aborted before any persistence.
	ErrRemoteFetch = errors.New("remote fetch failure")

	// ErrLocalStore indicates a snapshot or record store operation failed.
	ErrLocalStore = errors.New("local store failure")

	// ErrAmbiguousMatch indicates duplicate ids within one collection.
	// Non-fatal: reported as an anomaly and logged.
	ErrAmbiguousMatch = errors.New("ambiguous match")

	// Authentication Errors.

	// ErrAuthRequired indicates no usable credentials are configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)

// Run stages used in RunError.
const (
	StageLoad   = "load snapshot"
	StageFetch  = "fetch"
	StageDiff   = "diff"
	StageApply  = "apply"
	StageCommit = "commit"
)

// RunError is a failure of one reconciliation stage, tagged with its kind.
// errors.Is matches both the kind sentinel and the underlying cause.
type RunError struct {
	Stage string
	Kind  error
	Err   error
}

// Error implements the error interface.
func (e *RunError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Stage, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause.
func (e *RunError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// NewRunError wraps err as a failure of stage with the given kind.
func NewRunError(stage string, kind, err error) *RunError {
	return &RunError{Stage: stage, Kind: kind, Err: err}
}

// Entity kinds used in ApplyError.
const (
	EntityCategory = "category"
	EntityTask     = "task"
)

// ApplyError is a failure to apply one delta entry to the local store.
type ApplyError struct {
	Entity     string
	ID         string
	CategoryID string
	Op         string
	Err        error
}

// Error implements the error interface.
func (e *ApplyError) Error() string {
	if e.CategoryID != "" {
		return fmt.Sprintf("%s %s %s/%s: %v", e.Op, e.Entity, e.CategoryID, e.ID, e.Err)
	}
	return fmt.Sprintf("%s %s %s: %v", e.Op, e.Entity, e.ID, e.Err)
}

// Unwrap returns the underlying error.
func (e *ApplyError) Unwrap() error {
	return e.Err
}
