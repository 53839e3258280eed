// Package mcp provides an MCP (Model Context Protocol) server adapter for ypsync.
// It lets AI assistants create tasks, trigger reconciliation and read deltas.
package mcp

import "errors"

// ErrMissingReconciler is returned when the reconciler is not provided.
var ErrMissingReconciler = errors.New("mcp: reconciler is required")

// ErrMissingTaskService is returned by task tools when no task service is wired.
var ErrMissingTaskService = errors.New("mcp: task service is not configured")
