package mcp

import (
	"github.com/custodia-labs/ypsync/internal/core/ports/driving"
)

// Ports groups the driving ports the MCP server calls into.
type Ports struct {
	// Reconciler runs reconciliation and serves the last delta. Required.
	Reconciler driving.Reconciler

	// Tasks creates and modifies remote tasks.
	Tasks driving.TaskService

	// Records reads the local mirror.
	Records driving.RecordQuery

	// Scheduler reports background job state.
	Scheduler driving.Scheduler
}

// Validate returns ErrMissingReconciler if the reconciler is unset.
// The other ports are optional; their tools and resources degrade instead.
func (p *Ports) Validate() error {
	if p.Reconciler == nil {
		return ErrMissingReconciler
	}
	return nil
}
