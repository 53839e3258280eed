// Package services implements the driving ports on top of the driven ones.
//
// The reconciler diffs the remote task service against the last committed
// snapshot and hands the delta to the applier, which mirrors it into the
// record store. The task service builds parent and child tasks from create
// requests, and the scheduler runs reconciliation as a background job.
package services
