// Package driven holds the interfaces core services call out through.
// Adapters under internal/adapters/driven and internal/connectors
// implement them; this package imports nothing but domain.
//
// Core cannot run without:
//
//   - TaskClient, the remote task service
//   - SnapshotStore, the former snapshot and the last delta
//   - RecordStore, the local category and task mirror
//   - ConfigStore, the settings file
//
// SchedulerStore and ConfigWatcher may be nil. Without a SchedulerStore job
// state lives in memory only; without a ConfigWatcher settings are read once.
package driven
