// Package sqlite stores the local mirror of remote categories and tasks, and
// the scheduler state, in one SQLite database.
//
// It uses modernc.org/sqlite, a pure Go SQLite implementation, so the binary
// builds without CGO. Statements are built with squirrel; partial record
// updates only touch the columns they set.
//
//   - RecordStore: categories and tasks mirrored by reconciliation
//   - SchedulerStore: scheduled task state and run history
//
// # Schema
//
// Versioned migrations live in migrations/ as NNN_name.up.sql files and are
// applied in order on open, each in its own transaction.
//
// # Data Location
//
// By default, the database is stored at ~/.ypsync/data/records.db
package sqlite
