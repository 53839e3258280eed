// Package migrations embeds the SQL migrations of the record database.
package migrations

import "embed"

// FS holds the versioned migration files.
//
//go:embed *.sql
var FS embed.FS
