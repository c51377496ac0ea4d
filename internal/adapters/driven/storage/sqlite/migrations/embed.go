// Package migrations holds the schema for the SQLite blob store.
package migrations

import "embed"

// FS holds the NNN_name.up.sql and NNN_name.down.sql files. The store
// applies the up files in name order on open.
//
//go:embed *.sql
var FS embed.FS
