// Package migrations embeds the SQL schema of the run history store.
package migrations

import "embed"

// FS holds the numbered *.up.sql files.
//
//go:embed *.sql
var FS embed.FS
