package migrations

import "embed"

// FS contains embedded SQLite migrations for the dataset store.
//
//go:embed *.sql
var FS embed.FS
