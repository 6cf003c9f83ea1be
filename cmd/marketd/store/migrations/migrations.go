// Package migrations holds the schema of the market store.
package migrations

import "embed"

// FS contains the SQL migration files.
//go:embed *.sql
var FS embed.FS
