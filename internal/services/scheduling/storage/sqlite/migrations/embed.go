// Package migrations embeds the scheduling schema migration files.
package migrations

import "embed"

// FS exposes the embedded SQL migration files.
//
//go:embed *.sql
var FS embed.FS
