// Package migrations embeds the SQL schema so the migrate binary carries it.
package migrations

import "embed"

// Postgres holds NNNNNN_name.{up,down}.sql files under postgres/.
//
//go:embed postgres/*.sql
var Postgres embed.FS
