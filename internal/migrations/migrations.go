// Package migrations embeds the goose SQL migrations of both databases:
// the PostgreSQL credential store (postgres/) and the local SQLite file that
// keeps the session marker (local/).
package migrations

import "embed"

//go:embed postgres/*.sql
var Postgres embed.FS

//go:embed local/*.sql
var Local embed.FS

const (
	PostgresDir = "postgres"
	LocalDir    = "local"
)
