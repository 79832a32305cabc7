// Package migrations embeds the goose SQL migrations for the local
// preferences database (SQLite) and the remote journal schema (Postgres).
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed local/*.sql
var local embed.FS

//go:embed remote/*.sql
var remote embed.FS

// Local returns the SQLite migrations rooted at their directory.
func Local() fs.FS {
	sub, _ := fs.Sub(local, "local")
	return sub
}

// Remote returns the Postgres migrations rooted at their directory.
func Remote() fs.FS {
	sub, _ := fs.Sub(remote, "remote")
	return sub
}
