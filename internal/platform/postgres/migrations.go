package postgres

import (
	"embed"
	"io/fs"
)

// MigrationsDir is the directory of the SQL migrations, relative to this
// package. New migrations are created there by `server -migrate create`.
const MigrationsDir = "internal/platform/postgres/migrations"

//go:embed migrations/*.sql
var migrationFiles embed.FS

// MigrationsFS returns the embedded goose migrations, rooted so that the
// files sit at its top level.
func MigrationsFS() fs.FS {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		// ALLOW-PANIC: the embedded directory is fixed at compile time
		panic(err)
	}
	return sub
}
