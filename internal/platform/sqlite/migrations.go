package sqlite

import (
	"embed"

	"github.com/phrazzld/scry-review/internal/platform/migrate"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrations is the goose migration source for SQLite.
var Migrations = migrate.Source{
	Dialect: migrate.DialectSQLite,
	FS:      migrationsFS,
	Dir:     "migrations",
}
