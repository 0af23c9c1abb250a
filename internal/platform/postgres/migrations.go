package postgres

import (
	"embed"

	"github.com/phrazzld/scry-review/internal/platform/migrate"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrations is the goose migration source for PostgreSQL.
var Migrations = migrate.Source{
	Dialect: migrate.DialectPostgres,
	FS:      migrationsFS,
	Dir:     "migrations",
}
