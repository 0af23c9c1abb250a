// Package migrate applies the embedded goose migrations for a storage backend.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/pressly/goose/v3"
)

// TableName is the name of the table used by goose to track migrations.
const TableName = "schema_migrations"

// Supported goose dialects.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

// Commands accepted by Run.
const (
	CommandUp      = "up"
	CommandDown    = "down"
	CommandReset   = "reset"
	CommandStatus  = "status"
	CommandVersion = "version"
)

// ValidCommand reports whether command is accepted by Run.
func ValidCommand(command string) bool {
	switch command {
	case CommandUp, CommandDown, CommandReset, CommandStatus, CommandVersion:
		return true
	}
	return false
}

// Source is a set of migrations for one dialect. FS must hold the .sql files
// under Dir.
type Source struct {
	Dialect string
	FS      fs.FS
	Dir     string
}

// goose keeps its configuration in package globals.
var gooseMu sync.Mutex

// slogGooseLogger adapts the goose logger interface to use slog
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf implements goose.Logger by forwarding messages at info level.
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

// Fatalf implements goose.Logger. Unlike the standard behavior it does not
// exit; the error is returned to the caller instead.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

// Run executes a goose command against db.
func Run(ctx context.Context, db *sql.DB, src Source, command string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(
		slog.String("component", "migrations"),
		slog.String("dialect", src.Dialect),
		slog.String("command", command),
	)

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(src.FS)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(&slogGooseLogger{logger: log})
	goose.SetTableName(TableName)
	if err := goose.SetDialect(src.Dialect); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	var err error
	switch command {
	case CommandUp:
		err = goose.UpContext(ctx, db, src.Dir)
	case CommandDown:
		err = goose.DownContext(ctx, db, src.Dir)
	case CommandReset:
		err = goose.ResetContext(ctx, db, src.Dir)
	case CommandStatus:
		err = goose.StatusContext(ctx, db, src.Dir)
	case CommandVersion:
		err = goose.VersionContext(ctx, db, src.Dir)
	default:
		return fmt.Errorf(
			"unknown migration command: %s (expected up, down, reset, status, or version)",
			command,
		)
	}
	if err != nil {
		log.Error("migration command failed", slog.String("error", err.Error()))
		return fmt.Errorf("migration %s failed: %w", command, err)
	}

	log.Info("migration command completed")
	return nil
}

// Version returns the current schema version recorded in db.
func Version(ctx context.Context, db *sql.DB, src Source) (int64, error) {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetTableName(TableName)
	if err := goose.SetDialect(src.Dialect); err != nil {
		return 0, fmt.Errorf("failed to set dialect: %w", err)
	}
	return goose.GetDBVersionContext(ctx, db)
}
