package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/config"
	"github.com/phrazzld/tasktrack-api/internal/platform/postgres"
	"github.com/phrazzld/tasktrack-api/internal/redact"
	"github.com/pressly/goose/v3"
)

const migrationTableName = "schema_migrations"

// ErrUnknownMigrationCommand is returned for a -migrate value goose does not support.
var ErrUnknownMigrationCommand = errors.New(
	"unknown migration command (expected up, down, reset, status, version, or create)",
)

// slogGooseLogger adapts goose's logger interface to slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

func (l *slogGooseLogger) Printf(format string, v ...any) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

// Fatalf logs at error level without exiting; the error reaches main through
// the returned value.
func (l *slogGooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error(redact.String(fmt.Sprintf(format, v...)))
}

// runMigrations opens a short-lived connection and executes a single goose
// command against it.
func runMigrations(
	ctx context.Context,
	cfg *config.Config,
	log *slog.Logger,
	command, name string,
	verbose bool,
) error {
	if !isMigrationCommand(command) {
		return fmt.Errorf("%w: %q", ErrUnknownMigrationCommand, command)
	}
	if command == "create" && name == "" {
		return fmt.Errorf("migration name is required for 'create' command")
	}

	db, err := setupAppDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database connection", redact.ErrorAttr(err))
		}
	}()

	return applyMigrations(ctx, db, log, command, name, verbose)
}

// applyMigrations runs command against db. Every command except create reads
// the migrations embedded in the binary; create writes a new numbered file
// into the source tree and must run from the repository root.
func applyMigrations(
	ctx context.Context,
	db *sql.DB,
	log *slog.Logger,
	command, name string,
	verbose bool,
) error {
	migrationLog := log.With(
		"correlation_id", uuid.NewString(),
		"component", "migrations",
		"command", command,
	)
	start := time.Now()

	goose.SetLogger(&slogGooseLogger{logger: migrationLog})
	goose.SetVerbose(verbose)
	goose.SetTableName(migrationTableName)
	goose.SetSequential(true)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	dir := "."
	if command == "create" {
		goose.SetBaseFS(nil)
		dir = postgres.MigrationsDir
	} else {
		goose.SetBaseFS(postgres.MigrationsFS())
		defer goose.SetBaseFS(nil)
	}

	var err error
	switch command {
	case "up":
		err = goose.UpContext(ctx, db, dir)
	case "down":
		err = goose.DownContext(ctx, db, dir)
	case "reset":
		err = goose.ResetContext(ctx, db, dir)
	case "status":
		err = goose.StatusContext(ctx, db, dir)
	case "version":
		err = goose.VersionContext(ctx, db, dir)
	case "create":
		err = goose.Create(db, dir, name, "sql")
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMigrationCommand, command)
	}

	if err != nil {
		migrationLog.Error("Migration command failed",
			redact.ErrorAttr(err),
			"duration_ms", time.Since(start).Milliseconds())
		return fmt.Errorf("migration %s failed: %w", command, err)
	}

	migrationLog.Info("Migration command completed",
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

func isMigrationCommand(command string) bool {
	switch command {
	case "up", "down", "reset", "status", "version", "create":
		return true
	}
	return false
}
