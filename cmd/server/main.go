// Package main implements the entry point for the tasktrack API server,
// which serves user registration, JWT login and task management over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/phrazzld/tasktrack-api/internal/config"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/phrazzld/tasktrack-api/internal/redact"
)

// main loads configuration, sets up logging and then either runs a migration
// command or starts the HTTP server.
func main() {
	migrateCmd := flag.String("migrate", "", "Run database migrations: up, down, reset, status, version, create")
	migrationName := flag.String("name", "", "Name for the new migration file (used with -migrate=create)")
	verbose := flag.Bool("verbose", false, "Enable verbose logging for migrations")
	flag.Parse()

	if err := run(context.Background(), *migrateCmd, *migrationName, *verbose); err != nil {
		slog.Error("Server exited with error", redact.ErrorAttr(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, migrateCmd, migrationName string, verbose bool) error {
	cfg, log, err := initializeApp()
	if err != nil {
		return err
	}

	if migrateCmd != "" {
		return runMigrations(ctx, cfg, log, migrateCmd, migrationName, verbose)
	}

	db, err := setupAppDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}

	if cfg.Database.AutoMigrate {
		if err := applyMigrations(ctx, db, log, "up", "", false); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to apply migrations on startup: %w", err)
		}
	}

	app, err := newApplication(cfg, log, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}

// initializeApp loads configuration and sets up structured logging.
func initializeApp() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"auto_migrate", cfg.Database.AutoMigrate)
	log.Debug("Auth configuration",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes,
		"refresh_token_lifetime_minutes", cfg.Auth.RefreshTokenLifetimeMinutes,
		"bcrypt_cost", cfg.Auth.BcryptCost)

	return cfg, log, nil
}
