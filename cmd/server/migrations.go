package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"

	"github.com/donelist/donelist-api/internal/platform/postgres"
)

// runMigrations applies the embedded goose migrations, bringing the schema
// up to date on startup. Safe to run repeatedly; goose skips applied
// versions.
func runMigrations(db *sql.DB, logger *slog.Logger) error {
	goose.SetBaseFS(postgres.MigrationsFS)
	goose.SetLogger(&slogGooseLogger{logger: logger})

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.Up(db, postgres.MigrationsDir); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	logger.Info("database migrations applied")
	return nil
}

// slogGooseLogger adapts goose's logger interface onto slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...))
}
