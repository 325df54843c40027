// Package main implements the entry point for the donelist API server:
// a todo backend with a conversational agent, an event-driven task
// lifecycle pipeline and scheduled reminders, all speaking to the outside
// world through a Dapr sidecar.
package main

import (
	"fmt"
	"log"
	"log/slog"

	"github.com/donelist/donelist-api/internal/config"
	"github.com/donelist/donelist-api/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if _, err := logger.Setup(cfg.Server.LogLevel); err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"reminder_strategy", cfg.Reminder.Strategy)

	app, err := newApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.serve()
}
