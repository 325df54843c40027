package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/donelist/donelist-api/internal/api"
	"github.com/donelist/donelist-api/internal/config"
	"github.com/donelist/donelist-api/internal/events"
	"github.com/donelist/donelist-api/internal/platform/dapr"
	"github.com/donelist/donelist-api/internal/platform/gemini"
	"github.com/donelist/donelist-api/internal/platform/postgres"
	"github.com/donelist/donelist-api/internal/service"
	"github.com/donelist/donelist-api/internal/service/auth"
	"github.com/donelist/donelist-api/internal/service/lifecycle"
	"github.com/donelist/donelist-api/internal/service/reminder"
)

// application bundles the wired-up dependencies of the running server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	jwtService auth.JWTService

	taskHandler  *api.TaskHandler
	tagHandler   *api.TagHandler
	chatHandler  *api.ChatHandler
	eventHandler *api.EventHandler

	// poller is non-nil only under the polling reminder strategy.
	poller *reminder.Poller
}

// newApplication wires every component: sidecar client, secrets, database,
// stores, event bus, services and handlers. Secrets missing from the Dapr
// secret store fall back to environment variables, so the server also runs
// without a sidecar-managed secret store in local development.
func newApplication(cfg *config.Config) (*application, error) {
	log := slog.Default()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	daprClient := dapr.NewClient(
		fmt.Sprintf("http://localhost:%d", cfg.Dapr.HTTPPort),
		cfg.Dapr.PubSubName,
		cfg.Dapr.SecretStore,
		time.Duration(cfg.Dapr.TimeoutSeconds)*time.Second,
		log,
	)

	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = daprClient.SecretOrEnv(ctx, "JWT_SECRET")
	}
	if cfg.LLM.GeminiAPIKey == "" {
		cfg.LLM.GeminiAPIKey = daprClient.SecretOrEnv(ctx, "GEMINI_API_KEY")
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	db, err := setupDatabase(cfg, log)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(db, log); err != nil {
		return nil, err
	}

	taskStore := postgres.NewPostgresTaskStore(db, log)
	tagStore := postgres.NewPostgresTagStore(db, log)
	conversationStore := postgres.NewPostgresConversationStore(db, log)

	bus := events.NewBus(daprClient, log)

	// Under the one-shot strategy the task service keeps a scheduler job in
	// step with every reminder; under polling the sweep finds them itself.
	var scheduler service.ReminderScheduler
	if reminder.Strategy(cfg.Reminder.Strategy) == reminder.StrategyOneShot {
		scheduler = daprClient
	}

	taskService := service.NewTaskService(db, taskStore, bus, scheduler, log)

	provider, err := gemini.NewProvider(ctx, log, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create completion provider: %w", err)
	}

	chatService := service.NewChatService(conversationStore, provider, taskService, log)

	engine := lifecycle.NewEngine(taskService, bus, daprClient, log)
	reminderService := reminder.NewService(taskStore, bus, log)

	app := &application{
		config:       cfg,
		logger:       log,
		db:           db,
		jwtService:   jwtService,
		taskHandler:  api.NewTaskHandler(taskService, log),
		tagHandler:   api.NewTagHandler(tagStore, log),
		chatHandler:  api.NewChatHandler(chatService, log),
		eventHandler: api.NewEventHandler(engine, reminderService, cfg.Dapr.PubSubName, log),
	}

	if reminder.Strategy(cfg.Reminder.Strategy) == reminder.StrategyPoll {
		app.poller = reminder.NewPoller(
			reminderService,
			time.Duration(cfg.Reminder.PollIntervalSeconds)*time.Second,
			log,
		)
	}

	return app, nil
}

// cleanup releases the application's long-lived resources.
func (app *application) cleanup() {
	if app.poller != nil {
		app.poller.Stop()
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", "error", err)
		}
	}
}
