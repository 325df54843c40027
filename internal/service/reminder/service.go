package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/donelist/donelist-api/internal/domain"
	"github.com/donelist/donelist-api/internal/platform/logger"
	"github.com/donelist/donelist-api/internal/store"
)

// Strategy selects how reminders are triggered.
type Strategy string

// Supported trigger strategies.
const (
	// StrategyPoll sweeps the store for due reminders on an interval, via
	// the in-process Poller or the cron-binding endpoint.
	StrategyPoll Strategy = "poll"

	// StrategyOneShot schedules one job per reminder at creation time and
	// relies on the scheduler calling back at the exact target time.
	StrategyOneShot Strategy = "oneshot"
)

// IsValid reports whether the strategy is one of the recognized values.
func (s Strategy) IsValid() bool {
	return s == StrategyPoll || s == StrategyOneShot
}

// Publisher publishes a ReminderDue event. Best effort; satisfied by
// events.Bus.
type Publisher interface {
	PublishReminderDue(ctx context.Context, task *domain.Task, dueAt time.Time) bool
}

// Service runs the polling pass over due reminders.
type Service struct {
	tasks     store.TaskStore
	publisher Publisher
	now       func() time.Time
	logger    *slog.Logger
}

// NewService creates a reminder Service. If logger is nil, a default logger
// will be used.
func NewService(tasks store.TaskStore, publisher Publisher, logger *slog.Logger) *Service {
	if tasks == nil {
		panic("tasks cannot be nil")
	}
	if publisher == nil {
		panic("publisher cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		tasks:     tasks,
		publisher: publisher,
		now:       time.Now,
		logger:    logger.With(slog.String("component", "reminder_service")),
	}
}

// ProcessDue runs one sweep: every incomplete task whose reminder time has
// passed gets a ReminderDue event published and its reminder cleared. The
// clear commits per task regardless of the publish outcome, so a reminder
// fires at most once per setting — a crash between publish and clear is the
// only source of a duplicate. Returns the number of reminders processed.
func (s *Service) ProcessDue(ctx context.Context) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now().UTC()

	due, err := s.tasks.DueReminders(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("listing due reminders: %w", err)
	}

	processed := 0
	for _, task := range due {
		dueAt := now
		if task.ReminderAt != nil {
			dueAt = *task.ReminderAt
		}

		delivered := s.publisher.PublishReminderDue(ctx, task, dueAt)
		if !delivered {
			log.Warn("reminder publish failed, clearing anyway",
				slog.Int64("task_id", task.ID),
				slog.String("user_id", task.UserID))
		}

		if err := s.tasks.ClearReminder(ctx, task.ID); err != nil {
			log.Error("failed to clear reminder",
				slog.Int64("task_id", task.ID),
				slog.String("error", err.Error()))
			continue
		}

		processed++
	}

	if processed > 0 {
		log.Info("reminder sweep finished",
			slog.Int("processed", processed),
			slog.Int("due", len(due)))
	}

	return processed, nil
}
