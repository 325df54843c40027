package reminder

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const defaultPollInterval = 60 * time.Second

// Poller runs the reminder sweep on a fixed interval. It is the in-process
// fallback for deployments without a cron binding pointed at the trigger
// endpoint; running both doubles the sweep frequency but not the reminders,
// because each sweep clears what it fires.
type Poller struct {
	service    *Service
	interval   time.Duration
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	logger     *slog.Logger
}

// NewPoller creates a Poller sweeping at the given interval. A zero or
// negative interval falls back to the default of one minute.
func NewPoller(service *Service, interval time.Duration, logger *slog.Logger) *Poller {
	if service == nil {
		panic("service cannot be nil")
	}
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Poller{
		service:    service,
		interval:   interval,
		ctx:        ctx,
		cancelFunc: cancel,
		logger:     logger.With(slog.String("component", "reminder_poller")),
	}
}

// Start launches the background sweep loop. The first sweep happens one
// interval after Start, not immediately.
func (p *Poller) Start() {
	p.wg.Add(1)
	go p.run()

	p.logger.Info("reminder poller started",
		slog.Duration("interval", p.interval))
}

// Stop cancels the loop and waits for an in-flight sweep to finish.
func (p *Poller) Stop() {
	p.cancelFunc()
	p.wg.Wait()

	p.logger.Info("reminder poller stopped")
}

func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return

		case <-ticker.C:
			if _, err := p.service.ProcessDue(p.ctx); err != nil {
				p.logger.Error("reminder sweep failed",
					slog.String("error", err.Error()))
			}
		}
	}
}
