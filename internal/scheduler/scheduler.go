package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/piserverstatus/piserverstatusd/internal/statusd"
)

// Scheduler periodically runs the display cycle. Weather refresh cadence is
// not scheduled here; the cached source refreshes itself when its TTL lapses
// during a cycle.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *statusd.Service
	interval  time.Duration
	logger    *zap.Logger
}

// New creates a Scheduler running the cycle at the given interval.
func New(service *statusd.Service, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the periodic cycle and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	seconds := int(s.interval.Seconds())
	if seconds <= 0 {
		seconds = 15
	}

	// One run at a time; a cycle blocked on a slow provider fetch must not
	// pile up behind itself.
	s.scheduler.SingletonModeAll()

	_, err := s.scheduler.Every(seconds).Seconds().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.interval)
		defer cancel()

		s.logger.Debug("running display cycle")
		s.service.RunCycle(ctx)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future runs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
