package sync

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Scheduler owns one interval timer for an engine's auto-sync. Starting while
// already running replaces the timer instead of stacking a second one, so at
// most one timer per entity type is ever active.
type Scheduler struct {
	interval time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewScheduler creates a stopped scheduler.
func NewScheduler(interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{interval: interval, logger: logger}
}

// Start begins invoking run on every tick. Any previously running timer is
// cancelled first.
func (s *Scheduler) Start(run func(ctx context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.logger.Info("auto-sync enabled", "interval", s.interval)
	go s.loop(ctx, run)
}

// Stop cancels the running timer, if any.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
		s.logger.Info("auto-sync disabled")
	}
}

// Active reports whether a timer is currently running.
func (s *Scheduler) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

func (s *Scheduler) loop(ctx context.Context, run func(ctx context.Context)) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
			run(runCtx)
			cancel()
		}
	}
}
