package core

// scheduler.go keeps the snapshot fresh in the background.
//
// The scheduler is long-running and context-aware for graceful shutdown.
// A failed refresh is logged and retried on the next tick; it never stops
// the loop.

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// StartRefreshScheduler refreshes immediately, then every interval, until
// ctx is cancelled. It blocks; run it in its own goroutine. A non-positive
// interval performs the initial refresh only.
func (s *Service) StartRefreshScheduler(ctx context.Context, interval time.Duration) {
	slog.Info("refresh scheduler started", "interval", interval.String(), "source", s.fetcher.Source())

	s.runScheduledRefresh(ctx, TriggerStartup)

	if interval <= 0 {
		slog.Info("refresh scheduler disabled after initial refresh")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("refresh scheduler stopped")
			return
		case <-ticker.C:
			s.runScheduledRefresh(ctx, TriggerScheduled)
		}
	}
}

// runScheduledRefresh performs one refresh. Errors are already logged with
// run context by Refresh; only the outcome code is added here.
func (s *Service) runScheduledRefresh(ctx context.Context, trigger string) {
	if _, err := s.Refresh(ctx, trigger); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		slog.Warn("scheduled refresh did not update snapshot", "trigger", trigger, "code", MapError(err).Code)
	}
}
