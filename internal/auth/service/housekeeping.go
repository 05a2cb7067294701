package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/taskbridge/taskbridge/internal/auth/store"
	"github.com/taskbridge/taskbridge/pkg/revoke"
)

// HousekeepingService periodically drops state that only expiry makes
// garbage: revoked tokens past their natural lifetime and stale
// password-reset windows.
type HousekeepingService struct {
	Store       store.Store
	Revocations *revoke.Registry
	Logger      *slog.Logger
	Interval    time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service with the given
// interval. If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(store store.Store, revocations *revoke.Registry, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:       store,
		Revocations: revocations,
		Logger:      logger,
		Interval:    interval,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop() to
// gracefully shut the worker down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop shuts down the background worker. Blocks until any in-progress
// cleanup has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// cleanup runs each sweep independently; a failure in one does not stop
// the others.
func (s *HousekeepingService) cleanup() {
	ctx := context.Background()
	now := time.Now().UTC()

	swept := s.Revocations.Sweep(now)
	if swept > 0 {
		s.Logger.Debug("swept expired revocations", "count", swept)
	}

	cleared, err := s.Store.Accounts().DeleteExpiredResetTokens(ctx, now)
	if err != nil {
		s.Logger.Error("failed to clear expired reset tokens", "error", err)
	} else if cleared > 0 {
		s.Logger.Debug("cleared expired reset tokens", "count", cleared)
	}

	s.Logger.Info("housekeeping cleanup completed", "revocations_swept", swept, "reset_tokens_cleared", cleared)
}
