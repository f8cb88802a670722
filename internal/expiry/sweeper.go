// Package expiry runs a background sweeper that deletes plays whose TTL
// has passed.
package expiry

import (
	"context"
	"time"

	"github.com/moldovancsaba/narimato-sub003/internal/logger"
	"github.com/moldovancsaba/narimato-sub003/internal/store"

	"go.uber.org/zap"
)

// Sweeper periodically deletes plays past their expiresAt.
type Sweeper struct {
	plays    store.PlayStore
	interval time.Duration
	stop     chan struct{}
}

// NewSweeper builds a Sweeper that checks for expired plays every
// interval.
func NewSweeper(plays store.PlayStore, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Sweeper{plays: plays, interval: interval, stop: make(chan struct{})}
}

// Run blocks, sweeping on a ticker until ctx is cancelled or Stop is
// called.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
			_, _ = s.SweepOnce(ctx)
		}
	}
}

// Stop halts a running sweeper.
func (s *Sweeper) Stop() {
	close(s.stop)
}

// SweepOnce deletes every play whose expiresAt has passed, except plays
// already completed or marked expired, and returns how many it removed. Exported so both the ticker-driven Run loop and
// an on-demand caller (the HTTP expire-plays endpoint) share the same
// sweep logic.
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	expired, err := s.plays.ListExpired(ctx, time.Now())
	if err != nil {
		logger.Error("expiry sweep failed to list expired plays", zap.Error(err))
		return 0, err
	}

	deleted := 0
	for _, p := range expired {
		if err := s.plays.Delete(ctx, p.PlayID); err != nil {
			logger.Error("expiry sweep failed to delete play", zap.String("play_id", p.PlayID), zap.Error(err))
			continue
		}
		deleted++
	}

	if deleted > 0 {
		logger.Info("expiry sweep completed", zap.Int("deleted", deleted))
	}
	return deleted, nil
}
