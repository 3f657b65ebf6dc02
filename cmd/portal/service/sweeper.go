package service

import (
	"context"
	"time"

	"github.com/aviaunion/portal/common/logger"
)

// Sweeper periodically concludes approved delegations whose event has
// passed, restoring the delegator's vote weight instead of leaving stale
// ledger fields behind
type Sweeper struct {
	delegations *DelegationService
	log         *logger.Logger
	interval    time.Duration
}

// NewSweeper creates a new delegation sweeper
func NewSweeper(delegations *DelegationService, log *logger.Logger, interval time.Duration) *Sweeper {
	return &Sweeper{
		delegations: delegations,
		log:         log,
		interval:    interval,
	}
}

// Start runs the sweeper until ctx is cancelled
func (s *Sweeper) Start(ctx context.Context) error {
	s.log.Info("delegation sweeper starting", "interval", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("delegation sweeper shutting down")
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.delegations.ConcludePassed(ctx, time.Now().UTC()); err != nil {
				s.log.Error("delegation sweep failed", "error", err)
			}
		}
	}
}
