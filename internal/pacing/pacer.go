// Package pacing models the quiet period between scheduled work items as an
// explicit policy so tests can substitute it.
package pacing

import (
	"context"
	"time"
)

// Pacer blocks until the next work item is allowed to start.
type Pacer interface {
	Wait(ctx context.Context) error
}

// FixedDelay waits a full wall-clock interval from the moment Wait is called.
// The delay is an anti-detection measure: it applies after each item finishes,
// regardless of how long the item's own fetching took.
type FixedDelay struct {
	delay time.Duration
}

func NewFixedDelay(delay time.Duration) *FixedDelay {
	return &FixedDelay{delay: delay}
}

func (p *FixedDelay) Wait(ctx context.Context) error {
	timer := time.NewTimer(p.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
