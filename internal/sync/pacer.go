package sync

import (
	"context"
	"time"
)

// Pacer spaces consecutive remote calls so the cycle stays inside Shopify's
// published call quota.
type Pacer interface {
	Pace(ctx context.Context) error
}

// IntervalPacer blocks for a fixed interval between calls.
type IntervalPacer struct {
	ticks <-chan time.Time
}

// NewIntervalPacer creates a pacer that releases one call per interval.
func NewIntervalPacer(interval time.Duration) *IntervalPacer {
	if interval <= 0 {
		interval = time.Millisecond
	}
	return &IntervalPacer{ticks: time.Tick(interval)}
}

// Pace blocks until the next tick or until the context is done.
func (p *IntervalPacer) Pace(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ticks:
		return nil
	}
}

// NopPacer applies no delay. Used in tests and when pacing is disabled.
type NopPacer struct{}

func (NopPacer) Pace(context.Context) error { return nil }
