// Package ratelimit paces outbound requests so remote logo hosts are not
// hammered.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer enforces a fixed pause between events. Unlike a plain token bucket,
// the very first Wait also blocks for a full interval, which matches a
// pause-after-every-record loop.
type Pacer struct {
	limiter *rate.Limiter
}

// NewPacer returns a Pacer whose Wait blocks for the given interval. A
// non-positive interval disables pacing, which keeps tests fast.
func NewPacer(interval time.Duration) *Pacer {
	l := rate.NewLimiter(rate.Every(interval), 1)

	// Drain the initial token so the first Wait blocks like the rest.
	l.Allow()

	return &Pacer{limiter: l}
}

// Wait blocks until the interval has elapsed or the context is canceled.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}
