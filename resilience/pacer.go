package resilience

import (
	"context"
	"sync"
	"time"
)

// Pacer enforces a minimum gap between successive actions. Remote job
// submissions go through a Pacer so that timestamp-derived job names can
// never collide, even when the calls themselves return faster than the
// clock resolution.
type Pacer struct {
	mu   sync.Mutex
	gap  time.Duration
	next time.Time
}

// NewPacer creates a pacer with the given minimum gap between actions.
// A zero or negative gap yields a pacer that never blocks.
func NewPacer(gap time.Duration) *Pacer {
	if gap < 0 {
		gap = 0
	}
	return &Pacer{gap: gap}
}

// Wait blocks until the minimum gap since the previous action has elapsed
// or the context is cancelled. The first call never blocks. Turns are handed
// out strictly in call order.
func (p *Pacer) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if p.gap <= 0 {
		return nil
	}

	p.mu.Lock()
	now := time.Now()
	wait := p.next.Sub(now)
	if wait < 0 {
		wait = 0
	}
	p.next = now.Add(wait + p.gap)
	p.mu.Unlock()

	if wait == 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Gap returns the configured minimum gap.
func (p *Pacer) Gap() time.Duration {
	return p.gap
}
