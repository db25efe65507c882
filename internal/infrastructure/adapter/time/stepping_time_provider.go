package time

import (
	"context"
	"sync"
	"time"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
)

// SteppingTimeProvider is a deterministic clock: every call to Now returns the previous
// value advanced by a fixed step. It is safe for concurrent use.
type SteppingTimeProvider struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

// NewSteppingTimeProvider creates a clock starting at start
func NewSteppingTimeProvider(start time.Time, step time.Duration) *SteppingTimeProvider {
	return &SteppingTimeProvider{now: start, step: step}
}

// Now returns the current reading and advances the clock
func (p *SteppingTimeProvider) Now() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	current := p.now
	p.now = p.now.Add(p.step)
	return current
}

// Advance moves the clock forward by d
func (p *SteppingTimeProvider) Advance(d time.Duration) {
	p.mu.Lock()
	p.now = p.now.Add(d)
	p.mu.Unlock()
}

// Since returns the time elapsed since t on this clock
func (p *SteppingTimeProvider) Since(t time.Time) core.Duration {
	return core.Duration(p.peek().Sub(t))
}

// Until returns the duration until t on this clock
func (p *SteppingTimeProvider) Until(t time.Time) core.Duration {
	return core.Duration(t.Sub(p.peek()))
}

// Sleep advances the clock instead of blocking
func (p *SteppingTimeProvider) Sleep(d core.Duration) {
	p.Advance(d.Std())
}

// WithTimeout returns a context that will be canceled after the specified real timeout
func (p *SteppingTimeProvider) WithTimeout(ctx context.Context, timeout core.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout.Std())
}

// ParseDuration parses a duration string
func (p *SteppingTimeProvider) ParseDuration(s string) (core.Duration, error) {
	d, err := time.ParseDuration(s)
	return core.Duration(d), err
}

func (p *SteppingTimeProvider) peek() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.now
}
