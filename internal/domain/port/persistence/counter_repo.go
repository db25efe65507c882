package persistence

import "context"

// CounterRepository hands out monotonically increasing sequence numbers
type CounterRepository interface {
	// Next increments the named counter and returns the new value.
	// A counter that does not exist yet starts from 0, so the first value is 1.
	// The increment belongs to the caller's unit.
	Next(ctx context.Context, name string) (int64, error)

	// Current returns the last value handed out, 0 when none
	Current(ctx context.Context, name string) (int64, error)
}
