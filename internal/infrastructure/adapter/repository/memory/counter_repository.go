package memory

import (
	"context"
)

// CounterRepository implements persistence.CounterRepository on the memory store
type CounterRepository struct {
	store *Store
}

// Next increments the named counter and returns the new value
func (r *CounterRepository) Next(ctx context.Context, name string) (int64, error) {
	var next int64
	err := r.store.write(ctx, func(d *dataset) error {
		d.counters[name]++
		next = d.counters[name]
		return nil
	})
	return next, err
}

// Current returns the last value handed out
func (r *CounterRepository) Current(ctx context.Context, name string) (int64, error) {
	var current int64
	err := r.store.read(ctx, func(d *dataset) error {
		current = d.counters[name]
		return nil
	})
	return current, err
}
