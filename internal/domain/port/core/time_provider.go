package core

import (
	"context"
	"time"
)

// Duration is the domain's time span, so ports do not leak time.Duration semantics
type Duration time.Duration

// Duration units
const (
	Nanosecond  Duration = Duration(time.Nanosecond)
	Microsecond          = Duration(time.Microsecond)
	Millisecond          = Duration(time.Millisecond)
	Second               = Duration(time.Second)
	Minute               = Duration(time.Minute)
	Hour                 = Duration(time.Hour)
)

// Std converts d to a time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// TimeProvider is the clock every entity timestamp comes from.
// Order times, top-up decisions and scan lock expiry all read Now.
type TimeProvider interface {
	Now() time.Time
	Since(t time.Time) Duration
	Until(t time.Time) Duration
	Sleep(d Duration)
	WithTimeout(ctx context.Context, timeout Duration) (context.Context, context.CancelFunc)
	ParseDuration(s string) (Duration, error)
}
