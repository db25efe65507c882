package lock

import (
	"context"
	"sync"
	"time"

	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
	"github.com/google/uuid"
)

type localEntry struct {
	owner     string
	expiresAt time.Time
}

// LocalLocker is an in-process locker for a single kiosk running on the memory store
type LocalLocker struct {
	mu           sync.Mutex
	held         map[string]localEntry
	opts         Options
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewLocalLocker creates an in-process locker
func NewLocalLocker(opts Options, timeProvider coreport.TimeProvider, logger coreport.Logger) *LocalLocker {
	return &LocalLocker{
		held:         make(map[string]localEntry),
		opts:         opts,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Acquire takes the lock for key, holding it for at most ttl
func (l *LocalLocker) Acquire(ctx context.Context, key string, ttl coreport.Duration) (coreport.ReleaseFunc, error) {
	owner := uuid.NewString()
	err := acquireWithRetry(ctx, key, l.opts, l.logger, func(context.Context) (bool, error) {
		return l.tryAcquire(key, owner, ttl), nil
	})
	if err != nil {
		return nil, err
	}

	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		if entry, ok := l.held[key]; ok && entry.owner == owner {
			delete(l.held, key)
		}
		return nil
	}, nil
}

func (l *LocalLocker) tryAcquire(key, owner string, ttl coreport.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.timeProvider.Now()
	if entry, ok := l.held[key]; ok && now.Before(entry.expiresAt) {
		return false
	}
	l.held[key] = localEntry{owner: owner, expiresAt: now.Add(ttl.Std())}
	return true
}
