package lock

import (
	"context"
	"fmt"
	"time"

	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// unlockScript deletes the key only while it still holds our token
const unlockScript = `
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`

// RedisConfig holds the connection settings of the lock server
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// RedisLocker takes locks with SET NX and releases them with a compare-and-delete script,
// so a holder whose lock expired never removes the next holder's lock
type RedisLocker struct {
	client *redis.Client
	prefix string
	opts   Options
	logger coreport.Logger
}

// NewRedisLocker creates a locker storing keys under prefix
func NewRedisLocker(client *redis.Client, prefix string, opts Options, logger coreport.Logger) *RedisLocker {
	return &RedisLocker{client: client, prefix: prefix, opts: opts, logger: logger}
}

// Acquire takes the lock for key, holding it for at most ttl
func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl coreport.Duration) (coreport.ReleaseFunc, error) {
	fullKey := l.prefix + key
	token := uuid.NewString()

	err := acquireWithRetry(ctx, fullKey, l.opts, l.logger, func(ctx context.Context) (bool, error) {
		return l.client.SetNX(ctx, fullKey, token, ttl.Std()).Result()
	})
	if err != nil {
		return nil, err
	}

	l.logger.Debug("Redis lock acquired", map[string]any{
		"lock_key": fullKey,
		"ttl":      time.Duration(ttl).String(),
	})

	return func(ctx context.Context) error {
		if _, err := l.client.Eval(ctx, unlockScript, []string{fullKey}, token).Result(); err != nil {
			l.logger.Error("Failed to release redis lock", map[string]any{
				"lock_key": fullKey,
				"error":    err.Error(),
			})
			return err
		}
		return nil
	}, nil
}
