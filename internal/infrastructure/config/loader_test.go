package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
server:
  port: 9090
  shutdownTimeout: 3
database:
  driver: memory
  snapshotPath: /tmp/canteen.json
  conflict:
    maxRetries: 7
logger:
  level: debug
kafka:
  brokers:
    - broker-1:9092
claim:
  lockTTL: 2500
analytics:
  timezone: Asia/Manila
`

func useConfigDir(t *testing.T, env, content string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, env+".yaml"), []byte(content), 0o600))

	oldPaths, oldDotEnv := ConfigPaths, DotEnvPaths
	ConfigPaths = []string{dir}
	DotEnvPaths = []string{filepath.Join(dir, "missing.env")}
	t.Cleanup(func() {
		ConfigPaths, DotEnvPaths = oldPaths, oldDotEnv
	})
	t.Setenv("CW_ENV", env)
}

func TestLoadConfig(t *testing.T) {
	t.Run("File values, defaults and durations", func(t *testing.T) {
		useConfigDir(t, Test, testYAML)

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, Test, cfg.Environment)
		assert.False(t, cfg.IsProduction())
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
		assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, "memory", cfg.Database.Driver)
		assert.Equal(t, "/tmp/canteen.json", cfg.Database.SnapshotPath)
		assert.Equal(t, 7, cfg.Database.Conflict.MaxRetries)
		assert.Equal(t, 20*time.Millisecond, cfg.Database.Conflict.RetryInterval)
		assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)
		assert.Equal(t, "debug", cfg.Logger.Level)
		assert.Equal(t, []string{"broker-1:9092"}, cfg.Kafka.Brokers)
		assert.Equal(t, 2500*time.Millisecond, cfg.Claim.LockTTL)
		assert.Equal(t, time.Second, cfg.Outbox.PollInterval)
		assert.True(t, cfg.Ordering.EnforceStock)
		assert.Equal(t, 20, cfg.Ordering.MaxItemsPerOrder)
		assert.Equal(t, "Asia/Manila", cfg.Analytics.Timezone)
	})

	t.Run("Environment overrides the file", func(t *testing.T) {
		useConfigDir(t, Test, testYAML)
		t.Setenv("CW_DB_DRIVER", "mysql")
		t.Setenv("CW_DB_HOST", "db.internal")
		t.Setenv("CW_REDIS_ENABLED", "true")
		t.Setenv("CW_KAFKA_BROKERS", "k1:9092, k2:9092")
		t.Setenv("CW_ORDERING_ENFORCE_STOCK", "false")

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, "mysql", cfg.Database.Driver)
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.True(t, cfg.Redis.Enabled)
		assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
		assert.False(t, cfg.Ordering.EnforceStock)
	})

	t.Run("Missing file", func(t *testing.T) {
		useConfigDir(t, Test, testYAML)
		t.Setenv("CW_ENV", "staging")

		_, err := LoadConfig()
		assert.Error(t, err)
	})
}
