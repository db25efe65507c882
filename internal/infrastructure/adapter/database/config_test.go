package database

import (
	"testing"
	"time"

	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPostgresConfig() *Config {
	c := DefaultConfig()
	c.Host = "localhost"
	c.Username = "canteen"
	c.Password = "secret"
	c.Database = "canteen"
	return c
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, validPostgresConfig().Validate())

	memory := DefaultConfig()
	memory.Driver = DriverMemory
	assert.NoError(t, memory.Validate(), "memory store needs no connection settings")

	testCases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"Unknown driver", func(c *Config) { c.Driver = "sqlite" }},
		{"Missing host", func(c *Config) { c.Host = "" }},
		{"Bad port", func(c *Config) { c.Port = 70000 }},
		{"Missing password", func(c *Config) { c.Password = "" }},
		{"Bad SSL mode", func(c *Config) { c.SSLMode = "sometimes" }},
		{"No connections", func(c *Config) { c.MaxOpenConns = 0 }},
		{"No timeout", func(c *Config) { c.QueryTimeout = 0 }},
		{"Bad log level", func(c *Config) { c.LogLevel = "trace" }},
		{"Bad retry policy", func(c *Config) { c.Retry.MaxRetries = 0 }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := validPostgresConfig()
			tc.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestConfigDSN(t *testing.T) {
	postgres := validPostgresConfig()
	assert.Equal(t, "host=localhost port=5432 user=canteen password=secret dbname=canteen sslmode=disable TimeZone=UTC", postgres.DSN())

	mysql := validPostgresConfig()
	mysql.Driver = DriverMySQL
	mysql.Port = 3306
	dsn := mysql.DSN()
	assert.Contains(t, dsn, "canteen:secret@tcp(localhost:3306)/canteen?")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "clientFoundRows=true")
}

func TestCreateConfigFromAppConfig(t *testing.T) {
	appConfig := &config.Config{
		Database: config.DatabaseConfig{
			Driver:       "mysql",
			Host:         "db",
			Port:         "3306",
			Username:     "u",
			Password:     "p",
			Database:     "canteen",
			MaxOpenConns: 10,
			QueryTimeout: 3 * time.Second,
			Conflict: config.ConflictRetry{
				MaxRetries:    9,
				RetryInterval: 5 * time.Millisecond,
			},
		},
		Logger: config.LoggerConfig{Level: "warn"},
	}

	c := CreateConfigFromAppConfig(appConfig)

	assert.Equal(t, DriverMySQL, c.Driver)
	assert.Equal(t, 3306, c.Port)
	assert.Equal(t, 10, c.MaxOpenConns)
	assert.Equal(t, 25, c.MaxIdleConns, "unset values keep their defaults")
	assert.Equal(t, 3*time.Second, c.QueryTimeout)
	assert.Equal(t, "warn", c.LogLevel)
	assert.Equal(t, 9, c.Retry.MaxRetries)
	assert.Equal(t, 5*time.Millisecond, c.Retry.RetryInterval)
	assert.Equal(t, DefaultRetryConfig().MaxInterval, c.Retry.MaxInterval)
	assert.NoError(t, c.Validate())

	assert.Equal(t, 0, ParsePort("not-a-port"))
	assert.Equal(t, 5432, ParsePort("5432"))
}
