package database

import (
	"errors"
	"fmt"
	"time"
)

// Supported drivers
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverMemory   = "memory"
)

// Config represents database configuration
type Config struct {
	Driver          string
	Host            string
	Port            int
	Username        string
	Password        string
	Database        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	QueryTimeout    time.Duration
	SlowQuery       time.Duration
	LogLevel        string
	RetryAttempts   int
	RetryDelay      time.Duration
	SnapshotPath    string // memory driver only
	Retry           RetryConfig
}

// DefaultConfig returns a Config with default values.
// Credentials are never defaulted.
func DefaultConfig() *Config {
	return &Config{
		Driver:          DriverPostgres,
		Port:            5432,
		SSLMode:         "disable",
		MaxOpenConns:    25,
		MaxIdleConns:    25,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 5 * time.Minute,
		QueryTimeout:    10 * time.Second,
		SlowQuery:       200 * time.Millisecond,
		LogLevel:        "info",
		RetryAttempts:   3,
		RetryDelay:      5 * time.Second,
		Retry:           DefaultRetryConfig(),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverMemory:
		return c.Retry.Validate()
	case DriverPostgres, DriverMySQL:
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Driver)
	}

	if c.Host == "" {
		return errors.New("database host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port number: %d", c.Port)
	}
	if c.Username == "" {
		return errors.New("database username is required")
	}
	if c.Password == "" {
		return errors.New("database password is required")
	}
	if c.Database == "" {
		return errors.New("database name is required")
	}

	if c.Driver == DriverPostgres {
		validSSLModes := map[string]bool{
			"disable":     true,
			"require":     true,
			"verify-ca":   true,
			"verify-full": true,
			"prefer":      true,
		}
		if !validSSLModes[c.SSLMode] {
			return fmt.Errorf("invalid SSL mode: %s", c.SSLMode)
		}
	}

	if c.MaxOpenConns <= 0 {
		return fmt.Errorf("max open connections must be positive, got: %d", c.MaxOpenConns)
	}
	if c.MaxIdleConns <= 0 {
		return fmt.Errorf("max idle connections must be positive, got: %d", c.MaxIdleConns)
	}
	if c.QueryTimeout <= 0 {
		return errors.New("query timeout must be positive")
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("connect attempts must be at least 1, got: %d", c.RetryAttempts)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("retry delay must be non-negative, got: %s", c.RetryDelay)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	return c.Retry.Validate()
}

// DSN returns the database connection string for the configured driver
func (c *Config) DSN() string {
	if c.Driver == DriverMySQL {
		// clientFoundRows makes RowsAffected count matched rows, which conditional updates rely on
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true",
			c.Username, c.Password, c.Host, c.Port, c.Database,
		)
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		c.Host, c.Port, c.Username, c.Password, c.Database, c.SSLMode,
	)
}

// WithMaxOpenConnections returns a copy of the config with updated max open connections
func (c *Config) WithMaxOpenConnections(max int) *Config {
	newConfig := *c
	newConfig.MaxOpenConns = max
	return &newConfig
}

// WithQueryTimeout returns a copy of the config with updated query timeout
func (c *Config) WithQueryTimeout(timeout time.Duration) *Config {
	newConfig := *c
	newConfig.QueryTimeout = timeout
	return &newConfig
}
