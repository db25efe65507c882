package config

import "time"

// Config holds all configuration for the application
type Config struct {
	Environment string          `mapstructure:"environment"`
	Server      ServerConfig    `mapstructure:"server"`
	Database    DatabaseConfig  `mapstructure:"database"`
	Logger      LoggerConfig    `mapstructure:"logger"`
	Redis       RedisConfig     `mapstructure:"redis"`
	Kafka       KafkaConfig     `mapstructure:"kafka"`
	Outbox      OutboxConfig    `mapstructure:"outbox"`
	Ordering    OrderingConfig  `mapstructure:"ordering"`
	Claim       ClaimConfig     `mapstructure:"claim"`
	Analytics   AnalyticsConfig `mapstructure:"analytics"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"readTimeout"`       // seconds
	WriteTimeout      time.Duration `mapstructure:"writeTimeout"`      // seconds
	IdleTimeout       time.Duration `mapstructure:"idleTimeout"`       // seconds
	ReadHeaderTimeout time.Duration `mapstructure:"readHeaderTimeout"` // seconds
	ShutdownTimeout   time.Duration `mapstructure:"shutdownTimeout"`   // seconds
	SeedMenu          bool          `mapstructure:"seedMenu"`
}

// DatabaseConfig contains ledger store settings
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // postgres, mysql or memory
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"sslMode"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"` // minutes
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"` // minutes
	QueryTimeout    time.Duration `mapstructure:"queryTimeout"`    // seconds
	SlowQuery       time.Duration `mapstructure:"slowQuery"`       // milliseconds
	RetryAttempts   int           `mapstructure:"retryAttempts"`
	RetryDelay      time.Duration `mapstructure:"retryDelay"` // seconds
	SnapshotPath    string        `mapstructure:"snapshotPath"`
	Conflict        ConflictRetry `mapstructure:"conflict"`
}

// ConflictRetry controls how often an atomic unit is restarted after a store conflict
type ConflictRetry struct {
	MaxRetries    int           `mapstructure:"maxRetries"`
	RetryInterval time.Duration `mapstructure:"retryInterval"` // milliseconds
	MaxInterval   time.Duration `mapstructure:"maxInterval"`   // milliseconds
	JitterFactor  float64       `mapstructure:"jitterFactor"`
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // json or console
	Output     string `mapstructure:"output"`
	CallerInfo bool   `mapstructure:"callerInfo"`
}

// RedisConfig contains the scan lock server settings
type RedisConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	KeyPrefix   string        `mapstructure:"keyPrefix"`
	LockRetry   time.Duration `mapstructure:"lockRetry"` // milliseconds
	LockRetries int           `mapstructure:"lockRetries"`
	DialTimeout time.Duration `mapstructure:"dialTimeout"` // seconds
}

// KafkaConfig contains the event broker settings
type KafkaConfig struct {
	Enabled     bool     `mapstructure:"enabled"`
	Brokers     []string `mapstructure:"brokers"`
	ClientID    string   `mapstructure:"clientId"`
	TopicPrefix string   `mapstructure:"topicPrefix"`
}

// OutboxConfig contains the event relay settings
type OutboxConfig struct {
	PollInterval time.Duration `mapstructure:"pollInterval"` // milliseconds
	BatchSize    int           `mapstructure:"batchSize"`
	MaxRetries   int           `mapstructure:"maxRetries"`
}

// OrderingConfig contains order placement settings
type OrderingConfig struct {
	EnforceStock     bool `mapstructure:"enforceStock"`
	MaxItemsPerOrder int  `mapstructure:"maxItemsPerOrder"`
}

// ClaimConfig contains kiosk scan settings
type ClaimConfig struct {
	LockTTL       time.Duration `mapstructure:"lockTTL"`       // milliseconds
	RetryInterval time.Duration `mapstructure:"retryInterval"` // milliseconds
	MaxRetries    int           `mapstructure:"maxRetries"`
}

// AnalyticsConfig contains reporting settings
type AnalyticsConfig struct {
	Timezone string `mapstructure:"timezone"`
}

// IsProduction reports whether the production profile is active
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}
