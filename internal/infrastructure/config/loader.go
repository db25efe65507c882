package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment constants
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// EnvPrefix is the prefix of every environment override
const EnvPrefix = "CW"

// ConfigPaths defines the paths to look for config files
var ConfigPaths = []string{
	"./configs",
	"../configs",
	"../../configs",
}

// DotEnvPaths defines the paths to look for .env files
var DotEnvPaths = []string{
	".env",
	"../.env",
	"../../.env",
	"./configs/.env",
	"../configs/.env",
}

// envBindings maps overridable keys to their environment variables
var envBindings = map[string]string{
	"server.host":           "CW_SERVER_HOST",
	"server.port":           "CW_SERVER_PORT",
	"server.seedMenu":       "CW_SERVER_SEED_MENU",
	"database.driver":       "CW_DB_DRIVER",
	"database.host":         "CW_DB_HOST",
	"database.port":         "CW_DB_PORT",
	"database.username":     "CW_DB_USERNAME",
	"database.password":     "CW_DB_PASSWORD",
	"database.database":     "CW_DB_NAME",
	"database.sslMode":      "CW_DB_SSL_MODE",
	"database.maxOpenConns": "CW_DB_MAX_OPEN_CONNS",
	"database.maxIdleConns": "CW_DB_MAX_IDLE_CONNS",
	"database.snapshotPath": "CW_DB_SNAPSHOT_PATH",
	"logger.level":          "CW_LOGGER_LEVEL",
	"logger.format":         "CW_LOGGER_FORMAT",
	"redis.enabled":         "CW_REDIS_ENABLED",
	"redis.addr":            "CW_REDIS_ADDR",
	"redis.password":        "CW_REDIS_PASSWORD",
	"redis.db":              "CW_REDIS_DB",
	"kafka.enabled":         "CW_KAFKA_ENABLED",
	"kafka.brokers":         "CW_KAFKA_BROKERS",
	"ordering.enforceStock": "CW_ORDERING_ENFORCE_STOCK",
	"analytics.timezone":    "CW_ANALYTICS_TIMEZONE",
}

// LoadConfig loads configuration from file based on the environment
func LoadConfig() (*Config, error) {
	// A missing .env file is normal outside local development
	if err := loadDotEnvFile(); err != nil {
		fmt.Println("Warning: Could not load .env file:", err)
	}

	env := getEnvironment()

	v := viper.New()
	v.SetConfigName(env)
	v.SetConfigType("yaml")
	for _, path := range ConfigPaths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := processEnvOverrides(v); err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.Environment = env
	processDurations(&config)

	return &config, nil
}

// loadDotEnvFile loads the first .env file found in the search paths
func loadDotEnvFile() error {
	var lastError error

	for _, path := range DotEnvPaths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			lastError = err
			continue
		}
		return nil
	}

	if lastError != nil {
		return fmt.Errorf("could not load any .env file: %w", lastError)
	}
	return fmt.Errorf("no .env file found in search paths")
}

// setDefaults sets default values for non-critical configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 15)       // seconds
	v.SetDefault("server.writeTimeout", 15)      // seconds
	v.SetDefault("server.idleTimeout", 60)       // seconds
	v.SetDefault("server.readHeaderTimeout", 10) // seconds
	v.SetDefault("server.shutdownTimeout", 10)   // seconds
	v.SetDefault("server.seedMenu", false)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 50)
	v.SetDefault("database.maxIdleConns", 25)
	v.SetDefault("database.connMaxLifetime", 30) // minutes
	v.SetDefault("database.connMaxIdleTime", 15) // minutes
	v.SetDefault("database.queryTimeout", 5)     // seconds
	v.SetDefault("database.slowQuery", 200)      // milliseconds
	v.SetDefault("database.retryAttempts", 3)
	v.SetDefault("database.retryDelay", 1) // seconds
	v.SetDefault("database.conflict.maxRetries", 5)
	v.SetDefault("database.conflict.retryInterval", 20) // milliseconds
	v.SetDefault("database.conflict.maxInterval", 500)  // milliseconds
	v.SetDefault("database.conflict.jitterFactor", 0.2)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.callerInfo", true)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.keyPrefix", "canteen:")
	v.SetDefault("redis.lockRetry", 50) // milliseconds
	v.SetDefault("redis.lockRetries", 20)
	v.SetDefault("redis.dialTimeout", 5) // seconds

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.clientId", "canteen-wallet")
	v.SetDefault("kafka.topicPrefix", "canteen.")

	v.SetDefault("outbox.pollInterval", 1000) // milliseconds
	v.SetDefault("outbox.batchSize", 100)
	v.SetDefault("outbox.maxRetries", 10)

	v.SetDefault("ordering.enforceStock", true)
	v.SetDefault("ordering.maxItemsPerOrder", 20)

	v.SetDefault("claim.lockTTL", 5000)     // milliseconds
	v.SetDefault("claim.retryInterval", 50) // milliseconds
	v.SetDefault("claim.maxRetries", 20)

	v.SetDefault("analytics.timezone", "UTC")
}

// getEnvironment determines the environment to use based on the CW_ENV environment variable
func getEnvironment() string {
	env := os.Getenv(EnvPrefix + "_ENV")
	if env == "" {
		env = Development
	}
	return strings.ToLower(env)
}

// processEnvOverrides makes environment variables win over configuration file values
func processEnvOverrides(v *viper.Viper) error {
	for key, name := range envBindings {
		if err := v.BindEnv(key, name); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, name, err)
		}
	}

	// A comma separated broker list arrives as one string
	if brokers := os.Getenv("CW_KAFKA_BROKERS"); brokers != "" {
		parts := strings.Split(brokers, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		v.Set("kafka.brokers", parts)
	}
	return nil
}

// processDurations converts time.Duration fields from their raw values to actual durations
func processDurations(config *Config) {
	config.Server.ReadTimeout *= time.Second
	config.Server.WriteTimeout *= time.Second
	config.Server.IdleTimeout *= time.Second
	config.Server.ReadHeaderTimeout *= time.Second
	config.Server.ShutdownTimeout *= time.Second

	config.Database.ConnMaxLifetime *= time.Minute
	config.Database.ConnMaxIdleTime *= time.Minute
	config.Database.QueryTimeout *= time.Second
	config.Database.SlowQuery *= time.Millisecond
	config.Database.RetryDelay *= time.Second
	config.Database.Conflict.RetryInterval *= time.Millisecond
	config.Database.Conflict.MaxInterval *= time.Millisecond

	config.Redis.LockRetry *= time.Millisecond
	config.Redis.DialTimeout *= time.Second

	config.Outbox.PollInterval *= time.Millisecond

	config.Claim.LockTTL *= time.Millisecond
	config.Claim.RetryInterval *= time.Millisecond
}
