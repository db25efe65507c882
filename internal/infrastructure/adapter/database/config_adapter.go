package database

import (
	"fmt"

	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/config"
)

// CreateConfigFromAppConfig adapts the application configuration to database configuration
func CreateConfigFromAppConfig(conf *config.Config) *Config {
	dbConf := DefaultConfig()
	db := conf.Database

	if db.Driver != "" {
		dbConf.Driver = db.Driver
	}
	dbConf.Host = db.Host
	if port := ParsePort(db.Port); port > 0 {
		dbConf.Port = port
	}
	dbConf.Username = db.Username
	dbConf.Password = db.Password
	dbConf.Database = db.Database
	dbConf.SnapshotPath = db.SnapshotPath

	if db.SSLMode != "" {
		dbConf.SSLMode = db.SSLMode
	}
	if db.MaxOpenConns > 0 {
		dbConf.MaxOpenConns = db.MaxOpenConns
	}
	if db.MaxIdleConns > 0 {
		dbConf.MaxIdleConns = db.MaxIdleConns
	}
	if db.ConnMaxLifetime > 0 {
		dbConf.ConnMaxLifetime = db.ConnMaxLifetime
	}
	if db.ConnMaxIdleTime > 0 {
		dbConf.ConnMaxIdleTime = db.ConnMaxIdleTime
	}
	if db.QueryTimeout > 0 {
		dbConf.QueryTimeout = db.QueryTimeout
	}
	if db.SlowQuery > 0 {
		dbConf.SlowQuery = db.SlowQuery
	}
	if db.RetryAttempts > 0 {
		dbConf.RetryAttempts = db.RetryAttempts
	}
	if db.RetryDelay > 0 {
		dbConf.RetryDelay = db.RetryDelay
	}
	if conf.Logger.Level != "" {
		dbConf.LogLevel = conf.Logger.Level
	}

	conflict := db.Conflict
	if conflict.MaxRetries > 0 {
		dbConf.Retry.MaxRetries = conflict.MaxRetries
	}
	if conflict.RetryInterval > 0 {
		dbConf.Retry.RetryInterval = conflict.RetryInterval
	}
	if conflict.MaxInterval > 0 {
		dbConf.Retry.MaxInterval = conflict.MaxInterval
	}
	if conflict.JitterFactor > 0 {
		dbConf.Retry.JitterFactor = conflict.JitterFactor
	}

	return dbConf
}

// ParsePort converts a port string to an int, 0 when it is not a valid port
func ParsePort(port string) int {
	var p int
	if _, err := fmt.Sscanf(port, "%d", &p); err != nil || p <= 0 || p > 65535 {
		return 0
	}
	return p
}
