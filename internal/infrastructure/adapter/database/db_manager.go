package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/repository"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Manager manages database connections
type Manager struct {
	config            *Config
	db                *gorm.DB
	logger            coreport.Logger
	connectionMonitor *ConnectionPoolMonitor
	timeProvider      coreport.TimeProvider
}

// NewManager creates a new database manager
func NewManager(config *Config, logger coreport.Logger, timeProvider coreport.TimeProvider) *Manager {
	return &Manager{
		config:       config,
		logger:       logger,
		timeProvider: timeProvider,
	}
}

// Connect establishes a database connection, retrying the configured number of times
func (m *Manager) Connect(ctx context.Context) (*gorm.DB, error) {
	m.logger.Info("Connecting to database", map[string]any{
		"driver": m.config.Driver,
		"host":   m.config.Host,
		"port":   m.config.Port,
		"name":   m.config.Database,
	})

	var err error
	var gormDB *gorm.DB

	for attempt := 0; attempt < m.config.RetryAttempts; attempt++ {
		if attempt > 0 {
			m.logger.Warn("Retrying database connection", map[string]any{
				"attempt": attempt + 1,
				"of":      m.config.RetryAttempts,
				"delay":   m.config.RetryDelay.String(),
			})
			select {
			case <-time.After(m.config.RetryDelay):
			case <-ctx.Done():
				return nil, fmt.Errorf("database connection canceled: %w", ctx.Err())
			}
		}

		gormDB, err = m.open()
		if err == nil {
			break
		}

		m.logger.Error("Failed to connect to database", map[string]any{
			"error":   err.Error(),
			"attempt": attempt + 1,
		})
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", m.config.RetryAttempts, err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}

	sqlDB.SetMaxOpenConns(m.config.MaxOpenConns)
	sqlDB.SetMaxIdleConns(m.config.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(m.config.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(m.config.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, m.config.QueryTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	m.logger.Info("Successfully connected to database", map[string]any{
		"driver":         m.config.Driver,
		"host":           m.config.Host,
		"port":           m.config.Port,
		"name":           m.config.Database,
		"max_open_conns": m.config.MaxOpenConns,
		"max_idle_conns": m.config.MaxIdleConns,
		"query_timeout":  m.config.QueryTimeout.String(),
	})

	m.db = gormDB
	m.connectionMonitor = NewConnectionPoolMonitor(sqlDB, m.logger)
	m.connectionMonitor.Start(30 * time.Second)

	return m.db, nil
}

func (m *Manager) open() (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: NewDatabaseLogger(m.logger, m.timeProvider, m.config.LogLevel, m.config.SlowQuery),
		NowFunc: func() time.Time {
			return m.timeProvider.Now()
		},
		PrepareStmt:    true,
		TranslateError: true,
	}

	switch m.config.Driver {
	case DriverPostgres:
		return gorm.Open(postgres.Open(m.config.DSN()), gormConfig)
	case DriverMySQL:
		return gorm.Open(mysql.Open(m.config.DSN()), gormConfig)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", m.config.Driver)
	}
}

// DB returns the GORM database instance
func (m *Manager) DB() *gorm.DB {
	return m.db
}

// Close closes the database connection
func (m *Manager) Close() error {
	m.logger.Info("Closing database connection", nil)

	if m.connectionMonitor != nil {
		m.connectionMonitor.Stop()
	}
	if m.db == nil {
		return nil
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	return sqlDB.Close()
}

// Ping checks the database is reachable
func (m *Manager) Ping(ctx context.Context) error {
	if m.db == nil {
		return fmt.Errorf("database not connected")
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// PoolMetrics returns the last collected pool statistics
func (m *Manager) PoolMetrics() ConnectionPoolMetrics {
	if m.connectionMonitor == nil {
		return ConnectionPoolMetrics{}
	}
	return m.connectionMonitor.GetMetrics()
}

// Isolation returns the isolation level units run at: SERIALIZABLE on postgres,
// REPEATABLE READ on mysql where every balance read takes a row lock
func (m *Manager) Isolation() sql.IsolationLevel {
	if m.config.Driver == DriverMySQL {
		return sql.LevelRepeatableRead
	}
	return sql.LevelSerializable
}

// CreateUnitOfWork creates a new UnitOfWork instance
func (m *Manager) CreateUnitOfWork() *UnitOfWork {
	metrics := NewMetricsCollector(m.logger, m.timeProvider, m.config.QueryTimeout/2)
	return NewUnitOfWork(m.db, m.Isolation(), m.config.Retry, metrics, m.logger, m.timeProvider)
}

// ScanLockRepository returns the lock table used when no Redis is configured.
// Locks are written outside any unit so they are visible to other kiosks at once.
func (m *Manager) ScanLockRepository() *repository.ScanLockRepository {
	return repository.NewScanLockRepository(m.db, m.timeProvider, m.logger)
}
