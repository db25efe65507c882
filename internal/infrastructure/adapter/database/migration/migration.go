package migration

import (
	"context"
	"errors"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// CurrentSchemaVersion represents the current database schema version
	CurrentSchemaVersion = "1.1.0"
)

// MigrationManager manages database migrations
type MigrationManager struct {
	db               *gorm.DB
	logger           coreport.Logger
	timeProvider     coreport.TimeProvider
	advancedIndexMgr *AdvancedIndexManager
}

// NewMigrationManager creates a new migration manager
func NewMigrationManager(db *gorm.DB, logger coreport.Logger, timeProvider coreport.TimeProvider) *MigrationManager {
	return &MigrationManager{
		db:               db,
		logger:           logger,
		timeProvider:     timeProvider,
		advancedIndexMgr: NewAdvancedIndexManager(db, logger),
	}
}

// MigrateAll performs all migrations
func (m *MigrationManager) MigrateAll(ctx context.Context) error {
	m.logger.Info("Starting database migrations", map[string]any{
		"target_version": CurrentSchemaVersion,
	})

	db := m.db.WithContext(ctx)
	if err := db.AutoMigrate(&model.MigrationVersion{}); err != nil {
		m.logger.Error("Failed to create migration version table", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	currentVersion, err := m.GetCurrentVersion(ctx)
	if err != nil {
		m.logger.Error("Failed to check current schema version", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	if currentVersion == CurrentSchemaVersion {
		m.logger.Info("Database already at target version, skipping migration", map[string]any{
			"version": currentVersion,
		})
		return nil
	}

	m.logger.Info("Current database version", map[string]any{
		"version": currentVersion,
	})

	if err := m.autoMigrateModels(db); err != nil {
		m.logger.Error("Failed to auto-migrate models", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	if err := m.seedCounters(db); err != nil {
		m.logger.Error("Failed to seed counters", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	if db.Dialector.Name() == "postgres" {
		if err := m.advancedIndexMgr.CreateAdvancedIndexes(ctx); err != nil {
			m.logger.Error("Failed to create advanced indexes", map[string]any{
				"error": err.Error(),
			})
			return err
		}
		m.advancedIndexMgr.CreatePerformanceTweaks(ctx)
	}

	if err := m.setVersion(ctx, CurrentSchemaVersion, "Full schema migration"); err != nil {
		m.logger.Error("Failed to update schema version", map[string]any{
			"error":   err.Error(),
			"version": CurrentSchemaVersion,
		})
		return err
	}

	m.logger.Info("Database migrations completed successfully", map[string]any{
		"version": CurrentSchemaVersion,
	})
	return nil
}

// GetCurrentVersion gets the current migration version
func (m *MigrationManager) GetCurrentVersion(ctx context.Context) (string, error) {
	var version model.MigrationVersion
	result := m.db.WithContext(ctx).Order("applied_at desc").First(&version)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", result.Error
	}
	return version.Version, nil
}

// setVersion records a new migration version
func (m *MigrationManager) setVersion(ctx context.Context, version, description string) error {
	migrationVersion := model.MigrationVersion{
		Version:     version,
		AppliedAt:   m.timeProvider.Now(),
		Description: description,
	}
	return m.db.WithContext(ctx).Create(&migrationVersion).Error
}

// autoMigrateModels auto-migrates database models
func (m *MigrationManager) autoMigrateModels(db *gorm.DB) error {
	m.logger.Info("Auto-migrating database models", nil)

	return db.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.Transaction{},
		&model.Counter{},
		&model.OutboxMessage{},
		&model.ScanLock{},
	)
}

// seedCounters creates the wallet number sequence so the first increment only updates
func (m *MigrationManager) seedCounters(db *gorm.DB) error {
	counter := model.Counter{Name: entity.WalletCounter, Count: 0, UpdatedAt: m.timeProvider.Now()}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&counter).Error
}
