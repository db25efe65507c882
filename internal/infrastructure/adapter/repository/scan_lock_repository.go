package repository

import (
	"context"
	"time"

	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScanLockRepository implements scan locking using a table of named locks
type ScanLockRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewScanLockRepository creates a new ScanLockRepository instance
func NewScanLockRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *ScanLockRepository {
	return &ScanLockRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// TryAcquire takes the lock for key unless another owner holds an unexpired one
func (r *ScanLockRepository) TryAcquire(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	now := r.timeProvider.Now()
	db := r.db.WithContext(ctx)

	// An expired lock belongs to nobody
	if err := db.Where("lock_key = ? AND expires_at <= ?", key, now).Delete(&model.ScanLock{}).Error; err != nil {
		return false, r.mapError("clearing expired scan lock", key, err)
	}

	lock := model.ScanLock{
		LockKey:   key,
		Owner:     owner,
		LockedAt:  now,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
		UpdatedAt: now,
	}
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&lock)
	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			return false, nil
		}
		return false, r.mapError("acquiring scan lock", key, result.Error)
	}

	if result.RowsAffected == 0 {
		r.logger.Debug("Scan lock held by another owner", map[string]any{"lock_key": key})
		return false, nil
	}

	r.logger.Debug("Scan lock acquired", map[string]any{
		"lock_key":   key,
		"owner":      owner,
		"expires_at": lock.ExpiresAt,
	})
	return true, nil
}

// Release drops the lock if owner still holds it
func (r *ScanLockRepository) Release(ctx context.Context, key, owner string) error {
	result := r.db.WithContext(ctx).Where("lock_key = ? AND owner = ?", key, owner).Delete(&model.ScanLock{})
	if result.Error != nil {
		return r.mapError("releasing scan lock", key, result.Error)
	}
	if result.RowsAffected == 0 {
		r.logger.Debug("No scan lock to release, it may have expired", map[string]any{
			"lock_key": key,
			"owner":    owner,
		})
	}
	return nil
}

// CleanupExpired removes all expired locks and returns how many were removed
func (r *ScanLockRepository) CleanupExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at <= ?", r.timeProvider.Now()).Delete(&model.ScanLock{})
	if result.Error != nil {
		return 0, r.mapError("cleaning up expired scan locks", "*", result.Error)
	}
	if result.RowsAffected > 0 {
		r.logger.Info("Cleaned up expired scan locks", map[string]any{"count": result.RowsAffected})
	}
	return result.RowsAffected, nil
}

func (r *ScanLockRepository) mapError(operation, key string, err error) error {
	r.logger.Error("Database error when "+operation, map[string]any{
		"lock_key": key,
		"error":    err.Error(),
	})
	return r.errorClassifier.ToDomain(err, nil, nil)
}
