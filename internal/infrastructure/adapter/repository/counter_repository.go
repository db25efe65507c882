package repository

import (
	"context"
	"errors"

	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CounterRepository implements CounterRepository interface using GORM.
// Each counter is one row; incrementing it takes that row's lock until the unit ends,
// so two units can never hand out the same value.
type CounterRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewCounterRepository creates a new CounterRepository instance
func NewCounterRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *CounterRepository {
	return &CounterRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// Next increments the named counter and returns the new value
func (r *CounterRepository) Next(ctx context.Context, name string) (int64, error) {
	db := r.db.WithContext(ctx)

	// Make sure the row exists; a concurrent insert is ignored
	seed := model.Counter{Name: name, Count: 0, UpdatedAt: r.timeProvider.Now()}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return 0, r.mapError(name, err)
	}

	var counter model.Counter
	if err := forUpdate(db).Where("name = ?", name).First(&counter).Error; err != nil {
		return 0, r.mapError(name, err)
	}

	counter.Count++
	counter.UpdatedAt = r.timeProvider.Now()
	if err := db.Model(&counter).Select("count", "updated_at").Updates(&counter).Error; err != nil {
		return 0, r.mapError(name, err)
	}
	return counter.Count, nil
}

// Current returns the last value handed out
func (r *CounterRepository) Current(ctx context.Context, name string) (int64, error) {
	var counter model.Counter
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&counter).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, r.mapError(name, err)
	}
	return counter.Count, nil
}

func (r *CounterRepository) mapError(name string, err error) error {
	mapped := r.errorClassifier.ToDomain(err, nil, nil)
	r.logger.Error("Database error when advancing counter", map[string]any{
		"counter": name,
		"error":   err.Error(),
	})
	return mapped
}
