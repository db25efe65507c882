package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrorType represents the type of database error that occurred
type ErrorType string

const (
	DuplicateKeyError ErrorType = "duplicate_key"
	TransientError    ErrorType = "transient"
	LockError         ErrorType = "lock"
	ConnectionError   ErrorType = "connection"
	ConstraintError   ErrorType = "constraint"
)

// ErrorClassifier provides methods to classify database errors.
// Messages of both PostgreSQL and MySQL drivers are recognised.
type ErrorClassifier struct{}

// NewErrorClassifier creates a new ErrorClassifier
func NewErrorClassifier() *ErrorClassifier {
	return &ErrorClassifier{}
}

// Classify returns the type of error
func (c *ErrorClassifier) Classify(err error) ErrorType {
	if err == nil {
		return ""
	}

	if c.IsDuplicateKeyError(err) {
		return DuplicateKeyError
	}
	if c.IsLockError(err) {
		return LockError
	}
	if c.IsTransientError(err) {
		return TransientError
	}
	if c.IsConnectionError(err) {
		return ConnectionError
	}
	if c.IsConstraintError(err) {
		return ConstraintError
	}

	return ""
}

// IsDuplicateKeyError checks if the error is a duplicate key error
func (c *ErrorClassifier) IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key") ||
		strings.Contains(err.Error(), "UNIQUE constraint") ||
		strings.Contains(err.Error(), "Duplicate entry") ||
		strings.Contains(err.Error(), "Error 1062")
}

// IsTransientError checks if an error is transient and can be retried
func (c *ErrorClassifier) IsTransientError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "connection reset") ||
		strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "timeout") ||
		strings.Contains(err.Error(), "EOF") ||
		strings.Contains(err.Error(), "server closed") ||
		strings.Contains(err.Error(), "broken pipe") ||
		strings.Contains(err.Error(), "too many connections")
}

// IsLockError checks if the error is due to locking or serialization
func (c *ErrorClassifier) IsLockError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "deadlock") ||
		strings.Contains(err.Error(), "Deadlock found") ||
		strings.Contains(err.Error(), "lock wait timeout") ||
		strings.Contains(err.Error(), "Lock wait timeout") ||
		strings.Contains(err.Error(), "could not serialize access") ||
		strings.Contains(err.Error(), "serialization failure") ||
		strings.Contains(err.Error(), "SQLSTATE 40001") ||
		strings.Contains(err.Error(), "SQLSTATE 40P01") ||
		strings.Contains(err.Error(), "Error 1213") ||
		strings.Contains(err.Error(), "Error 1205")
}

// IsConnectionError checks if the error is related to database connectivity
func (c *ErrorClassifier) IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "connection") ||
		strings.Contains(err.Error(), "dial") ||
		strings.Contains(err.Error(), "network") ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		c.IsTransientError(err)
}

// IsForeignKeyError checks if the error is a reference to a missing row
func (c *ErrorClassifier) IsForeignKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return strings.Contains(err.Error(), "foreign key") ||
		strings.Contains(err.Error(), "Error 1452")
}

// IsConstraintError checks if the error is related to constraint violations
func (c *ErrorClassifier) IsConstraintError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "constraint") ||
		strings.Contains(err.Error(), "violates") ||
		strings.Contains(err.Error(), "foreign key") ||
		strings.Contains(err.Error(), "not null") ||
		c.IsDuplicateKeyError(err)
}

// ToDomain translates a raw driver error into the store errors of the domain.
// notFound is returned for gorm.ErrRecordNotFound; duplicate is returned for unique violations.
// Domain errors pass through unchanged.
func (c *ErrorClassifier) ToDomain(err, notFound, duplicate error) error {
	if err == nil {
		return nil
	}
	if errs.ErrorCode(err) != errs.CodeInternalServer || errors.Is(err, errs.ErrInternalServer) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) && notFound != nil {
		return notFound
	}

	switch c.Classify(err) {
	case DuplicateKeyError:
		if duplicate != nil {
			return duplicate
		}
		return fmt.Errorf("%w: %s", errs.ErrStoreConflict, err.Error())
	case LockError:
		return fmt.Errorf("%w: %s", errs.ErrStoreConflict, err.Error())
	case TransientError, ConnectionError:
		return fmt.Errorf("%w: %s", errs.ErrStoreUnavailable, err.Error())
	case ConstraintError:
		return fmt.Errorf("%w: %s", errs.ErrInvalidRequest, err.Error())
	default:
		return fmt.Errorf("%w: %s", errs.ErrStoreUnavailable, err.Error())
	}
}

// forUpdate adds a row lock held until the surrounding transaction ends
func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}
