package database

import (
	"fmt"

	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/repository"
)

// ErrorMapper maps errors raised by unit boundaries (begin, commit) to domain errors
type ErrorMapper struct {
	classifier *repository.ErrorClassifier
}

// NewErrorMapper creates a new ErrorMapper
func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{classifier: repository.NewErrorClassifier()}
}

// MapError maps a database error to a domain error. Serialization failures at commit
// become ErrStoreConflict so the unit is retried; anything else is ErrStoreUnavailable.
func (m *ErrorMapper) MapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	mapped := m.classifier.ToDomain(err, nil, nil)
	if mapped == err {
		return err
	}
	return fmt.Errorf("%w: %s: %v", mapped, operation, err)
}

// IsConflict reports whether err should restart the unit
func (m *ErrorMapper) IsConflict(err error) bool {
	return errs.IsStoreConflictError(m.MapError(err, ""))
}
