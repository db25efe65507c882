package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestErrorClassifier(t *testing.T) {
	c := NewErrorClassifier()

	testCases := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"Postgres unique", errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_email" (SQLSTATE 23505)`), DuplicateKeyError},
		{"MySQL unique", errors.New("Error 1062 (23000): Duplicate entry 'ABC' for key 'users.idx_users_rfid_uid'"), DuplicateKeyError},
		{"Translated unique", gorm.ErrDuplicatedKey, DuplicateKeyError},
		{"Postgres serialization", errors.New("ERROR: could not serialize access due to concurrent update (SQLSTATE 40001)"), LockError},
		{"Postgres deadlock", errors.New("ERROR: deadlock detected (SQLSTATE 40P01)"), LockError},
		{"MySQL deadlock", errors.New("Error 1213 (40001): Deadlock found when trying to get lock"), LockError},
		{"MySQL lock wait", errors.New("Error 1205 (HY000): Lock wait timeout exceeded"), LockError},
		{"Reset", errors.New("read tcp: connection reset by peer"), TransientError},
		{"Dial", errors.New("dial tcp 10.0.0.1:5432: no route to host"), ConnectionError},
		{"Deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), ConnectionError},
		{"Not null", errors.New(`null value in column "name" violates not-null constraint`), ConstraintError},
		{"Unknown", errors.New("syntax error at or near"), ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, c.Classify(tc.err))
		})
	}

	assert.Equal(t, ErrorType(""), c.Classify(nil))
	assert.True(t, c.IsForeignKeyError(errors.New("Error 1452 (23000): Cannot add or update a child row")))
	assert.True(t, c.IsForeignKeyError(gorm.ErrForeignKeyViolated))
}

func TestToDomain(t *testing.T) {
	c := NewErrorClassifier()

	t.Run("Nil stays nil", func(t *testing.T) {
		assert.NoError(t, c.ToDomain(nil, errs.ErrUserNotFound, nil))
	})

	t.Run("Domain errors pass through", func(t *testing.T) {
		assert.Same(t, errs.ErrCardNotRegistered, c.ToDomain(errs.ErrCardNotRegistered, errs.ErrUserNotFound, nil))
		assert.Same(t, errs.ErrStoreConflict, c.ToDomain(errs.ErrStoreConflict, nil, nil))
	})

	t.Run("Record not found", func(t *testing.T) {
		assert.Same(t, errs.ErrOrderNotFound, c.ToDomain(gorm.ErrRecordNotFound, errs.ErrOrderNotFound, nil))
		assert.ErrorIs(t, c.ToDomain(gorm.ErrRecordNotFound, nil, nil), errs.ErrStoreUnavailable)
	})

	t.Run("Duplicates", func(t *testing.T) {
		dup := errors.New("duplicate key value violates unique constraint")
		assert.Same(t, errs.ErrDuplicateUser, c.ToDomain(dup, nil, errs.ErrDuplicateUser))
		assert.ErrorIs(t, c.ToDomain(dup, nil, nil), errs.ErrStoreConflict)
	})

	t.Run("Conflicts and outages", func(t *testing.T) {
		assert.ErrorIs(t, c.ToDomain(errors.New("SQLSTATE 40001"), nil, nil), errs.ErrStoreConflict)
		assert.ErrorIs(t, c.ToDomain(errors.New("connection refused"), nil, nil), errs.ErrStoreUnavailable)
		assert.ErrorIs(t, c.ToDomain(errors.New("violates check constraint"), nil, nil), errs.ErrInvalidRequest)
		assert.ErrorIs(t, c.ToDomain(errors.New("something odd"), nil, nil), errs.ErrStoreUnavailable)
	})
}
