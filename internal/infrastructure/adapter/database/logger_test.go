package database

import (
	"context"
	"errors"
	"testing"
	"time"

	timeadapter "github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/time"
	coremocks "github.com/amirhossein-jamali/canteen-wallet/mocks/port/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func TestExtractQueryInfo(t *testing.T) {
	testCases := []struct {
		sql       string
		queryType string
		table     string
	}{
		{`SELECT * FROM "users" WHERE id = $1`, "SELECT", "users"},
		{"INSERT INTO `orders` (`id`) VALUES (?)", "INSERT", "orders"},
		{`UPDATE "transactions" SET "status"=$1`, "UPDATE", "transactions"},
		{`DELETE FROM scan_locks WHERE lock_key = $1`, "DELETE", "scan_locks"},
		{`BEGIN`, "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.sql, func(t *testing.T) {
			assert.Equal(t, tc.queryType, extractQueryType(tc.sql))
			assert.Equal(t, tc.table, extractTableName(tc.sql))
		})
	}
}

func TestDatabaseLoggerTrace(t *testing.T) {
	begin := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	query := func() (string, int64) { return `SELECT * FROM "users"`, 1 }

	t.Run("Regular query at debug", func(t *testing.T) {
		mockLogger := coremocks.NewMockLogger(t)
		mockLogger.EXPECT().Debug("SQL Query", mock.MatchedBy(func(fields map[string]any) bool {
			return fields["table"] == "users" && fields["type"] == "SELECT"
		})).Once()

		clock := timeadapter.NewSteppingTimeProvider(begin.Add(time.Millisecond), 0)
		l := NewDatabaseLogger(mockLogger, clock, "info", 200*time.Millisecond)
		l.Trace(context.Background(), begin, query, nil)
	})

	t.Run("Slow query warns", func(t *testing.T) {
		mockLogger := coremocks.NewMockLogger(t)
		mockLogger.EXPECT().Warn("Slow SQL Query", mock.Anything).Once()

		clock := timeadapter.NewSteppingTimeProvider(begin.Add(time.Second), 0)
		l := NewDatabaseLogger(mockLogger, clock, "info", 200*time.Millisecond)
		l.Trace(context.Background(), begin, query, nil)
	})

	t.Run("Errors are logged but not missing rows", func(t *testing.T) {
		mockLogger := coremocks.NewMockLogger(t)
		mockLogger.EXPECT().Error("SQL Error", mock.Anything).Once()

		clock := timeadapter.NewSteppingTimeProvider(begin, 0)
		l := NewDatabaseLogger(mockLogger, clock, "error", time.Second)
		l.Trace(context.Background(), begin, query, errors.New("connection reset"))
		l.Trace(context.Background(), begin, query, gorm.ErrRecordNotFound)
	})

	t.Run("Silent", func(t *testing.T) {
		mockLogger := coremocks.NewMockLogger(t)
		clock := timeadapter.NewSteppingTimeProvider(begin, 0)
		l := NewDatabaseLogger(mockLogger, clock, "silent", time.Second)
		l.Trace(context.Background(), begin, query, errors.New("ignored"))
	})
}
