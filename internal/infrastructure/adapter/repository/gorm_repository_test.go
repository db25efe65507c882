package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/model"
	timeadapter "github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/time"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testStart = time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)

// openTestDB opens a file-backed SQLite database with the ledger schema.
// SQLite ignores FOR UPDATE, so these tests cover the statements, not row locking.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "canteen.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Transaction{},
		&model.Order{},
		&model.OrderItem{},
		&model.Counter{},
	))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func seedGormUser(t *testing.T, db *gorm.DB, clock *timeadapter.SteppingTimeProvider, id, email string) *entity.User {
	t.Helper()
	user, err := entity.NewUser(id, "Ana", email, entity.Profile{Role: entity.RoleStaff}, clock)
	require.NoError(t, err)
	require.NoError(t, NewUserRepository(db, logger.NewNoopLogger()).Create(context.Background(), user))
	return user
}

func seedGormOrder(t *testing.T, db *gorm.DB, clock *timeadapter.SteppingTimeProvider, id string, user *entity.User) *entity.Order {
	t.Helper()
	items := []entity.OrderItem{{ProductID: "p-1", Name: "Adobo", UnitPriceInCents: 4250, Category: "Meals", Quantity: 1}}
	order, err := entity.NewOrder(id, user, items, 4250, entity.MealLunch, "", clock)
	require.NoError(t, err)
	require.NoError(t, NewOrderRepository(db, logger.NewNoopLogger()).Create(context.Background(), order))
	return order
}

func TestGormOrderRepositoryUpdateStatus(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	clock := timeadapter.NewSteppingTimeProvider(testStart, time.Millisecond)
	repo := NewOrderRepository(db, logger.NewNoopLogger())

	user := seedGormUser(t, db, clock, "u-1", "ana@school.edu")
	seedGormOrder(t, db, clock, "o-1", user)

	t.Run("Moves a pending order", func(t *testing.T) {
		at := clock.Now()
		require.NoError(t, repo.UpdateStatus(ctx, "o-1", entity.OrderPending, entity.OrderClaimed, at))

		order, err := repo.GetByID(ctx, "o-1")
		require.NoError(t, err)
		assert.Equal(t, entity.OrderClaimed, order.Status)
		require.NotNil(t, order.ClaimedAt)
		assert.True(t, at.Equal(*order.ClaimedAt))
		require.Len(t, order.Items, 1)
	})

	t.Run("Second transition from the same state conflicts", func(t *testing.T) {
		err := repo.UpdateStatus(ctx, "o-1", entity.OrderPending, entity.OrderClaimed, clock.Now())
		assert.ErrorIs(t, err, errs.ErrStoreConflict)

		order, err := repo.GetByID(ctx, "o-1")
		require.NoError(t, err)
		assert.Equal(t, entity.OrderClaimed, order.Status)
	})

	t.Run("Unknown order conflicts", func(t *testing.T) {
		err := repo.UpdateStatus(ctx, "missing", entity.OrderPending, entity.OrderCancelled, clock.Now())
		assert.ErrorIs(t, err, errs.ErrStoreConflict)
	})

	t.Run("Unknown order is not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, errs.ErrOrderNotFound)
	})
}

func TestGormOrderRepositoryFindOldestPending(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	clock := timeadapter.NewSteppingTimeProvider(testStart, time.Second)
	repo := NewOrderRepository(db, logger.NewNoopLogger())

	user := seedGormUser(t, db, clock, "u-1", "ana@school.edu")
	other := seedGormUser(t, db, clock, "u-2", "ben@school.edu")

	t.Run("Earliest order wins over a smaller ID", func(t *testing.T) {
		seedGormOrder(t, db, clock, "o-z", user)
		seedGormOrder(t, db, clock, "o-a", user)
		seedGormOrder(t, db, clock, "o-0", other)

		order, err := repo.FindOldestPendingByUser(ctx, "u-1")
		require.NoError(t, err)
		assert.Equal(t, "o-z", order.ID)
	})

	t.Run("Claimed orders are skipped", func(t *testing.T) {
		require.NoError(t, repo.UpdateStatus(ctx, "o-z", entity.OrderPending, entity.OrderClaimed, clock.Now()))

		order, err := repo.FindOldestPendingByUser(ctx, "u-1")
		require.NoError(t, err)
		assert.Equal(t, "o-a", order.ID)
	})

	t.Run("Same timestamp falls back to ID", func(t *testing.T) {
		frozen := timeadapter.NewSteppingTimeProvider(testStart.Add(-time.Hour), 0)
		third := seedGormUser(t, db, clock, "u-3", "cara@school.edu")
		seedGormOrder(t, db, frozen, "o-q", third)
		seedGormOrder(t, db, frozen, "o-b", third)

		order, err := repo.FindOldestPendingByUser(ctx, "u-3")
		require.NoError(t, err)
		assert.Equal(t, "o-b", order.ID)
	})

	t.Run("No pending order", func(t *testing.T) {
		seedGormUser(t, db, clock, "u-4", "dan@school.edu")

		_, err := repo.FindOldestPendingByUser(ctx, "u-4")
		assert.ErrorIs(t, err, errs.ErrOrderNotFound)
	})
}

func TestGormTransactionRepositoryUpdateStatus(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	clock := timeadapter.NewSteppingTimeProvider(testStart, time.Millisecond)
	repo := NewTransactionRepository(db, logger.NewNoopLogger())

	user := seedGormUser(t, db, clock, "u-1", "ana@school.edu")
	topUp, err := entity.NewTopUpRequest("t-1", user, 5000, clock)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, topUp))

	pending, err := repo.ListPendingTopUps(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, repo.UpdateStatus(ctx, "t-1", entity.TopUpPending, entity.TopUpApproved, clock.Now()))

	err = repo.UpdateStatus(ctx, "t-1", entity.TopUpPending, entity.TopUpDeclined, clock.Now())
	assert.ErrorIs(t, err, errs.ErrStoreConflict)

	stored, err := repo.GetByID(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, entity.TopUpApproved, stored.Status)
	assert.NotNil(t, stored.ProcessedAt)

	pending, err = repo.ListPendingTopUps(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestGormCounterRepositoryNext(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	clock := timeadapter.NewSteppingTimeProvider(testStart, time.Millisecond)
	repo := NewCounterRepository(db, clock, logger.NewNoopLogger())

	current, err := repo.Current(ctx, entity.WalletCounter)
	require.NoError(t, err)
	assert.Zero(t, current)

	for want := int64(1); want <= 3; want++ {
		got, err := repo.Next(ctx, entity.WalletCounter)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	t.Run("Counters are independent", func(t *testing.T) {
		got, err := repo.Next(ctx, "other")
		require.NoError(t, err)
		assert.Equal(t, int64(1), got)
	})

	t.Run("Rolled back increment is not handed out", func(t *testing.T) {
		err := db.Transaction(func(tx *gorm.DB) error {
			got, err := NewCounterRepository(tx, clock, logger.NewNoopLogger()).Next(ctx, entity.WalletCounter)
			require.NoError(t, err)
			assert.Equal(t, int64(4), got)
			return errs.ErrInsufficientFunds
		})
		require.ErrorIs(t, err, errs.ErrInsufficientFunds)

		got, err := repo.Next(ctx, entity.WalletCounter)
		require.NoError(t, err)
		assert.Equal(t, int64(4), got)
	})
}

func TestGormUserRepositoryUpdate(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	clock := timeadapter.NewSteppingTimeProvider(testStart, time.Millisecond)
	repo := NewUserRepository(db, logger.NewNoopLogger())

	user := seedGormUser(t, db, clock, "u-1", "ana@school.edu")

	t.Run("Writes balance and wallet number", func(t *testing.T) {
		require.NoError(t, user.Credit(2500, clock))
		user.AssignWalletID("0001", clock)
		require.NoError(t, repo.Update(ctx, user))

		stored, err := repo.GetByID(ctx, "u-1")
		require.NoError(t, err)
		assert.Equal(t, int64(2500), stored.Balance())
		assert.Equal(t, "0001", stored.WalletID)
	})

	t.Run("Unknown user is not found", func(t *testing.T) {
		ghost := entity.RestoreUser("ghost", "Ghost", "", entity.Profile{Role: entity.RoleStaff}, "", "", 100, testStart, testStart)

		err := repo.Update(ctx, ghost)
		assert.ErrorIs(t, err, errs.ErrUserNotFound)

		_, err = repo.GetByID(ctx, "ghost")
		assert.ErrorIs(t, err, errs.ErrUserNotFound)
	})
}
