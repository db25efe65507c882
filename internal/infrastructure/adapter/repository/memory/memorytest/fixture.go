// Package memorytest builds memory-store fixtures for use case and handler tests
package memorytest

import (
	"context"
	"testing"
	"time"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/idgen"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/repository/memory"
	timeadapter "github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/time"
	"github.com/stretchr/testify/require"
)

// Start is the first reading of the fixture clock
var Start = time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)

// Fixture is an empty memory store with a stepping clock
type Fixture struct {
	UoW    persistence.UnitOfWork
	Clock  *timeadapter.SteppingTimeProvider
	IDs    coreport.IDGenerator
	Logger coreport.Logger
}

// New creates a fixture; the clock advances one millisecond per reading
func New(t testing.TB) *Fixture {
	t.Helper()
	log := logger.NewNoopLogger()
	clock := timeadapter.NewSteppingTimeProvider(Start, time.Millisecond)

	store, err := memory.NewStore("", clock, log)
	require.NoError(t, err)

	return &Fixture{
		UoW:    memory.NewUnitOfWork(store, log),
		Clock:  clock,
		IDs:    idgen.NewSequenceGenerator("id"),
		Logger: log,
	}
}

// SeedUser stores a staff user with the given card, wallet number and balance
func (f *Fixture) SeedUser(t testing.TB, id, name, email, rfid, walletID string, balanceInCents int64) *entity.User {
	t.Helper()
	now := f.Clock.Now()
	user := entity.RestoreUser(id, name, entity.NormalizeEmail(email), entity.Profile{Role: entity.RoleStaff}, rfid, walletID, balanceInCents, now, now)
	require.NoError(t, f.UoW.GetUserRepository(context.Background()).Create(context.Background(), user))
	return user
}

// SeedStudent stores a student in the given grade
func (f *Fixture) SeedStudent(t testing.TB, id, name, email, grade string) *entity.User {
	t.Helper()
	profile, err := entity.NewStudentProfile(grade, "")
	require.NoError(t, err)
	user, err := entity.NewUser(id, name, email, profile, f.Clock)
	require.NoError(t, err)
	require.NoError(t, f.UoW.GetUserRepository(context.Background()).Create(context.Background(), user))
	return user
}

// SeedProduct stores an available product
func (f *Fixture) SeedProduct(t testing.TB, id, name string, priceInCents int64, stock int) *entity.Product {
	t.Helper()
	product, err := entity.NewProduct(id, name, priceInCents, "Meals", "", true, stock, f.Clock)
	require.NoError(t, err)
	require.NoError(t, f.UoW.GetProductRepository(context.Background()).Create(context.Background(), product))
	return product
}

// SeedOrder stores a paid pending order for user without touching the balance
func (f *Fixture) SeedOrder(t testing.TB, id string, user *entity.User, totalInCents int64, claimCode string) *entity.Order {
	t.Helper()
	items := []entity.OrderItem{{ProductID: "p-seed", Name: "Meal", UnitPriceInCents: totalInCents, Category: "Meals", Quantity: 1}}
	order, err := entity.NewOrder(id, user, items, totalInCents, entity.MealLunch, claimCode, f.Clock)
	require.NoError(t, err)
	require.NoError(t, f.UoW.GetOrderRepository(context.Background()).Create(context.Background(), order))
	return order
}

// User reads the committed state of a user
func (f *Fixture) User(t testing.TB, id string) *entity.User {
	t.Helper()
	user, err := f.UoW.GetUserRepository(context.Background()).GetByID(context.Background(), id)
	require.NoError(t, err)
	return user
}

// Balance reads the committed balance of a user
func (f *Fixture) Balance(t testing.TB, id string) int64 {
	t.Helper()
	return f.User(t, id).Balance()
}

// Orders reads the committed orders of a user, newest first
func (f *Fixture) Orders(t testing.TB, userID string) []*entity.Order {
	t.Helper()
	orders, err := f.UoW.GetOrderRepository(context.Background()).ListByUser(context.Background(), userID)
	require.NoError(t, err)
	return orders
}

// Transactions reads the committed ledger of a user, newest first
func (f *Fixture) Transactions(t testing.TB, userID string) []*entity.Transaction {
	t.Helper()
	txs, err := f.UoW.GetTransactionRepository(context.Background()).ListByUser(context.Background(), userID)
	require.NoError(t, err)
	return txs
}

// Product reads the committed state of a product
func (f *Fixture) Product(t testing.TB, id string) *entity.Product {
	t.Helper()
	product, err := f.UoW.GetProductRepository(context.Background()).GetByID(context.Background(), id)
	require.NoError(t, err)
	return product
}

// Outbox reads the pending outbox messages, oldest first
func (f *Fixture) Outbox(t testing.TB) []*entity.OutboxMessage {
	t.Helper()
	messages, err := f.UoW.GetOutboxRepository(context.Background()).ListPending(context.Background(), 1000)
	require.NoError(t, err)
	return messages
}
