package order

import (
	"context"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/usecase/common"
)

// Config controls order placement
type Config struct {
	// EnforceStock re-reads and locks the ordered products, snapshots them and decrements stock
	EnforceStock bool
	// MaxItemsPerOrder limits the number of cart lines; zero means no limit
	MaxItemsPerOrder int
}

// DefaultConfig returns the placement settings used when none are configured
func DefaultConfig() Config {
	return Config{EnforceStock: true, MaxItemsPerOrder: 20}
}

// OrderUseCase handles order placement and the admin status workflow
type OrderUseCase struct {
	uow          persistence.UnitOfWork
	events       *common.EventRecorder
	idGen        coreport.IDGenerator
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	config       Config
}

// NewOrderUseCase creates a new OrderUseCase
func NewOrderUseCase(
	uow persistence.UnitOfWork,
	idGen coreport.IDGenerator,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	config Config,
) *OrderUseCase {
	return &OrderUseCase{
		uow:          uow,
		events:       common.NewEventRecorder(uow, idGen, timeProvider),
		idGen:        idGen,
		timeProvider: timeProvider,
		logger:       logger,
		config:       config,
	}
}

var _ usecase.OrderUseCase = (*OrderUseCase)(nil)

// GetOrder returns one order
func (o *OrderUseCase) GetOrder(ctx context.Context, orderID string) (*entity.Order, error) {
	return o.uow.GetOrderRepository(ctx).GetByID(ctx, orderID)
}

// GetOrders returns the user's orders, newest first
func (o *OrderUseCase) GetOrders(ctx context.Context, userID string) ([]*entity.Order, error) {
	if _, err := o.uow.GetUserRepository(ctx).GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return o.uow.GetOrderRepository(ctx).ListByUser(ctx, userID)
}

// GetAllOrders returns every order, newest first
func (o *OrderUseCase) GetAllOrders(ctx context.Context) ([]*entity.Order, error) {
	return o.uow.GetOrderRepository(ctx).ListAll(ctx)
}
