package analytics

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/usecase"
)

// weekdays in report order
var weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

// AnalyticsUseCase computes the admin dashboard figures
type AnalyticsUseCase struct {
	uow      persistence.UnitOfWork
	location *time.Location
	logger   coreport.Logger
}

// NewAnalyticsUseCase creates a new AnalyticsUseCase; order times are bucketed in location
func NewAnalyticsUseCase(uow persistence.UnitOfWork, location *time.Location, logger coreport.Logger) *AnalyticsUseCase {
	if location == nil {
		location = time.UTC
	}
	return &AnalyticsUseCase{uow: uow, location: location, logger: logger}
}

var _ usecase.AnalyticsUseCase = (*AnalyticsUseCase)(nil)

// GetSalesByWeekday sums the totals of ready and claimed orders by weekday, Monday first
func (a *AnalyticsUseCase) GetSalesByWeekday(ctx context.Context) ([]usecase.DailySales, error) {
	orders, err := a.uow.GetOrderRepository(ctx).ListByStatuses(ctx, []entity.OrderStatus{entity.OrderReady, entity.OrderClaimed})
	if err != nil {
		a.logger.Error("Failed to load orders for sales report", map[string]any{
			"error": err.Error(),
		})
		return nil, err
	}

	sums := make(map[time.Weekday]int64, len(weekdays))
	for _, order := range orders {
		sums[order.CreatedAt.In(a.location).Weekday()] += order.TotalInCents
	}

	report := make([]usecase.DailySales, 0, len(weekdays))
	for _, day := range weekdays {
		report = append(report, usecase.DailySales{
			Name:         day.String()[:3],
			SalesInCents: sums[day],
		})
	}
	return report, nil
}

// GetSummary counts orders per status and totals completed sales and pending top-ups.
// Both lists are read in one unit so the figures come from the same snapshot.
func (a *AnalyticsUseCase) GetSummary(ctx context.Context) (*usecase.SalesSummary, error) {
	var orders []*entity.Order
	var topUps []*entity.Transaction
	err := a.uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		if orders, err = a.uow.GetOrderRepository(ctx).ListAll(ctx); err != nil {
			return err
		}
		topUps, err = a.uow.GetTransactionRepository(ctx).ListPendingTopUps(ctx)
		return err
	})
	if err != nil {
		a.logger.Error("Failed to load dashboard summary", map[string]any{
			"error": err.Error(),
		})
		return nil, err
	}

	summary := &usecase.SalesSummary{
		OrdersByStatus: map[string]int{
			string(entity.OrderPending):   0,
			string(entity.OrderReady):     0,
			string(entity.OrderClaimed):   0,
			string(entity.OrderCancelled): 0,
		},
		PendingTopUps: len(topUps),
	}
	for _, order := range orders {
		summary.OrdersByStatus[string(order.Status)]++
		if order.Status.CountsAsSale() {
			summary.CompletedSalesInCents += order.TotalInCents
		}
	}
	for _, t := range topUps {
		summary.PendingTopUpAmountInCents += t.AmountInCents
	}
	return summary, nil
}
