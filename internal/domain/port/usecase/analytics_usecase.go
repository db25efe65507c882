package usecase

import "context"

// DailySales is the completed sales total of one weekday
type DailySales struct {
	Name         string
	SalesInCents int64
}

// SalesSummary gives the admin dashboard figures
type SalesSummary struct {
	OrdersByStatus            map[string]int
	CompletedSalesInCents     int64
	PendingTopUps             int
	PendingTopUpAmountInCents int64
}

// AnalyticsUseCase defines the reporting operations
type AnalyticsUseCase interface {
	// GetSalesByWeekday sums ready and claimed orders by weekday, Monday first
	GetSalesByWeekday(ctx context.Context) ([]DailySales, error)

	// GetSummary counts orders per status and totals sales and pending top-ups
	GetSummary(ctx context.Context) (*SalesSummary, error)
}
