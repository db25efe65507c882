package dto

import (
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/usecase"
)

// DailySalesResponse is the sales total of one weekday
type DailySalesResponse struct {
	Name  string `json:"name"`
	Sales string `json:"sales"`
}

// SummaryResponse holds the admin dashboard figures
type SummaryResponse struct {
	OrdersByStatus     map[string]int `json:"ordersByStatus"`
	CompletedSales     string         `json:"completedSales"`
	PendingTopUps      int            `json:"pendingTopUps"`
	PendingTopUpAmount string         `json:"pendingTopUpAmount"`
}

// NewDailySalesResponses converts the weekday figures
func NewDailySalesResponses(days []usecase.DailySales) []DailySalesResponse {
	resp := make([]DailySalesResponse, 0, len(days))
	for _, d := range days {
		resp = append(resp, DailySalesResponse{
			Name:  d.Name,
			Sales: entity.AmountInCentsToString(d.SalesInCents),
		})
	}
	return resp
}

// NewSummaryResponse converts the dashboard summary
func NewSummaryResponse(s *usecase.SalesSummary) SummaryResponse {
	return SummaryResponse{
		OrdersByStatus:     s.OrdersByStatus,
		CompletedSales:     entity.AmountInCentsToString(s.CompletedSalesInCents),
		PendingTopUps:      s.PendingTopUps,
		PendingTopUpAmount: entity.AmountInCentsToString(s.PendingTopUpAmountInCents),
	}
}
