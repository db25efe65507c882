package handler

import (
	"net/http"

	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// AnalyticsHandler serves the admin dashboard figures
type AnalyticsHandler struct {
	analyticsUseCase usecase.AnalyticsUseCase
	logger           coreport.Logger
}

// NewAnalyticsHandler creates a new analytics handler instance
func NewAnalyticsHandler(
	analyticsUseCase usecase.AnalyticsUseCase,
	logger coreport.Logger,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsUseCase: analyticsUseCase,
		logger:           logger,
	}
}

// GetSalesByWeekday handles the GET /admin/analytics/sales endpoint
func (h *AnalyticsHandler) GetSalesByWeekday(c *gin.Context) {
	days, err := h.analyticsUseCase.GetSalesByWeekday(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewDailySalesResponses(days))
}

// GetSummary handles the GET /admin/analytics/summary endpoint
func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	summary, err := h.analyticsUseCase.GetSummary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSummaryResponse(summary))
}
