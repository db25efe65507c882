package handler

import (
	"net/http"

	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// ClaimHandler handles kiosk redemption requests
type ClaimHandler struct {
	claimUseCase usecase.ClaimUseCase
	logger       coreport.Logger
}

// NewClaimHandler creates a new claim handler instance
func NewClaimHandler(
	claimUseCase usecase.ClaimUseCase,
	logger coreport.Logger,
) *ClaimHandler {
	return &ClaimHandler{
		claimUseCase: claimUseCase,
		logger:       logger,
	}
}

// Scan handles the POST /kiosk/scan endpoint
func (h *ClaimHandler) Scan(c *gin.Context) {
	var req dto.ScanRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.claimUseCase.ResolveClaim(c.Request.Context(), req.RFID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newClaimResponse(result))
}

// ClaimByCode handles the POST /users/:userId/orders/claim endpoint
func (h *ClaimHandler) ClaimByCode(c *gin.Context) {
	var req dto.ClaimByCodeRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.claimUseCase.ClaimByCode(c.Request.Context(), c.Param("userId"), req.Code)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newClaimResponse(result))
}

func newClaimResponse(result *usecase.ClaimResult) dto.ClaimResponse {
	return dto.ClaimResponse{
		UserID:   result.UserID,
		UserName: result.UserName,
		Order:    dto.NewOrderResponse(result.Order),
	}
}
