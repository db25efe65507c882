package handler

import (
	"context"
	"net/http"
	"time"

	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// PingFunc reports whether a backing service is reachable
type PingFunc func(ctx context.Context) error

// HealthHandler reports service liveness
type HealthHandler struct {
	ping   PingFunc
	logger coreport.Logger
}

// NewHealthHandler creates a health handler; ping may be nil
func NewHealthHandler(ping PingFunc, logger coreport.Logger) *HealthHandler {
	return &HealthHandler{ping: ping, logger: logger}
}

// Health handles the GET /health endpoint
func (h *HealthHandler) Health(c *gin.Context) {
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			h.logger.Error("Health check failed", map[string]any{
				"error": err.Error(),
			})
			c.JSON(http.StatusServiceUnavailable, dto.StatusResponse{Status: "unavailable"})
			return
		}
	}

	c.JSON(http.StatusOK, dto.StatusResponse{Status: "ok"})
}
