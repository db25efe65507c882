package handler

import (
	"fmt"

	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// respondError writes the standard error body with the status the error maps to.
// The error is attached to the context so the request logger records it.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(errs.HTTPStatus(err), dto.ErrorResponse{
		Code:    errs.ErrorCode(err),
		Message: errs.UserMessage(err),
	})
}

// bindJSON decodes the body into req, answering 400 on malformed input
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondError(c, fmt.Errorf("%w: invalid request format: %s", errs.ErrInvalidRequest, err.Error()))
		return false
	}
	return true
}
