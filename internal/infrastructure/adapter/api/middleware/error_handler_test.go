package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/api/dto"
	coremocks "github.com/amirhossein-jamali/canteen-wallet/mocks/port/core"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestErrorHandlerRecoversPanics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockLogger := coremocks.NewMockLogger(t)
	mockLogger.EXPECT().Error("Panic recovered in API request", mock.Anything).Once()

	router := gin.New()
	router.Use(RequestID(), ErrorHandler(mockLogger), Logger(mockLogger))
	router.GET("/boom", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, errs.CodeInternalServer, resp.Code)
	assert.Equal(t, "System error.", resp.Message)
}

func TestLoggerLevels(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockLogger := coremocks.NewMockLogger(t)
	mockLogger.EXPECT().Info("Request processed", mock.MatchedBy(func(fields map[string]any) bool {
		return fields["status"] == http.StatusOK && fields["route"] == "/items/:id"
	})).Once()
	mockLogger.EXPECT().Debug("Request processed", mock.Anything).Once()

	router := gin.New()
	router.Use(Logger(mockLogger))
	router.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/7", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "Success", statusText(http.StatusCreated))
	assert.Equal(t, "Client Error", statusText(http.StatusNotFound))
	assert.Equal(t, "Server Error", statusText(http.StatusServiceUnavailable))
}
