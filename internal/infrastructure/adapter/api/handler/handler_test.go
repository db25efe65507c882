package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/usecase/analytics"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/usecase/claim"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/usecase/order"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/usecase/product"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/usecase/user"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/usecase/wallet"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/api/middleware"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/api/routes"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/lock"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/repository/memory/memorytest"
	timeadapter "github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/time"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, f *memorytest.Fixture, ping handler.PingFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	locker := lock.NewLocalLocker(lock.Options{RetryInterval: time.Millisecond, MaxRetries: 100}, timeadapter.NewRealTimeProvider(), f.Logger)

	router := gin.New()
	routes.SetupMiddlewares(router, f.Logger)
	routes.SetupRoutes(router, routes.Handlers{
		Health:    handler.NewHealthHandler(ping, f.Logger),
		User:      handler.NewUserHandler(user.NewUserUseCase(f.UoW, f.IDs, f.Clock, f.Logger), f.Logger),
		Wallet:    handler.NewWalletHandler(wallet.NewWalletUseCase(f.UoW, f.IDs, f.Clock, f.Logger), f.Logger),
		Order:     handler.NewOrderHandler(order.NewOrderUseCase(f.UoW, f.IDs, f.Clock, f.Logger, order.DefaultConfig()), f.Logger),
		Claim:     handler.NewClaimHandler(claim.NewClaimUseCase(f.UoW, locker, f.IDs, f.Clock, f.Logger, 5*coreport.Second), f.Logger),
		Product:   handler.NewProductHandler(product.NewProductUseCase(f.UoW, f.IDs, f.Clock, f.Logger), f.Logger),
		Analytics: handler.NewAnalyticsHandler(analytics.NewAnalyticsUseCase(f.UoW, nil, f.Logger), f.Logger),
	})
	return router
}

func perform(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func assertError(t *testing.T, w *httptest.ResponseRecorder, status, code int, message string) {
	t.Helper()
	assert.Equal(t, status, w.Code, w.Body.String())
	resp := decode[dto.ErrorResponse](t, w)
	assert.Equal(t, code, resp.Code)
	if message != "" {
		assert.Equal(t, message, resp.Message)
	}
}

func TestWalletOrderAndKioskFlow(t *testing.T) {
	f := memorytest.New(t)
	router := newTestRouter(t, f, nil)

	w := perform(t, router, http.MethodPost, "/users", dto.RegisterUserRequest{Name: "Ana Cruz", Email: "ana@school.edu", Role: "staff"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ana := decode[dto.UserResponse](t, w)
	assert.Equal(t, "0001", ana.WalletID)
	assert.Equal(t, "0.00", ana.Balance)
	assert.Equal(t, "STAFF", ana.Role)

	w = perform(t, router, http.MethodPost, "/cards", dto.RegisterCardRequest{Email: "ana@school.edu", RFID: "ABC123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "ABC123", decode[dto.UserResponse](t, w).RFID)

	w = perform(t, router, http.MethodPost, "/users/"+ana.ID+"/topups", dto.TopUpRequest{Amount: "200"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	topUp := decode[dto.TransactionResponse](t, w)
	assert.Equal(t, "200.00", topUp.Amount)
	assert.Equal(t, "pending", topUp.Status)
	assert.Equal(t, "0001", topUp.UserWalletID)

	w = perform(t, router, http.MethodGet, "/admin/topups/pending", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]dto.TransactionResponse](t, w), 1)

	w = perform(t, router, http.MethodPost, "/admin/topups/"+topUp.ID+"/approve", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decision := decode[dto.TopUpDecisionResponse](t, w)
	assert.Equal(t, "200.00", decision.ResultBalance)
	assert.Equal(t, "approved", decision.Transaction.Status)

	w = perform(t, router, http.MethodPost, "/admin/topups/"+topUp.ID+"/decline", nil)
	assertError(t, w, http.StatusConflict, errs.CodeAlreadyProcessed, "Transaction already processed")

	f.SeedProduct(t, "p-1", "Chicken Teriyaki Rice", 8500, 10)
	f.SeedProduct(t, "p-2", "Family Platter", 10000, 5)

	w = perform(t, router, http.MethodPost, "/users/"+ana.ID+"/orders", dto.PlaceOrderRequest{
		Items:       []dto.OrderItemRequest{{ProductID: "p-1", Quantity: 1}},
		TotalAmount: "85.00",
		MealType:    "lunch",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	placed := decode[dto.OrderResponse](t, w)
	assert.Equal(t, "pending", placed.Status)
	assert.Equal(t, "85.00", placed.TotalAmount)
	require.Len(t, placed.Items, 1)
	assert.Equal(t, "Chicken Teriyaki Rice", placed.Items[0].Name)
	assert.Len(t, placed.ClaimCode, 6)

	w = perform(t, router, http.MethodGet, "/users/"+ana.ID+"/balance", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.BalanceResponse{UserID: ana.ID, WalletID: "0001", Balance: "115.00"}, decode[dto.BalanceResponse](t, w))

	w = perform(t, router, http.MethodPost, "/users/"+ana.ID+"/orders", dto.PlaceOrderRequest{
		Items:       []dto.OrderItemRequest{{ProductID: "p-2", Quantity: 2}},
		TotalAmount: "200.00",
		MealType:    "lunch",
	})
	assertError(t, w, http.StatusUnprocessableEntity, errs.CodeInsufficientFunds, "Insufficient wallet balance")

	w = perform(t, router, http.MethodPost, "/kiosk/scan", dto.ScanRequest{RFID: "ABC123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	claimed := decode[dto.ClaimResponse](t, w)
	assert.Equal(t, "Ana Cruz", claimed.UserName)
	assert.Equal(t, placed.ID, claimed.Order.ID)
	assert.Equal(t, "claimed", claimed.Order.Status)
	assert.NotNil(t, claimed.Order.ClaimedAt)

	w = perform(t, router, http.MethodPost, "/kiosk/scan", dto.ScanRequest{RFID: "ABC123"})
	assertError(t, w, http.StatusNotFound, errs.CodeNoPendingOrder, "No pending orders for Ana Cruz.")

	w = perform(t, router, http.MethodPost, "/kiosk/scan", dto.ScanRequest{RFID: "ZZZ999"})
	assertError(t, w, http.StatusNotFound, errs.CodeCardNotRegistered, "Card not registered.")

	w = perform(t, router, http.MethodGet, "/users/"+ana.ID+"/transactions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	ledger := decode[[]dto.TransactionResponse](t, w)
	require.Len(t, ledger, 2)
	assert.Equal(t, "debit", ledger[0].Type)
	assert.Equal(t, "Order for 1 items", ledger[0].Description)
	assert.Equal(t, "topup", ledger[1].Type)

	w = perform(t, router, http.MethodGet, "/admin/analytics/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[dto.SummaryResponse](t, w)
	assert.Equal(t, 1, summary.OrdersByStatus["claimed"])
	assert.Equal(t, "85.00", summary.CompletedSales)
	assert.Equal(t, 0, summary.PendingTopUps)

	w = perform(t, router, http.MethodGet, "/admin/analytics/sales", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]dto.DailySalesResponse](t, w), 7)
}

func TestClaimByCodeAndOrderStatus(t *testing.T) {
	f := memorytest.New(t)
	router := newTestRouter(t, f, nil)
	ana := f.SeedUser(t, "u-1", "Ana", "ana@school.edu", "", "0001", 20000)
	first := f.SeedOrder(t, "o-1", ana, 8500, "K7Q2ZP")
	second := f.SeedOrder(t, "o-2", ana, 4500, "B4X9QA")

	w := perform(t, router, http.MethodPost, "/users/u-1/orders/claim", dto.ClaimByCodeRequest{Code: "b4x9qa"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, second.ID, decode[dto.ClaimResponse](t, w).Order.ID)

	w = perform(t, router, http.MethodPatch, "/orders/"+first.ID+"/status", dto.UpdateOrderStatusRequest{Status: "cancelled"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "cancelled", decode[dto.OrderResponse](t, w).Status)
	assert.Equal(t, int64(28500), f.Balance(t, "u-1"))

	w = perform(t, router, http.MethodPatch, "/orders/"+first.ID+"/status", dto.UpdateOrderStatusRequest{Status: "ready"})
	assertError(t, w, http.StatusConflict, errs.CodeInvalidStatusTransition, "")

	w = perform(t, router, http.MethodPatch, "/orders/"+first.ID+"/status", dto.UpdateOrderStatusRequest{Status: "served"})
	assertError(t, w, http.StatusBadRequest, errs.CodeInvalidOrderStatus, "")

	w = perform(t, router, http.MethodGet, "/orders/missing", nil)
	assertError(t, w, http.StatusNotFound, errs.CodeOrderNotFound, "")

	w = perform(t, router, http.MethodGet, "/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]dto.OrderResponse](t, w), 2)

	w = perform(t, router, http.MethodGet, "/users/u-1/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	orders := decode[[]dto.OrderResponse](t, w)
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID, "newest first")
}

func TestUserEndpoints(t *testing.T) {
	f := memorytest.New(t)
	router := newTestRouter(t, f, nil)

	w := perform(t, router, http.MethodPost, "/users", dto.RegisterUserRequest{
		Name: "Ben Cruz", Email: "ben@school.edu", Role: "student", GradeLevel: "Grade 1", Section: "Rizal",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	student := decode[dto.UserResponse](t, w)
	assert.Equal(t, "Grade 1", student.GradeLevel)
	assert.True(t, student.RequiresParent)

	w = perform(t, router, http.MethodPost, "/users", dto.RegisterUserRequest{Name: "Maria Cruz", Email: "maria@example.com", Role: "parent"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	parent := decode[dto.UserResponse](t, w)
	assert.Equal(t, "0002", parent.WalletID)

	w = perform(t, router, http.MethodPost, "/users", dto.RegisterUserRequest{Name: "Copy", Email: "MARIA@example.com", Role: "staff"})
	assertError(t, w, http.StatusConflict, errs.CodeDuplicateUser, "")

	w = perform(t, router, http.MethodPost, "/users", dto.RegisterUserRequest{Name: "Kid", Role: "student", GradeLevel: "Grade 13"})
	assertError(t, w, http.StatusBadRequest, errs.CodeInvalidProfile, "")

	w = perform(t, router, http.MethodPost, "/users/"+parent.ID+"/students", dto.LinkStudentRequest{Email: "ben@school.edu"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{student.ID}, decode[dto.UserResponse](t, w).LinkedStudentIDs)

	w = perform(t, router, http.MethodGet, "/users/"+parent.ID+"/students", nil)
	require.Equal(t, http.StatusOK, w.Code)
	linked := decode[[]dto.UserResponse](t, w)
	require.Len(t, linked, 1)
	assert.Equal(t, "Ben Cruz", linked[0].Name)

	w = perform(t, router, http.MethodGet, "/users/lookup?email=BEN@school.edu", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, student.ID, decode[dto.UserResponse](t, w).ID)

	w = perform(t, router, http.MethodGet, "/users/lookup", nil)
	assertError(t, w, http.StatusBadRequest, errs.CodeInvalidRequest, "")

	grade := "Grade 2"
	w = perform(t, router, http.MethodPatch, "/users/"+student.ID, dto.UpdateProfileRequest{GradeLevel: &grade})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Grade 2", decode[dto.UserResponse](t, w).GradeLevel)

	grade = "Grade 5"
	w = perform(t, router, http.MethodPatch, "/users/"+student.ID, dto.UpdateProfileRequest{GradeLevel: &grade})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.False(t, decode[dto.UserResponse](t, w).RequiresParent)
	assert.NotContains(t, w.Body.String(), "requiresParent")

	w = perform(t, router, http.MethodGet, "/grades", nil)
	require.Equal(t, http.StatusOK, w.Code)
	grades := decode[[]dto.GradeLevelResponse](t, w)
	require.NotEmpty(t, grades)
	assert.Equal(t, dto.GradeLevelResponse{Label: "Kindergarten", Value: "Kinder", RequiresParent: true}, grades[0])
	for _, g := range grades {
		assert.Equal(t, entity.IsRestrictedGrade(g.Value), g.RequiresParent, g.Value)
	}

	w = perform(t, router, http.MethodGet, "/users/nobody", nil)
	assertError(t, w, http.StatusNotFound, errs.CodeUserNotFound, "User not found.")

	w = perform(t, router, http.MethodPost, "/cards", dto.RegisterCardRequest{Email: "ben@school.edu", RFID: "CARD-1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = perform(t, router, http.MethodPost, "/cards", dto.RegisterCardRequest{Email: "maria@example.com", RFID: "CARD-1"})
	assertError(t, w, http.StatusConflict, errs.CodeCardAlreadyRegistered, "")
}

func TestProductEndpoints(t *testing.T) {
	f := memorytest.New(t)
	router := newTestRouter(t, f, nil)

	w := perform(t, router, http.MethodPost, "/products", dto.ProductRequest{Name: "Fresh Orange Juice", Price: "35", Category: "Drinks", Stock: 80})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	juice := decode[dto.ProductResponse](t, w)
	assert.Equal(t, "35.00", juice.Price)
	assert.True(t, juice.Available)

	off := false
	w = perform(t, router, http.MethodPost, "/products", dto.ProductRequest{Name: "Cookie", Price: "20.00", Category: "Dessert", Available: &off})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.False(t, decode[dto.ProductResponse](t, w).Available)

	w = perform(t, router, http.MethodPost, "/products", dto.ProductRequest{Name: "Water", Price: "0"})
	assertError(t, w, http.StatusBadRequest, errs.CodeInvalidAmount, "")

	price := "40.50"
	w = perform(t, router, http.MethodPut, "/products/"+juice.ID, dto.ProductUpdateRequest{Price: &price})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "40.50", decode[dto.ProductResponse](t, w).Price)

	w = perform(t, router, http.MethodGet, "/products", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]dto.ProductResponse](t, w), 2)

	w = perform(t, router, http.MethodDelete, "/products/"+juice.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = perform(t, router, http.MethodGet, "/products/"+juice.ID, nil)
	assertError(t, w, http.StatusNotFound, errs.CodeProductNotFound, "")
}

func TestRequestHandling(t *testing.T) {
	t.Run("Malformed body", func(t *testing.T) {
		router := newTestRouter(t, memorytest.New(t), nil)

		w := perform(t, router, http.MethodPost, "/kiosk/scan", `{"rfid":`)
		assertError(t, w, http.StatusBadRequest, errs.CodeInvalidRequest, "")

		w = perform(t, router, http.MethodPost, "/users/u-1/orders", dto.PlaceOrderRequest{TotalAmount: "10", MealType: "lunch"})
		assertError(t, w, http.StatusBadRequest, errs.CodeInvalidRequest, "")

		w = perform(t, router, http.MethodPost, "/users/u-1/orders", dto.PlaceOrderRequest{
			Items: []dto.OrderItemRequest{{ProductID: "p-1", Quantity: 1}}, TotalAmount: "-5", MealType: "lunch",
		})
		assertError(t, w, http.StatusBadRequest, errs.CodeInvalidAmount, "")
	})

	t.Run("Unknown route", func(t *testing.T) {
		router := newTestRouter(t, memorytest.New(t), nil)

		w := perform(t, router, http.MethodGet, "/nowhere", nil)
		assertError(t, w, http.StatusNotFound, errs.CodeInvalidRequest, "Route not found")
	})

	t.Run("Request ID is echoed or generated", func(t *testing.T) {
		router := newTestRouter(t, memorytest.New(t), nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(middleware.RequestIDHeader, "req-42")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, "req-42", w.Header().Get(middleware.RequestIDHeader))

		w = perform(t, router, http.MethodGet, "/health", nil)
		assert.Len(t, w.Header().Get(middleware.RequestIDHeader), 36)
	})

	t.Run("Preflight", func(t *testing.T) {
		router := newTestRouter(t, memorytest.New(t), nil)

		w := perform(t, router, http.MethodOptions, "/products", nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestHealth(t *testing.T) {
	t.Run("Healthy", func(t *testing.T) {
		router := newTestRouter(t, memorytest.New(t), func(context.Context) error { return nil })

		w := perform(t, router, http.MethodGet, "/health", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", decode[dto.StatusResponse](t, w).Status)
	})

	t.Run("Store down", func(t *testing.T) {
		router := newTestRouter(t, memorytest.New(t), func(context.Context) error { return errors.New("connection refused") })

		w := perform(t, router, http.MethodGet, "/health", nil)
		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "unavailable", decode[dto.StatusResponse](t, w).Status)
	})
}
