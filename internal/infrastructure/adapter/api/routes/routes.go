package routes

import (
	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers groups the HTTP handlers the router dispatches to
type Handlers struct {
	Health    *handler.HealthHandler
	User      *handler.UserHandler
	Wallet    *handler.WalletHandler
	Order     *handler.OrderHandler
	Claim     *handler.ClaimHandler
	Product   *handler.ProductHandler
	Analytics *handler.AnalyticsHandler
}

// SetupRoutes configures all the routes for the API
func SetupRoutes(router *gin.Engine, h Handlers) {
	router.GET("/health", h.Health.Health)

	userRoutes := router.Group("/users")
	{
		userRoutes.POST("", h.User.RegisterUser)
		userRoutes.GET("/lookup", h.User.FindUserByEmail)
		userRoutes.GET("/:userId", h.User.GetUser)
		userRoutes.PATCH("/:userId", h.User.UpdateProfile)
		userRoutes.GET("/:userId/students", h.User.GetLinkedStudents)
		userRoutes.POST("/:userId/students", h.User.LinkStudent)

		userRoutes.GET("/:userId/balance", h.Wallet.GetBalance)
		userRoutes.GET("/:userId/transactions", h.Wallet.GetTransactions)
		userRoutes.POST("/:userId/topups", h.Wallet.RequestTopUp)

		userRoutes.GET("/:userId/orders", h.Order.GetUserOrders)
		userRoutes.POST("/:userId/orders", h.Order.PlaceOrder)
		userRoutes.POST("/:userId/orders/claim", h.Claim.ClaimByCode)
	}

	router.GET("/grades", h.User.ListGradeLevels)
	router.POST("/cards", h.User.RegisterCard)
	router.POST("/kiosk/scan", h.Claim.Scan)

	productRoutes := router.Group("/products")
	{
		productRoutes.GET("", h.Product.ListProducts)
		productRoutes.POST("", h.Product.AddProduct)
		productRoutes.GET("/:productId", h.Product.GetProduct)
		productRoutes.PUT("/:productId", h.Product.UpdateProduct)
		productRoutes.DELETE("/:productId", h.Product.DeleteProduct)
	}

	orderRoutes := router.Group("/orders")
	{
		orderRoutes.GET("", h.Order.GetAllOrders)
		orderRoutes.GET("/:orderId", h.Order.GetOrder)
		orderRoutes.PATCH("/:orderId/status", h.Order.UpdateOrderStatus)
	}

	adminRoutes := router.Group("/admin")
	{
		adminRoutes.GET("/topups/pending", h.Wallet.GetPendingTopUps)
		adminRoutes.POST("/topups/:transactionId/approve", h.Wallet.ApproveTopUp)
		adminRoutes.POST("/topups/:transactionId/decline", h.Wallet.DeclineTopUp)
		adminRoutes.GET("/analytics/sales", h.Analytics.GetSalesByWeekday)
		adminRoutes.GET("/analytics/summary", h.Analytics.GetSummary)
	}

	router.NoRoute(middleware.NotFound())
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger) {
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS())
}
