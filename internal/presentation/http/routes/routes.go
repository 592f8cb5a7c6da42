package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dukapos/dukapos-api/internal/config"
	domainRepo "github.com/dukapos/dukapos-api/internal/domain/repository"
	"github.com/dukapos/dukapos-api/internal/presentation/http/handler"
	"github.com/dukapos/dukapos-api/internal/presentation/http/middleware"
	"github.com/dukapos/dukapos-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	Store    *handler.StoreHandler
	Product  *handler.ProductHandler
	Category *handler.CategoryHandler
	Customer *handler.CustomerHandler
	Order    *handler.OrderHandler
	Payment  *handler.PaymentHandler
	Shift    *handler.ShiftHandler
	Document *handler.DocumentHandler
	Refund   *handler.RefundHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	StoreRepo       domainRepo.StoreRepository
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(middleware.StoreMiddleware(deps.StoreRepo))

		// Per-store rate limiter
		rateLimiter := middleware.NewStoreRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Auth/Profile routes
	protected.GET("/profile", h.Auth.Me)
	protected.PUT("/profile", h.Auth.UpdateProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	registerStoreRoutes(protected, h)
	registerProductRoutes(protected, h)
	registerCategoryRoutes(protected, h)
	registerCustomerRoutes(protected, h)
	registerOrderRoutes(protected, h, deps)
	registerPaymentRoutes(protected, h, deps)
	registerShiftRoutes(protected, h)
	registerDocumentRoutes(protected, h)
	registerRefundRoutes(protected, h)
}

func registerStoreRoutes(protected *gin.RouterGroup, h *Handlers) {
	stores := protected.Group("/stores")
	stores.Use(middleware.RequirePermission("manage-stores"))
	{
		stores.GET("", h.Store.List)
		stores.POST("", h.Store.Create)
		stores.GET("/:id", h.Store.Get)
		stores.PUT("/:id", h.Store.Update)
	}
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	products.Use(middleware.RequirePermission("manage-products"))
	{
		products.GET("", h.Product.List)
		products.POST("", middleware.RequireStore(), h.Product.Create)
		products.GET("/low-stock", h.Product.LowStock)
		products.GET("/:id", h.Product.Get)
		products.PUT("/:id", h.Product.Update)
		products.DELETE("/:id", h.Product.Delete)
	}
}

func registerCategoryRoutes(protected *gin.RouterGroup, h *Handlers) {
	categories := protected.Group("/categories")
	categories.Use(middleware.RequirePermission("manage-products"))
	{
		categories.GET("", h.Category.List)
		categories.POST("", h.Category.Create)
		categories.GET("/:id", h.Category.Get)
		categories.PUT("/:id", h.Category.Update)
		categories.DELETE("/:id", h.Category.Delete)
	}
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers) {
	customers := protected.Group("/customers")
	customers.Use(middleware.RequirePermission("manage-customers"))
	{
		customers.GET("", h.Customer.List)
		customers.POST("", middleware.RequireStore(), h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
	}
}

func registerOrderRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	orders := protected.Group("/orders")
	orders.Use(middleware.RequirePermission("manage-orders"))
	{
		orders.GET("", h.Order.List)
		// Order creation uses idempotency middleware to prevent duplicates
		orders.POST("", middleware.RequireStore(), middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Order.Create)
		orders.GET("/:id", h.Order.Get)
		orders.GET("/:id/payments", h.Payment.ListByOrder)
		orders.POST("/:id/cancel", h.Order.Cancel)
	}
}

func registerPaymentRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	payments := protected.Group("/payments")
	payments.Use(middleware.RequirePermission("take-payments"))
	{
		// Payment submission uses idempotency middleware to prevent duplicates
		payments.POST("", middleware.RequireStore(), middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Payment.Submit)
		payments.POST("/:id/cancel", h.Payment.Cancel)
	}
}

func registerShiftRoutes(protected *gin.RouterGroup, h *Handlers) {
	shifts := protected.Group("/shifts")
	shifts.Use(middleware.RequirePermission("manage-shifts"))
	{
		shifts.GET("", h.Shift.List)
		shifts.POST("", middleware.RequireStore(), h.Shift.Open)
		shifts.GET("/current", h.Shift.Current)
		shifts.GET("/:id", h.Shift.Get)
		shifts.POST("/:id/close", h.Shift.Close)
		shifts.POST("/:id/suspend", h.Shift.Suspend)
		shifts.POST("/:id/resume", h.Shift.Resume)
	}
}

func registerDocumentRoutes(protected *gin.RouterGroup, h *Handlers) {
	documents := protected.Group("/documents")
	documents.Use(middleware.RequirePermission("manage-documents"))
	{
		documents.GET("", h.Document.List)
		documents.POST("", middleware.RequireStore(), h.Document.Generate)
		documents.GET("/:id", h.Document.Get)
		documents.GET("/:id/content", h.Document.Content)
		documents.POST("/:id/reprint", h.Document.Reprint)
		documents.POST("/:id/void", h.Document.Void)
	}
}

func registerRefundRoutes(protected *gin.RouterGroup, h *Handlers) {
	refunds := protected.Group("/refunds")
	refunds.Use(middleware.RequirePermission("approve-refunds"))
	{
		refunds.GET("", h.Refund.List)
		refunds.POST("", middleware.RequireStore(), h.Refund.Create)
		refunds.GET("/:id", h.Refund.Get)
		refunds.POST("/:id/transition", h.Refund.Transition)
	}
}
