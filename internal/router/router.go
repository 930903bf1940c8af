package router

import (
	"github.com/gin-gonic/gin"

	"larder/internal/handler"
	"larder/internal/middleware"
	"larder/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	authSvc service.AuthService,
	corsOrigins []string,
	authH *handler.AuthHandler,
	invoiceH *handler.InvoiceHandler,
	listH *handler.ShoppingListHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", authH.Login)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	// Invoice routes
	invoices := protected.Group("/invoices")
	invoices.POST("/parse", invoiceH.Parse)
	invoices.GET("", invoiceH.List)
	invoices.GET("/:id", invoiceH.Get)
	invoices.DELETE("/:id", invoiceH.Delete)
	invoices.GET("/:id/pages", invoiceH.PageImages)
	invoices.GET("/:id/export", invoiceH.Export)

	// Shopping list routes
	lists := protected.Group("/shopping-lists")
	lists.POST("/:id/share", listH.Share)
	lists.GET("/:id/roles", listH.Roles)

	return r
}
