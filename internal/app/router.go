package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"

	"limo/internal/handler"
	"limo/internal/middleware"
	internalRedis "limo/internal/redis"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	PaymentHandler *handler.PaymentHandler
	BookingHandler *handler.BookingHandler
	HealthHandler  *handler.HealthHandler
	ResponseStore  *internalRedis.ResponseStore // nil disables idempotent-response caching
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	if deps.ResponseStore != nil {
		router.Use(middleware.IdempotencyMiddleware(deps.ResponseStore))
	}

	// API routes.
	api := router.Group("/api")
	{
		api.POST("/process-payment", deps.PaymentHandler.ProcessPayment)
		api.POST("/bookings/create", deps.BookingHandler.CreateBooking)
		api.GET("/health", deps.HealthHandler.Health)
		api.GET("/test-square", deps.HealthHandler.TestSquare)
		api.GET("/test-email", deps.HealthHandler.TestEmail)
	}

	return router
}
