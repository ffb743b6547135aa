package routes

import (
	"log"
	"net/http"

	_ "restaurant_payments/docs"
	"restaurant_payments/internal/adapter/http/handlers"
	"restaurant_payments/internal/adapter/http/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Handlers groups the HTTP handlers mounted under /v1.
type Handlers struct {
	Payments *handlers.PaymentHandler
	Orders   *handlers.OrderHandler
}

type Options struct {
	ServiceName string
	JWTSecret   string
	// RateLimit and RateBurst apply per client IP to the provider facing routes.
	RateLimit float64
	RateBurst int
	Metrics   http.Handler
}

// NewRouter builds the engine with every route registered.
func NewRouter(h Handlers, opts Options) *gin.Engine {
	router := gin.New()
	setMiddlewares(router, opts.ServiceName)

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.Metrics))
	}

	auth := middleware.JWTAuth(opts.JWTSecret)
	limiter := middleware.NewRateLimiter(opts.RateLimit, opts.RateBurst)

	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addPaymentRoutes(v1, h.Payments, auth, limiter.Middleware())
	addOrderRoutes(v1, h.Orders, h.Payments, auth)
	return router
}

func setMiddlewares(router *gin.Engine, serviceName string) {
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("[payment][http] recovered from panic: %v", recovered)
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
	if serviceName != "" {
		router.Use(otelgin.Middleware(serviceName))
	}
}
