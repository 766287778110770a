package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/SscSPs/ledger_core/cmd/docs"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/middleware"
	"github.com/SscSPs/ledger_core/internal/platform/config"
)

// NewRouter builds the gin engine with global middleware and every route registered.
func NewRouter(
	cfg *config.Config,
	logger *slog.Logger,
	services *portssvc.ServiceContainer,
	idempotency portsrepo.IdempotencyStore,
) (*gin.Engine, error) {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	if err := r.SetTrustedProxies(nil); err != nil {
		return nil, fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	if err := RegisterRoutes(r, cfg, services, idempotency); err != nil {
		return nil, err
	}
	return r, nil
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	idempotency portsrepo.IdempotencyStore,
) error {
	if err := registerValidators(); err != nil {
		return err
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", idempotencyHeader, "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", idempotentReplayHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	limiterInstance, err := middleware.NewMemoryLimiter(cfg.RateLimit)
	if err != nil {
		return err
	}

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	setupAPIV1Routes(r, cfg, services, idempotency, middleware.RateLimit(limiterInstance))

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupAPIV1Routes configures the /api/v1 group and delegates to the per-resource registrations.
// Everything except entity creation and exchange rates hangs off /entities/:entityID.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	idempotency portsrepo.IdempotencyStore,
	rateLimit gin.HandlerFunc,
) {
	v1 := r.Group("/api/v1", rateLimit, middleware.AuthMiddleware(cfg.JWTSecret))

	registerEntityRoutes(v1, services.Entity)
	registerExchangeRateRoutes(v1, services.ExchangeRate)

	entity := v1.Group("/entities/:entityID")
	registerAccountRoutes(entity, services.Account)
	registerPeriodRoutes(entity, services.Period, services.Ledger)
	registerJournalRoutes(entity, services.Ledger, idempotency, cfg.IdempotencyTTL)
	registerReportingRoutes(entity, services.Reporting)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// actingUser pulls the JWT subject set by AuthMiddleware.
func actingUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}
