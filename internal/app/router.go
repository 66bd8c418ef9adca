package app

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"photomarket/internal/domain/credits"
	"photomarket/internal/domain/identity"
	"photomarket/internal/domain/marketplace"
	"photomarket/internal/domain/verification"
	"photomarket/internal/events"
	"photomarket/internal/metrics"
	"photomarket/internal/middleware"
)

// NewRouter mounts every route under /api/v1.
func NewRouter(c *Container) *gin.Engine {
	cfg := c.Config

	r := gin.New()
	r.Use(
		middleware.RequestLogger(),
		middleware.ErrorLogger(),
		middleware.CORS(cfg.CORSAllowedOrigins),
		metrics.Middleware(),
	)

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	identityHandler := identity.NewHandler(c.Identity)
	verificationHandler := verification.NewHandler(c.Verification, c.Users)
	creditsHandler := credits.NewHandler(c.Ledger)
	marketHandler := marketplace.NewHandler(c.Marketplace)
	eventsHandler := events.NewHandler(c.Hub, c.JWT, cfg.CORSAllowedOrigins)
	applyLimiter := middleware.NewRateLimiter(cfg.ApplyRatePerSec, cfg.ApplyRateBurst)

	v1 := r.Group("/api/v1")
	{
		// public
		identity.RegisterPublicRoutes(v1, identityHandler)
		marketplace.RegisterPublicRoutes(v1, marketHandler, middleware.OptionalJWTAuth(c.JWT))
		eventsHandler.RegisterRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(c.JWT))
		{
			identity.RegisterProtectedRoutes(protected, identityHandler)
			verification.RegisterRoutes(protected, verificationHandler)
			creditsHandler.RegisterRoutes(protected)
			marketplace.RegisterProtectedRoutes(protected, marketHandler, applyLimiter.Handler())
		}

		admin := protected.Group("/admin")
		admin.Use(middleware.AdminOnly())
		{
			verification.RegisterAdminRoutes(admin, verificationHandler)
		}
	}

	return r
}
