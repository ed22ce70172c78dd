package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mission-backend/internal/missions"
	"mission-backend/internal/services/health"
	"mission-backend/internal/shared/config"
	"mission-backend/internal/shared/metrics"
	"mission-backend/internal/shared/server/middleware"
	"mission-backend/internal/shared/server/respond"
)

// RouterDeps holds handlers mounted on the router.
type RouterDeps struct {
	Config         config.Config
	MissionHandler *missions.Handler
	Health         *health.Service
	// Now drives the rate limiter clock; nil means time.Now.
	Now func() time.Time
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	if deps.Health != nil {
		api.GET("/status", func(c *gin.Context) {
			respond.OK(c, deps.Health.Status(c.Request.Context()))
		})
	}
	if deps.MissionHandler != nil {
		if deps.MissionHandler.ModelLimit == nil {
			deps.MissionHandler.ModelLimit = ModelRateLimit(deps.Config.AnalyzeRateLimitPerMinute, deps.Now)
		}
		deps.MissionHandler.RegisterRoutes(api)
	}

	return r
}

// ModelRateLimit limits routes that call the language model, per client IP.
func ModelRateLimit(perMinute int, now func() time.Time) gin.HandlerFunc {
	return middleware.RateLimit(middleware.RateLimitConfig{
		DefaultGroup: "MODEL",
		Limiter:      middleware.NewRateLimiter(now),
		Rules: map[string]middleware.RateLimitRule{
			"MODEL": middleware.PerMinute(perMinute),
		},
	})
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
