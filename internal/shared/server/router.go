package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hireview-backend/internal/jobs"
	"hireview-backend/internal/results"
	"hireview-backend/internal/screening"
	"hireview-backend/internal/shared/config"
	"hireview-backend/internal/shared/metrics"
	"hireview-backend/internal/shared/server/middleware"
	"hireview-backend/internal/shared/server/respond"
)

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	Config           config.Config
	ScreeningHandler *screening.Handler
	ResultsHandler   *results.Handler
	JobsHandler      *jobs.Handler
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
		middleware.RateLimit(rateLimits()),
	)

	r.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	deps.ScreeningHandler.RegisterRoutes(api)
	deps.ResultsHandler.RegisterRoutes(api)
	deps.JobsHandler.RegisterRoutes(api)

	return r
}

// rateLimits throttles the expensive ingestion endpoints harder than reads.
func rateLimits() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodGet {
				return "READ"
			}
			switch c.FullPath() {
			case "/api/v1/screenings", "/api/v1/analyses":
				return "INGEST"
			}
			return ""
		},
		Rules: map[string]middleware.RateLimitRule{
			"DEFAULT": {Rate: 5, Burst: 20},
			"READ":    {Rate: 20, Burst: 60},
			"INGEST":  {Rate: 0.5, Burst: 5},
		},
	}
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
