package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/campushub/campushub/internal/infrastructure/config"
	"github.com/campushub/campushub/internal/infrastructure/ratelimit"
	"github.com/campushub/campushub/internal/interfaces/http/middleware"
	"github.com/campushub/campushub/internal/interfaces/http/routes"
	"github.com/campushub/campushub/internal/shared/logger"
	"github.com/campushub/campushub/internal/shared/utils"

	_ "github.com/campushub/campushub/docs"
)

// Router represents the HTTP router configuration
type Router struct {
	*Container
}

// NewRouter creates a new HTTP router with all dependencies
func NewRouter(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Router, error) {
	c, err := NewContainer(db, cfg, log)
	if err != nil {
		return nil, err
	}
	return &Router{Container: c}, nil
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	cfg := r.cfg

	if cfg.Telemetry.Enabled {
		r.engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.CustomLogger(r.log.Named("http")))
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	r.engine.Use(middleware.SecurityHeaders())

	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.engine.GET("/health", r.healthCheck)

	var limit gin.HandlerFunc
	if r.rateLimiter != nil {
		limit = middleware.RateLimit(r.rateLimiter, ratelimit.RateLimitConfig{
			Requests: cfg.Feedback.RateLimit.Requests,
			Window:   cfg.Feedback.RateLimit.Window(),
		}, r.log.Named("ratelimit"))
	}

	routes.SetupFeedbackRoutes(r.engine, &routes.FeedbackRouteConfig{
		Handler:        r.hdlrs.feedbackHandler,
		AuthMiddleware: r.authMiddleware,
		RateLimit:      limit,
	})
}

// healthCheck reports whether the database answers a ping.
func (r *Router) healthCheck(c *gin.Context) {
	sqlDB, err := r.db.DB()
	if err == nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		r.log.Warnw("health check failed", "error", err)
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "ok", gin.H{"status": "healthy"})
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
