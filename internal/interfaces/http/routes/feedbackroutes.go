package routes

import (
	"github.com/gin-gonic/gin"

	feedbackhandlers "github.com/campushub/campushub/internal/interfaces/http/handlers/feedback"
	"github.com/campushub/campushub/internal/interfaces/http/middleware"
)

type FeedbackRouteConfig struct {
	Handler        *feedbackhandlers.Handler
	AuthMiddleware *middleware.AuthMiddleware
	// RateLimit is optional; nil disables per-user limiting.
	RateLimit gin.HandlerFunc
}

func SetupFeedbackRoutes(engine *gin.Engine, config *FeedbackRouteConfig) {
	fb := engine.Group("/feedback")
	fb.Use(config.AuthMiddleware.RequireAuth())
	if config.RateLimit != nil {
		fb.Use(config.RateLimit)
	}
	{
		// Role checks happen in the use cases so a denial never depends on the thread id.
		fb.POST("/migrate-v1", config.Handler.MigrateV1)

		threads := fb.Group("/threads")
		threads.GET("", config.Handler.ListThreads)
		threads.POST("", config.Handler.CreateThread)

		threads.POST("/:id/reply", config.Handler.ReplyThread)
		threads.PUT("/:id/status", config.Handler.UpdateStatus)
		threads.PUT("/:id/priority", config.Handler.UpdatePriority)
		threads.POST("/:id/restore", config.Handler.RestoreThread)

		threads.GET("/:id", config.Handler.GetThread)
		threads.DELETE("/:id", config.Handler.DeleteThread)
	}
}
