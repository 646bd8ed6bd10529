package http

import (
	"context"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/campushub/campushub/internal/application/feedback/usecases"
	"github.com/campushub/campushub/internal/domain/shared/events"
	"github.com/campushub/campushub/internal/infrastructure/auth"
	"github.com/campushub/campushub/internal/infrastructure/config"
	"github.com/campushub/campushub/internal/infrastructure/permission"
	"github.com/campushub/campushub/internal/infrastructure/pubsub"
	"github.com/campushub/campushub/internal/infrastructure/ratelimit"
	"github.com/campushub/campushub/internal/infrastructure/scheduler"
	"github.com/campushub/campushub/internal/infrastructure/search"
	"github.com/campushub/campushub/internal/interfaces/http/middleware"
	"github.com/campushub/campushub/internal/shared/db"
	"github.com/campushub/campushub/internal/shared/logger"
	"github.com/campushub/campushub/internal/shared/services/markdown"
)

// Container holds infrastructure components, repositories, use cases and
// handlers, wires them together and tears them down in Shutdown.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	repos *repositories
	ucs   *allUseCases
	hdlrs *allHandlers

	authMiddleware *middleware.AuthMiddleware
	rateLimiter    ratelimit.RateLimiter

	jwtSvc      *auth.JWTService
	txMgr       *db.TransactionManager
	renderer    *markdown.Renderer
	enforcer    *permission.Enforcer
	permissions usecases.PermissionChecker
	searchIndex *search.ThreadIndex

	// Post-commit event fan-out: Redis relay, search indexing, admin mail
	dispatcher *events.InMemoryEventDispatcher
	eventBus   *pubsub.RedisFeedbackEventBus

	// Optional periodic legacy migration; nil when not scheduled
	scheduler *scheduler.SchedulerManager

	shutdownOnce sync.Once
}

// NewContainer creates a Container with all dependencies wired together.
func NewContainer(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	// Section 1: Infrastructure - Redis, JWT, rendering, events
	c.initInfrastructure()

	// Section 2: Authorization - casbin policy, static fallback
	c.initPermissions()

	// Section 3: Repositories
	c.repos = newRepositories(db)

	// Section 4: Event handlers - relay, search index, admin notifications
	if err := c.initEventHandlers(); err != nil {
		return nil, err
	}

	// Section 5: Use cases and handlers
	c.ucs = c.newUseCases()
	c.hdlrs = c.newHandlers()

	// Section 6: Background jobs
	if err := c.initScheduler(); err != nil {
		return nil, err
	}

	return c, nil
}

// Start begins asynchronous event delivery.
func (c *Container) Start() error {
	return c.dispatcher.Start()
}

// StartBackgroundJobs starts scheduled jobs. Only long-running processes
// call it; one-shot CLI commands leave the schedule idle.
func (c *Container) StartBackgroundJobs() {
	if c.scheduler != nil {
		c.scheduler.Start()
	}
}

// MigrateLegacyUseCase exposes the migration job to non-HTTP entry points.
func (c *Container) MigrateLegacyUseCase() usecases.MigrateLegacyExecutor {
	return c.ucs.migrateLegacyUC
}

// JWTService exposes token issuing to the CLI.
func (c *Container) JWTService() *auth.JWTService {
	return c.jwtSvc
}

// Shutdown drains pending event handlers and releases connections. It is safe
// to call more than once.
func (c *Container) Shutdown(_ context.Context) {
	c.shutdownOnce.Do(func() {
		if c.scheduler != nil {
			if err := c.scheduler.Stop(); err != nil {
				c.log.Warnw("failed to stop scheduler", "error", err)
			}
		}
		if c.dispatcher != nil {
			if err := c.dispatcher.Stop(); err != nil {
				c.log.Warnw("failed to stop event dispatcher", "error", err)
			}
		}
		if c.redis != nil {
			if err := c.redis.Close(); err != nil {
				c.log.Warnw("failed to close redis client", "error", err)
			}
		}
	})
}
