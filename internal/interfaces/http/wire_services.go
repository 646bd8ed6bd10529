package http

import (
	"context"
	"time"

	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"

	"github.com/campushub/campushub/internal/application/feedback/usecases"
	"github.com/campushub/campushub/internal/domain/feedback"
	vo "github.com/campushub/campushub/internal/domain/feedback/valueobjects"
	"github.com/campushub/campushub/internal/domain/shared/events"
	"github.com/campushub/campushub/internal/infrastructure/auth"
	"github.com/campushub/campushub/internal/infrastructure/config"
	"github.com/campushub/campushub/internal/infrastructure/email"
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

const eventBufferSize = 256

// initInfrastructure creates Redis, JWT, rendering and the event dispatcher.
func (c *Container) initInfrastructure() {
	cfg, log := c.cfg, c.log

	if cfg.Redis.Enabled {
		c.redis = initRedis(cfg, log)
	}

	c.jwtSvc = auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.Issuer, cfg.Auth.JWT.AccessExpMinutes)
	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, log.Named("auth"))
	if c.redis != nil && cfg.Feedback.RateLimit.Enabled {
		c.rateLimiter = ratelimit.NewRedisRateLimiter(c.redis)
	}

	c.txMgr = db.NewTransactionManager(c.db)
	c.renderer = markdown.NewRenderer()
	c.dispatcher = events.NewInMemoryEventDispatcher(eventBufferSize, log.Named("events"))
}

// initRedis creates and tests the Redis client connection. An unreachable
// server disables the Redis-backed features instead of failing startup.
func initRedis(cfg *config.Config, log logger.Interface) *redis.Client {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warnw("failed to connect to Redis, rate limiting and event relay disabled",
			"addr", cfg.Redis.GetAddr(), "error", err)
		_ = redisClient.Close()
		return nil
	}
	log.Infow("Redis connection established successfully")

	return redisClient
}

// initPermissions loads the casbin policy and seeds the default role actions.
// When the policy store cannot be opened the built-in policy is used.
func (c *Container) initPermissions() {
	log := c.log.Named("permission")

	enforcer, err := permission.NewEnforcer(c.db, c.cfg.Feedback.PolicyModelPath, log)
	if err == nil {
		err = permission.InitFeedbackPermissions(enforcer, usecases.DefaultPolicy(), log)
	}
	if err != nil {
		log.Warnw("casbin policy unavailable, falling back to built-in policy", "error", err)
		c.permissions = usecases.StaticPermissionChecker{}
		return
	}

	c.enforcer = enforcer
	c.permissions = enforcer
}

// initEventHandlers subscribes the post-commit consumers of thread events.
func (c *Container) initEventHandlers() error {
	cfg, log := c.cfg, c.log

	if c.redis != nil {
		c.eventBus = pubsub.NewRedisFeedbackEventBus(c.redis, cfg.Feedback.EventChannel, log.Named("event-bus"))
		if err := c.dispatcher.Subscribe(events.AllEvents, c.eventBus); err != nil {
			return err
		}
	}

	if cfg.Search.Enabled {
		client := meilisearch.New(cfg.Search.Host, meilisearch.WithAPIKey(cfg.Search.APIKey))
		c.searchIndex = search.NewThreadIndex(client, cfg.Search.IndexName, log.Named("search"))
		c.searchIndex.Init()
		if err := c.dispatcher.Subscribe(events.AllEvents, c.searchIndex); err != nil {
			return err
		}
	}

	if cfg.Email.Enabled && cfg.Feedback.AdminNotifyAddress != "" {
		mailer := email.NewSMTPEmailService(email.SMTPConfig{
			Host:        cfg.Email.SMTPHost,
			Port:        cfg.Email.SMTPPort,
			Username:    cfg.Email.SMTPUser,
			Password:    cfg.Email.SMTPPassword,
			FromAddress: cfg.Email.FromAddress,
			FromName:    cfg.Email.FromName,
			BaseURL:     cfg.Server.BaseURL,
		})
		notifier := email.NewAdminNotifier(mailer, cfg.Feedback.AdminNotifyAddress, log.Named("notifier"))
		if err := c.dispatcher.Subscribe(events.AllEvents, notifier); err != nil {
			return err
		}
	}

	return nil
}

// initScheduler registers the periodic legacy migration when enabled.
func (c *Container) initScheduler() error {
	jobCfg := c.cfg.Feedback.Migration
	if !jobCfg.ScheduleEnabled {
		return nil
	}

	actor, err := feedback.NewRequester(jobCfg.ActorID, vo.RoleAdmin)
	if err != nil {
		return err
	}

	mgr, err := scheduler.NewSchedulerManager(c.log.Named("scheduler"))
	if err != nil {
		return err
	}
	job := scheduler.NewLegacyMigrationJob(c.ucs.migrateLegacyUC, actor, jobCfg.BatchSize)
	if err := mgr.RegisterLegacyMigrationJob(job, jobCfg.Interval()); err != nil {
		return err
	}

	c.scheduler = mgr
	return nil
}
