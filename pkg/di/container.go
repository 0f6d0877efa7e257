package di

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tasklist-api/application/serviceimpl"
	"tasklist-api/domain/ports"
	"tasklist-api/domain/repositories"
	"tasklist-api/domain/services"
	"tasklist-api/infrastructure/natsevents"
	"tasklist-api/infrastructure/postgres"
	"tasklist-api/infrastructure/rediscache"
	"tasklist-api/interfaces/api/handlers"
	"tasklist-api/pkg/config"
	"tasklist-api/pkg/logger"
	"tasklist-api/pkg/scheduler"
)

// Container owns construction and teardown of every dependency. Nothing
// in the request path reaches for process-wide state; handlers receive
// what they need through here.
type Container struct {
	Config *config.Config

	// Infrastructure
	DB        *gorm.DB
	Cache     ports.Cache
	Publisher ports.EventPublisher
	Scheduler *scheduler.Scheduler

	// CacheEnabled records whether a real cache backend was wired, as
	// opposed to the no-op stand-in. Only the health report cares.
	CacheEnabled bool

	TaskRepository repositories.TaskRepository

	TaskService services.TaskService

	Handlers *handlers.Handlers
}

func NewContainer() *Container {
	return &Container{}
}

func (c *Container) Initialize() error {
	if err := c.initConfig(); err != nil {
		return err
	}

	if err := c.initLogger(); err != nil {
		return err
	}

	if err := c.initInfrastructure(); err != nil {
		return err
	}

	c.initServices()
	c.initHandlers()
	c.initScheduler()

	return nil
}

func (c *Container) initConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

func (c *Container) initLogger() error {
	return logger.Init(logger.Config{
		Level:      c.Config.Log.Level,
		Format:     c.Config.Log.Format,
		Output:     c.Config.Log.Output,
		FilePath:   c.Config.Log.FilePath,
		MaxSize:    c.Config.Log.MaxSize,
		MaxBackups: c.Config.Log.MaxBackups,
		MaxAge:     c.Config.Log.MaxAge,
		Compress:   c.Config.Log.Compress,
	})
}

func (c *Container) initInfrastructure() error {
	dbConfig := postgres.DatabaseConfig{
		Host:     c.Config.Database.Host,
		Port:     c.Config.Database.Port,
		User:     c.Config.Database.User,
		Password: c.Config.Database.Password,
		DBName:   c.Config.Database.DBName,
		SSLMode:  c.Config.Database.SSLMode,
	}

	db, err := postgres.NewDatabase(dbConfig)
	if err != nil {
		return err
	}
	c.DB = db
	logger.Info("Database connected", "host", c.Config.Database.Host, "db", c.Config.Database.DBName)

	if err := postgres.Migrate(db); err != nil {
		return err
	}
	logger.Info("Database migrated")

	// Cache is optional: unconfigured or unreachable Redis degrades to
	// the no-op cache and every read goes to the store.
	c.Cache = ports.NewNoopCache()
	if c.Config.Redis.URL != "" {
		redisClient, err := rediscache.NewClient(&c.Config.Redis)
		if err != nil {
			logger.Warn("Redis initialization failed, caching disabled", "error", err)
		} else {
			c.Cache = redisClient
			c.CacheEnabled = true
		}
	}

	// Event publishing is optional in the same way.
	c.Publisher = ports.NewNoopPublisher()
	if c.Config.NATS.URL != "" {
		publisher, err := natsevents.NewPublisher(&c.Config.NATS)
		if err != nil {
			logger.Warn("NATS initialization failed, events disabled", "error", err)
		} else {
			c.Publisher = publisher
		}
	}

	return nil
}

func (c *Container) initServices() {
	c.TaskRepository = postgres.NewTaskRepository(c.DB)

	c.TaskService = serviceimpl.NewTaskService(
		c.TaskRepository,
		c.Cache,
		c.Publisher,
		c.Config.Cache,
	)
}

func (c *Container) initHandlers() {
	taskHandler := handlers.NewTaskHandler(c.TaskService)
	healthHandler := handlers.NewHealthHandler(postgres.NewPinger(c.DB), c.Cache, c.CacheEnabled, c.TaskService)

	c.Handlers = handlers.NewHandlers(taskHandler, healthHandler)
}

// initScheduler registers the cache warmer: with a real cache wired, the
// collection keys are re-populated at half their TTL so list and stats
// reads stay hot across expiry.
func (c *Container) initScheduler() {
	if !c.CacheEnabled {
		return
	}

	c.Scheduler = scheduler.New()

	interval := c.Config.Cache.ListTTL / 2
	if interval < 10*time.Second {
		interval = 10 * time.Second
	}

	err := c.Scheduler.AddIntervalJob("cache-warm", interval, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if _, _, err := c.TaskService.ListTasks(ctx); err != nil {
			logger.Warn("Cache warm: list failed", "error", err)
		}
		if _, _, err := c.TaskService.Stats(ctx); err != nil {
			logger.Warn("Cache warm: stats failed", "error", err)
		}
	})
	if err != nil {
		logger.Warn("Failed to register cache warm job", "error", err)
		return
	}

	c.Scheduler.Start()
}

func (c *Container) Cleanup() error {
	if c.Scheduler != nil {
		c.Scheduler.Stop()
	}

	if c.Publisher != nil {
		if err := c.Publisher.Close(); err != nil {
			logger.Warn("Failed to close event publisher", "error", err)
		}
	}

	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			logger.Warn("Failed to close cache", "error", err)
		}
	}

	if c.DB != nil {
		if sqlDB, err := c.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.Warn("Failed to close database", "error", err)
			}
		}
	}

	return nil
}
