package bootstrap

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/aviaunion/portal/common/blob"
	"github.com/aviaunion/portal/common/config"
	"github.com/aviaunion/portal/common/db"
	"github.com/aviaunion/portal/common/logger"
	"github.com/aviaunion/portal/common/notify"
	redisWrapper "github.com/aviaunion/portal/common/redis"
)

// Setup initializes all service components.
// This is the main entry point for the portal service.
func Setup(ctx context.Context, serviceName string, opts ...Option) (*Components, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	components := &Components{
		cleanupFuncs: make([]func() error, 0),
	}

	// 1. Load configuration
	var err error
	if options.customConfig != nil {
		components.Config = options.customConfig
	} else {
		components.Config, err = config.Load(serviceName)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	// 2. Initialize logger
	if options.customLogger != nil {
		components.Logger = options.customLogger
	} else {
		components.Logger = logger.New(
			components.Config.Service.LogLevel,
			components.Config.Service.LogFormat,
		)
	}
	// Every line this service emits carries its name and environment
	components.Logger = components.Logger.WithFields(map[string]any{
		"service":     serviceName,
		"environment": components.Config.Service.Environment,
	})

	components.Logger.Info("initializing service")

	// 3. Initialize database (if not skipped)
	if !options.skipDB {
		components.Logger.Info("connecting to database")
		components.DB, err = db.New(ctx, components.Config, components.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		components.addCleanup(func() error {
			components.DB.Close()
			return nil
		})

		if options.dbInitHook != nil {
			components.Logger.Info("running database init hook")
			if err := options.dbInitHook(components.DB); err != nil {
				components.Shutdown(ctx)
				return nil, fmt.Errorf("database init hook failed: %w", err)
			}
		}
	}

	// 4. Initialize Redis (blob store, notifications, rate limits)
	if !options.skipRedis {
		components.Logger.Info("connecting to redis", "addr", components.Config.Redis.Addr)

		raw := goredis.NewClient(&goredis.Options{
			Addr:     components.Config.Redis.Addr,
			Password: components.Config.Redis.Password,
			DB:       components.Config.Redis.DB,
		})

		if err := raw.Ping(ctx).Err(); err != nil {
			components.Shutdown(ctx)
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}

		components.Redis = redisWrapper.NewClient(raw, components.Logger)

		components.addCleanup(func() error {
			components.Logger.Info("closing redis connection")
			return raw.Close()
		})

		components.Blob = blob.NewRedisStore(components.Redis, components.Logger)

		if components.Config.Notify.Enabled {
			components.Notifier = notify.NewRedisDispatcher(
				components.Redis,
				components.Config.Notify.Channel,
				components.Logger,
			)
		} else {
			components.Notifier = notify.NopDispatcher{}
		}
	} else {
		components.Notifier = notify.NopDispatcher{}
	}

	components.Logger.Info("service initialization complete",
		"db", components.DB != nil,
		"redis", components.Redis != nil,
	)

	return components, nil
}
