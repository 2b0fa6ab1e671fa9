// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/franchise-backoffice/internal/config"
	"github.com/javajoker/franchise-backoffice/internal/database"
	"github.com/javajoker/franchise-backoffice/internal/events"
	"github.com/javajoker/franchise-backoffice/internal/i18n"
	"github.com/javajoker/franchise-backoffice/internal/scope"
	"github.com/javajoker/franchise-backoffice/internal/services"
)

// eventBuffer is the in-process queue size used when Redis is disabled.
const eventBuffer = 256

// App is the wired set of collaborators shared by the server and the CLI.
type App struct {
	Config        *config.Config
	DB            *gorm.DB
	Redis         *redis.Client
	Queue         *events.RedisQueue
	Async         *events.Async
	Notifications *services.NotificationService
	Services      *services.Container
}

// SetupLogging configures logrus from the environment.
func SetupLogging(cfg *config.Config) {
	logrus.SetOutput(os.Stdout)
	if cfg.IsProduction() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.WithField("log_level", cfg.LogLevel).Warn("Unknown log level, using info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

// New connects to the database and Redis and builds every service. Events
// go to the Redis queue when Redis is enabled, otherwise to an in-process
// worker that must be started with StartWorkers.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := i18n.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize i18n: %w", err)
	}

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	a := &App{Config: cfg, DB: db}

	mailer, texter, err := services.NewMessengers(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	storage, err := services.NewStorageService(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Notifications = services.NewNotificationService(db, scope.NewResolver(db), mailer, texter, cfg.Frontend.BaseURL)

	deps := services.Dependencies{
		Storage:       storage,
		Payments:      services.NewPaymentGateway(cfg),
		Notifications: a.Notifications,
	}

	if cfg.Redis.Enabled {
		a.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := a.Redis.Ping(ctx).Err(); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.Queue = events.NewRedisQueue(a.Redis, cfg.Redis.QueueKey, a.Notifications.HandleEvent)
		deps.Publisher = a.Queue
		deps.Denylist = services.NewRedisDenylist(a.Redis)
		logrus.WithField("addr", cfg.Redis.Addr()).Info("Redis connected")
	} else {
		a.Async = events.NewAsync(a.Notifications.HandleEvent, eventBuffer)
		deps.Publisher = a.Async
		deps.Denylist = services.NewMemoryDenylist()
	}

	a.Services = services.NewContainer(db, cfg, deps)
	return a, nil
}

// StartWorkers runs the event consumer until ctx is cancelled.
func (a *App) StartWorkers(ctx context.Context) {
	if a.Queue != nil {
		go func() {
			if err := a.Queue.Run(ctx); err != nil {
				logrus.WithError(err).Error("Event queue stopped")
			}
		}()
		return
	}
	if a.Async != nil {
		a.Async.Start(ctx)
	}
}

// Wait blocks until the in-process worker has flushed its queue.
func (a *App) Wait() {
	if a.Async != nil {
		a.Async.Wait()
	}
}

func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logrus.WithError(err).Warn("Failed to close redis client")
		}
	}
	if a.DB != nil {
		database.Close(a.DB)
	}
}
