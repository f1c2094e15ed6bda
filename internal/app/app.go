// Package app wires configuration, storage, the event bus and the HTTP
// modules into one runnable service.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"campuscollab/internal/config"
	"campuscollab/internal/database"
	"campuscollab/internal/docstore"
	"campuscollab/internal/events"
	"campuscollab/internal/middleware"
	"campuscollab/internal/modules/booking"
	"campuscollab/internal/modules/notification"
	"campuscollab/internal/modules/review"
	"campuscollab/internal/modules/skill"
	"campuscollab/internal/modules/user"
	"campuscollab/internal/pkg/jwt"
	"campuscollab/internal/pkg/validator"
	"campuscollab/internal/repository"
	"campuscollab/internal/store"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type App struct {
	cfg     *config.Config
	log     zerolog.Logger
	store   store.Store
	bus     *events.Bus
	hub     *notification.Hub
	cleanup *notification.CleanupJob
	router  *gin.Engine

	cancel  context.CancelFunc
	closers []func() error
}

func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}

	st, closeStore, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.store = st
	a.closers = append(a.closers, closeStore)

	var external message.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		external, err = events.NewKafkaPublisher(cfg.KafkaBrokers, log)
		if err != nil {
			_ = a.closeAll()
			return nil, fmt.Errorf("kafka publisher: %w", err)
		}
		log.Info().Strs("brokers", cfg.KafkaBrokers).Msg("publishing events to kafka")
	}
	a.bus = events.NewBus(log, external)
	a.closers = append(a.closers, a.bus.Close)

	tokens := jwt.New(cfg.JWT.Secret, cfg.JWT.TTL)
	a.hub = notification.NewHub()

	notificationService := notification.NewService(st, a.hub, log)
	a.cleanup, err = notification.NewCleanupJob(notificationService, cfg.Notifications.CleanupCron, cfg.Notifications.Retention, log)
	if err != nil {
		_ = a.closeAll()
		return nil, fmt.Errorf("notification cleanup schedule: %w", err)
	}

	subCtx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	if err := a.bus.SubscribeBookingCompleted(subCtx, notificationService.HandleBookingCompleted); err != nil {
		_ = a.closeAll()
		return nil, fmt.Errorf("subscribe booking.completed: %w", err)
	}

	validator.Register()

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	protected := api.Group("")
	protected.Use(middleware.JWTAuth(tokens))

	user.NewHandler(user.NewService(st, tokens)).RegisterRoutes(api, protected)
	skill.NewHandler(skill.NewService(st)).RegisterRoutes(api, protected)
	booking.NewHandler(booking.NewService(st, a.bus)).RegisterRoutes(protected)
	review.NewHandler(review.NewService(st)).RegisterRoutes(api, protected)
	notification.NewHandler(notificationService, notification.NewWSHandler(a.hub, tokens, log)).RegisterRoutes(api, protected)

	a.router = r
	return a, nil
}

// OpenStore connects the configured backend. The returned func releases it.
func OpenStore(ctx context.Context, cfg *config.Config) (store.Store, func() error, error) {
	switch cfg.StorageBackend {
	case config.BackendRedis:
		rdb, err := docstore.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return docstore.New(rdb), rdb.Close, nil

	default:
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		if err := repository.AutoMigrate(db); err != nil {
			_ = sqlDB.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		return repository.NewStore(db), sqlDB.Close, nil
	}
}

func (a *App) Handler() http.Handler { return a.router }

// Start launches background jobs. The HTTP server is run by the caller.
func (a *App) Start() {
	a.cleanup.Start()
}

// Close stops background work and releases storage. It is safe to call
// without Start.
func (a *App) Close(ctx context.Context) error {
	a.cleanup.Stop(ctx)
	a.hub.Close()
	if a.cancel != nil {
		a.cancel()
	}
	return a.closeAll()
}

func (a *App) closeAll() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
