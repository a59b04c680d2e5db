package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/parcel-service/internal/api/http"
	"github.com/spec-kit/parcel-service/internal/api/http/handlers"
	"github.com/spec-kit/parcel-service/internal/auth"
	"github.com/spec-kit/parcel-service/internal/cache"
	"github.com/spec-kit/parcel-service/internal/config"
	"github.com/spec-kit/parcel-service/internal/events"
	"github.com/spec-kit/parcel-service/internal/notification"
	"github.com/spec-kit/parcel-service/internal/observability"
	"github.com/spec-kit/parcel-service/internal/persistence"
	"github.com/spec-kit/parcel-service/internal/repository"
	"github.com/spec-kit/parcel-service/internal/repository/memory"
	"github.com/spec-kit/parcel-service/internal/service"
	"github.com/spec-kit/parcel-service/internal/trackingid"
	"github.com/spec-kit/parcel-service/internal/worker"
)

type repositories struct {
	users   repository.UserRepository
	parcels repository.ParcelRepository
	history repository.ParcelHistoryRepository
	ratings repository.RatingRepository
	support repository.SupportRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	repos := buildRepositories(pg)
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)

	renderer, err := notification.NewRenderer()
	if err != nil {
		logger.Fatal("failed to parse mail templates", zap.Error(err))
	}
	var mailer notification.Mailer = notification.NoopMailer{Logger: logger}
	if cfg.Mail.Enabled() {
		mailer = notification.NewSMTPMailer(cfg.Mail)
	} else {
		logger.Warn("MAIL_SMTP_HOST not provided; outbound mail is logged only")
	}

	notificationService := service.NewNotificationService(service.NotificationDependencies{
		Dispatcher: dispatcher,
		Mailer:     mailer,
		Renderer:   renderer,
		Logger:     logger,
		Metrics:    metrics,
		Config:     cfg.Mail,
	})
	worker.StartSubscribers(logger, notificationService)

	parcelService := service.NewParcelService(service.ParcelDependencies{
		ParcelRepo:  repos.parcels,
		HistoryRepo: repos.history,
		Cache:       cache.NewRedisTrackingCache(redis.Client, cfg.Redis.TrackingTTL()),
		IDs:         trackingid.NewGenerator(cfg.Parcel.TrackingPrefix),
		Dispatcher:  dispatcher,
		Logger:      logger,
		Config:      cfg.Parcel,
	})
	ratingService := service.NewRatingService(service.RatingDependencies{
		RatingRepo: repos.ratings,
		ParcelRepo: repos.parcels,
		Logger:     logger,
	})
	supportService := service.NewSupportService(service.SupportDependencies{
		SupportRepo: repos.support,
		Notifier:    notificationService,
		Logger:      logger,
	})
	contactService := service.NewContactService(notificationService, logger)
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo: repos.users,
		Logger:   logger,
	})
	userService := service.NewUserService(cfg.Auth, repos.users)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		UnescapePath: true,
	})
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:           logger,
		Metrics:          metrics,
		Timeout:          cfg.App.RequestTimeout(),
		CORSAllowOrigins: cfg.App.CORSAllowOrigins,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Dependency{
			"postgres": pg,
			"redis":    redis,
		}),
		Users:          handlers.NewUsersHandler(authService, userService),
		Parcels:        handlers.NewParcelsHandler(parcelService),
		Feedback:       handlers.NewFeedbackHandler(ratingService),
		Support:        handlers.NewSupportHandler(supportService, contactService),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

// buildRepositories picks Postgres when a pool is open and the in-memory
// store otherwise.
func buildRepositories(pg *persistence.Postgres) repositories {
	if pg.Enabled() {
		pool := pg.PoolHandle()
		return repositories{
			users:   repository.NewUserRepository(pool),
			parcels: repository.NewParcelRepository(pool),
			history: repository.NewParcelHistoryRepository(pool),
			ratings: repository.NewRatingRepository(pool),
			support: repository.NewSupportRepository(pool),
		}
	}
	store := memory.NewStore()
	return repositories{
		users:   store.Users(),
		parcels: store.Parcels(),
		history: store.ParcelHistory(),
		ratings: store.Ratings(),
		support: store.Support(),
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
