package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/niftrix/referral-admin/internal/api/http"
	"github.com/niftrix/referral-admin/internal/api/http/handlers"
	"github.com/niftrix/referral-admin/internal/auth"
	"github.com/niftrix/referral-admin/internal/config"
	"github.com/niftrix/referral-admin/internal/events"
	"github.com/niftrix/referral-admin/internal/mailer"
	"github.com/niftrix/referral-admin/internal/observability"
	"github.com/niftrix/referral-admin/internal/persistence"
	"github.com/niftrix/referral-admin/internal/repository"
	"github.com/niftrix/referral-admin/internal/service"
	"github.com/niftrix/referral-admin/internal/worker"
)

const shutdownTimeout = 10 * time.Second

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

	metrics := observability.NewMetrics()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userStore := repository.NewUserStore(pool)
	adminRepo := repository.NewAdminRepository(pool)
	referralRepo := repository.NewReferralRepository(pool)
	premiumRepo := repository.NewPremiumRepository(pool)
	profileRepo := repository.NewProfileRepository(pool)
	referenceRepo := repository.NewReferenceRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)

	mail := mailer.New(cfg.Mail, logger)
	dispatcher := events.NewInMemoryDispatcher()
	auditService := service.NewAuditService(service.AuditDependencies{
		Dispatcher: dispatcher,
		Entries:    auditRepo,
		Logger:     logger,
		Metrics:    metrics,
	})
	worker.StartAuditWorker(auditService)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	revoked := auth.NewRedisRevocationStore(redis.Client)
	authService := service.NewAuthService(adminRepo, tokens, revoked, logger)
	if cfg.Auth.BootstrapEmail != "" {
		if _, err := authService.EnsureAdmin(ctx, cfg.Auth.BootstrapEmail, cfg.Auth.BootstrapName, cfg.Auth.BootstrapPassword, cfg.Auth.BcryptCost); err != nil {
			logger.Fatal("failed to bootstrap admin", zap.Error(err))
		}
	}
	gate := auth.NewGate(tokens, revoked, cfg.Auth.CookieName, logger)

	lifecycleService := service.NewLifecycleService(service.LifecycleDependencies{
		Users:      userStore,
		Mail:       mail,
		Timeout:    cfg.Lifecycle.Timeout(),
		Dispatcher: dispatcher,
		Logger:     logger,
		Metrics:    metrics,
	})
	notificationService := service.NewNotificationService(service.NotificationDependencies{
		Users:      userStore,
		Mail:       mail,
		BulkMax:    cfg.Mail.BulkMax,
		Dispatcher: dispatcher,
		Logger:     logger,
		Metrics:    metrics,
	})
	importService := service.NewImportService(userStore, referenceRepo, dispatcher, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.Upload.MaxBytes,
		ErrorHandler: httptransport.ErrorHandler(logger, metrics),
	})
	httptransport.RegisterMiddlewares(app, cfg.App, logger, metrics)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version,
			handlers.Dependency{Name: "postgres", Pinger: pg},
			handlers.Dependency{Name: "redis", Pinger: redis},
		),
		Auth:      handlers.NewAuthHandler(authService, cfg.Auth),
		Lifecycle: handlers.NewLifecycleHandler(lifecycleService),
		Members: handlers.NewMembersHandler(
			service.NewUserQueryService(userStore),
			service.NewProfileService(userStore, profileRepo, referralRepo, cfg.Files.BaseURL),
		),
		Activity:      handlers.NewActivityHandler(service.NewActivityService(referralRepo, premiumRepo)),
		Premium:       handlers.NewPremiumHandler(service.NewPaymentService(premiumRepo)),
		Imports:       handlers.NewImportHandler(importService),
		Notifications: handlers.NewNotificationHandler(notificationService),
		Audit:         handlers.NewAuditHandler(auditService),
		Gate:          gate,
		Metrics:       metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
