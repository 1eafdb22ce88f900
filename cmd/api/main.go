package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/fullstack-starter/internal/api/http"
	"github.com/spec-kit/fullstack-starter/internal/api/http/handlers"
	"github.com/spec-kit/fullstack-starter/internal/auth"
	"github.com/spec-kit/fullstack-starter/internal/auth/provider"
	"github.com/spec-kit/fullstack-starter/internal/auth/provider/github"
	"github.com/spec-kit/fullstack-starter/internal/auth/provider/google"
	"github.com/spec-kit/fullstack-starter/internal/config"
	"github.com/spec-kit/fullstack-starter/internal/events"
	"github.com/spec-kit/fullstack-starter/internal/i18n"
	"github.com/spec-kit/fullstack-starter/internal/observability"
	"github.com/spec-kit/fullstack-starter/internal/persistence"
	"github.com/spec-kit/fullstack-starter/internal/repository"
	"github.com/spec-kit/fullstack-starter/internal/service"
	"github.com/spec-kit/fullstack-starter/internal/session"
	"github.com/spec-kit/fullstack-starter/internal/worker"
)

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

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	accountRepo := repository.NewAccountRepository(pool)

	sessionStore := session.NewRedisStore(redis.Client)
	sessionManager := session.NewManager(sessionStore, cfg.Session, cfg.Auth.CacheSignSecret, logger)

	registry := provider.NewRegistry(buildProviders(ctx, cfg, logger)...)

	dispatcher := events.NewInMemoryDispatcher()
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:    userRepo,
		AccountRepo: accountRepo,
		Sessions:    sessionManager,
		Providers:   registry,
		Dispatcher:  dispatcher,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	cookieOpts := session.CookieOptions{
		Name:   cfg.Session.CookieName,
		Domain: cfg.Session.CookieDomain,
		Secure: !cfg.App.IsDevelopment(),
	}
	authMiddleware := auth.NewMiddleware(authService, cookieOpts, cfg.Session.CookieCacheMaxAge())

	metrics := observability.NewMetrics()
	responder := httptransport.NewErrorResponder(logger, metrics, cfg.App.IsDevelopment())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: responder.FiberErrorHandler(),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, responder, *cfg)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService, cookieOpts, cfg.App.FrontendURL),
		I18n:           handlers.NewI18nHandler(i18n.NewCatalog()),
		Root:           handlers.NewRootHandler(cfg.App.Name, cfg.App.Version),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func buildProviders(ctx context.Context, cfg *config.Config, logger *zap.Logger) []provider.OAuthProvider {
	var providers []provider.OAuthProvider

	if cfg.OAuth.Google.ClientID != "" {
		p, err := google.New(ctx,
			cfg.OAuth.Google.ClientID,
			cfg.OAuth.Google.ClientSecret,
			cfg.OAuth.RedirectBaseURL+"/api/auth/google/callback",
		)
		if err != nil {
			logger.Warn("google provider disabled", zap.Error(err))
		} else {
			providers = append(providers, p)
		}
	}

	if cfg.OAuth.GitHub.ClientID != "" {
		p, err := github.New(
			cfg.OAuth.GitHub.ClientID,
			cfg.OAuth.GitHub.ClientSecret,
			cfg.OAuth.RedirectBaseURL+"/api/auth/github/callback",
		)
		if err != nil {
			logger.Warn("github provider disabled", zap.Error(err))
		} else {
			providers = append(providers, p)
		}
	}

	if len(providers) == 0 {
		logger.Info("no oauth providers configured")
	}
	return providers
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
