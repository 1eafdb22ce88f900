package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"

	"github.com/spec-kit/fullstack-starter/internal/api/http/handlers"
	"github.com/spec-kit/fullstack-starter/internal/auth"
	"github.com/spec-kit/fullstack-starter/static"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	I18n           *handlers.I18nHandler
	Root           *handlers.RootHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.AuthMiddleware.Optional(), cfg.Root.Welcome)
	app.Use("/assets", filesystem.New(filesystem.Config{
		Root: http.FS(static.Assets()),
	}))

	api := app.Group("/api")
	api.Get("/health", cfg.Health.Check)

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Required(), cfg.Auth.Logout)
	authGroup.Get("/:provider", cfg.Auth.OAuthStart)
	authGroup.Get("/:provider/callback", cfg.Auth.OAuthCallback)

	api.Get("/me", cfg.AuthMiddleware.Required(), cfg.Auth.Me)

	api.Get("/i18n", cfg.I18n.Resolve)
	api.Get("/i18n/:locale", cfg.I18n.Dictionary)

	app.Use(cfg.Root.NotFound)
}
