package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fullstack-starter/internal/auth"
	"github.com/spec-kit/fullstack-starter/static"
)

// RootHandler serves the SPA shell and the API welcome document.
type RootHandler struct {
	serviceName string
	version     string
}

// NewRootHandler constructs the handler.
func NewRootHandler(serviceName, version string) *RootHandler {
	return &RootHandler{serviceName: serviceName, version: version}
}

// Welcome handles GET /. Browsers get the embedded SPA shell; API clients
// asking for JSON get a welcome document describing the endpoints.
func (h *RootHandler) Welcome(c *fiber.Ctx) error {
	if c.Accepts(fiber.MIMETextHTML, fiber.MIMEApplicationJSON) == fiber.MIMETextHTML {
		c.Type("html")
		return c.Send(static.IndexHTML())
	}

	body := fiber.Map{
		"message": "Welcome to " + h.serviceName,
		"version": h.version,
		"endpoints": fiber.Map{
			"health": "/api/health",
			"me":     "/api/me",
			"auth":   "/api/auth/*",
			"i18n":   "/api/i18n",
		},
	}
	// Session resolution here is optional: anonymous visitors get the same
	// document without the authenticated marker.
	if result, ok := auth.ResultFromContext(c); ok {
		body["authenticated"] = true
		body["user_id"] = result.User.ID
	}
	return c.JSON(body)
}

// NotFound is the JSON fallback for unmatched routes.
func (h *RootHandler) NotFound(c *fiber.Ctx) error {
	return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "Not Found"})
}
