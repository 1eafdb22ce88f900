package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fullstack-starter/internal/persistence"
	"github.com/spec-kit/fullstack-starter/pkg/apperr"
)

// HealthHandler responds to health probes.
type HealthHandler struct {
	serviceName string
	version     string
	postgres    *persistence.Postgres
	redis       *persistence.Redis
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, postgres *persistence.Postgres, redis *persistence.Redis) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, postgres: postgres, redis: redis}
}

// Check handles GET /api/health.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	depStatus := fiber.Map{}
	var down []string

	if err := h.postgres.Ping(ctx); err != nil {
		depStatus["postgres"] = err.Error()
		down = append(down, "postgres")
	} else {
		depStatus["postgres"] = "ok"
	}

	if err := h.redis.Ping(ctx); err != nil {
		depStatus["redis"] = err.Error()
		down = append(down, "redis")
	} else {
		depStatus["redis"] = "ok"
	}

	if len(down) > 0 {
		return apperr.NewWithCode(
			"Dependencies unavailable: "+strings.Join(down, ", "),
			http.StatusServiceUnavailable,
			"DEPENDENCY_UNAVAILABLE",
		)
	}

	return c.JSON(fiber.Map{
		"status":       "ok",
		"service":      h.serviceName,
		"version":      h.version,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
		"dependencies": depStatus,
	})
}
