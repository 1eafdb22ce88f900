package http_test

import (
	"encoding/json"
	"errors"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/fullstack-starter/internal/api/http"
	"github.com/spec-kit/fullstack-starter/internal/observability"
	"github.com/spec-kit/fullstack-starter/pkg/apperr"
)

func newTestApp(development bool) (*fiber.App, *httptransport.ErrorResponder) {
	responder := httptransport.NewErrorResponder(zap.NewNop(), observability.NewMetrics(), development)
	app := fiber.New(fiber.Config{ErrorHandler: responder.FiberErrorHandler()})
	app.Use(responder.Middleware())
	return app, responder
}

func doRequest(t *testing.T, app *fiber.App, method, path string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body), "response must always be JSON: %s", raw)
	return resp.StatusCode, body
}

func TestApplicationErrorWithCode(t *testing.T) {
	app, _ := newTestApp(false)
	app.Get("/product", func(c *fiber.Ctx) error {
		return apperr.NewWithCode("Product not found", nethttp.StatusNotFound, "PRODUCT_NOT_FOUND")
	})

	status, body := doRequest(t, app, nethttp.MethodGet, "/product")

	assert.Equal(t, nethttp.StatusNotFound, status)
	assert.Equal(t, map[string]any{
		"error": "Product not found",
		"code":  "PRODUCT_NOT_FOUND",
	}, body)
}

func TestApplicationErrorWithoutCode(t *testing.T) {
	app, _ := newTestApp(false)
	app.Get("/product", func(c *fiber.Ctx) error {
		return apperr.New("Invalid product ID", nethttp.StatusBadRequest)
	})

	status, body := doRequest(t, app, nethttp.MethodGet, "/product")

	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, map[string]any{"error": "Invalid product ID"}, body)
	_, hasCode := body["code"]
	assert.False(t, hasCode)
}

func TestUnclassifiedProductionHidesDetail(t *testing.T) {
	app, _ := newTestApp(false)
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("Database connection failed")
	})

	status, body := doRequest(t, app, nethttp.MethodGet, "/boom")

	assert.Equal(t, nethttp.StatusInternalServerError, status)
	assert.Equal(t, map[string]any{"error": "Internal server error"}, body)
	assert.Len(t, body, 1, "production body must carry exactly the error key")
}

func TestUnclassifiedDevelopmentLeaksDiagnostics(t *testing.T) {
	app, _ := newTestApp(true)
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("Database connection failed")
	})

	status, body := doRequest(t, app, nethttp.MethodGet, "/boom")

	assert.Equal(t, nethttp.StatusInternalServerError, status)
	assert.Equal(t, "Internal server error", body["error"])
	assert.Equal(t, "Database connection failed", body["message"])
	stack, ok := body["stack"].(string)
	require.True(t, ok)
	assert.NotEmpty(t, stack)
}

func TestValidationErrorDetails(t *testing.T) {
	app, _ := newTestApp(false)
	app.Post("/signup", func(c *fiber.Ctx) error {
		return apperr.NewValidation(
			apperr.FieldDetail{Path: "email", Message: "Email is required"},
			apperr.FieldDetail{Path: "password", Message: "Password must be at least 8 characters"},
		)
	})

	status, body := doRequest(t, app, nethttp.MethodPost, "/signup")

	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, "Validation failed", body["error"])

	details, ok := body["details"].([]any)
	require.True(t, ok)
	require.Len(t, details, 2)
	first, ok := details[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "email", first["path"])
	assert.Equal(t, "Email is required", first["message"])
}

func TestUnauthenticated(t *testing.T) {
	app, _ := newTestApp(false)
	app.Get("/private", func(c *fiber.Ctx) error {
		return apperr.ErrUnauthenticated
	})

	status, body := doRequest(t, app, nethttp.MethodGet, "/private")

	assert.Equal(t, nethttp.StatusUnauthorized, status)
	assert.Equal(t, map[string]any{"error": "Unauthorized"}, body)
}

func TestPanicIsRecoveredAndClassified(t *testing.T) {
	app, _ := newTestApp(false)
	app.Get("/panic", func(c *fiber.Ctx) error {
		panic("something went sideways")
	})

	status, body := doRequest(t, app, nethttp.MethodGet, "/panic")

	assert.Equal(t, nethttp.StatusInternalServerError, status)
	assert.Equal(t, map[string]any{"error": "Internal server error"}, body)
}

func TestPanicInDevelopmentIncludesStack(t *testing.T) {
	app, _ := newTestApp(true)
	app.Get("/panic", func(c *fiber.Ctx) error {
		panic("something went sideways")
	})

	status, body := doRequest(t, app, nethttp.MethodGet, "/panic")

	assert.Equal(t, nethttp.StatusInternalServerError, status)
	assert.Equal(t, "panic: something went sideways", body["message"])
	assert.NotEmpty(t, body["stack"])
}

func TestWithErrorBoundary_SuccessPassesThrough(t *testing.T) {
	// No pipeline middleware here: the per-route wrapper must stand alone.
	responder := httptransport.NewErrorResponder(zap.NewNop(), observability.NewMetrics(), false)
	app := fiber.New()
	app.Get("/ok", responder.WithErrorBoundary(func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	}))

	status, body := doRequest(t, app, nethttp.MethodGet, "/ok")

	assert.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, map[string]any{"status": "ok"}, body)
}

func TestWithErrorBoundary_FailureIsResponded(t *testing.T) {
	responder := httptransport.NewErrorResponder(zap.NewNop(), observability.NewMetrics(), false)
	app := fiber.New()
	app.Get("/fail", responder.WithErrorBoundary(func(c *fiber.Ctx) error {
		return apperr.NewWithCode("Quota exceeded", nethttp.StatusTooManyRequests, "QUOTA_EXCEEDED")
	}))

	status, body := doRequest(t, app, nethttp.MethodGet, "/fail")

	assert.Equal(t, nethttp.StatusTooManyRequests, status)
	assert.Equal(t, map[string]any{"error": "Quota exceeded", "code": "QUOTA_EXCEEDED"}, body)
}

func TestFiberErrorsFoldIntoApplicationBranch(t *testing.T) {
	app, _ := newTestApp(false)
	app.Get("/teapot", func(c *fiber.Ctx) error {
		return fiber.NewError(nethttp.StatusTeapot, "short and stout")
	})

	status, body := doRequest(t, app, nethttp.MethodGet, "/teapot")

	assert.Equal(t, nethttp.StatusTeapot, status)
	assert.Equal(t, map[string]any{"error": "short and stout"}, body)
}

func TestErrorMetricsAreRecorded(t *testing.T) {
	metrics := observability.NewMetrics()
	responder := httptransport.NewErrorResponder(zap.NewNop(), metrics, false)

	app := fiber.New(fiber.Config{ErrorHandler: responder.FiberErrorHandler()})
	app.Use(responder.Middleware())
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("nope")
	})

	doRequest(t, app, nethttp.MethodGet, "/boom")

	_, errCounts := metrics.Snapshot()
	assert.Equal(t, int64(1), errCounts["/boom|GET|unclassified"])
}
