package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/fullstack-starter/internal/api/http"
	"github.com/spec-kit/fullstack-starter/internal/auth"
	"github.com/spec-kit/fullstack-starter/internal/domain"
	"github.com/spec-kit/fullstack-starter/internal/observability"
	"github.com/spec-kit/fullstack-starter/internal/session"
)

type fakeResolver struct {
	calls  int
	result *auth.AuthResult
	cache  string
	err    error
}

func (f *fakeResolver) ResolveSession(_ context.Context, token, _ string) (*auth.AuthResult, string, error) {
	f.calls++
	if f.err != nil {
		return nil, "", f.err
	}
	if token == "" {
		return nil, "", nil
	}
	return f.result, f.cache, nil
}

func validResult() *auth.AuthResult {
	now := time.Now()
	return &auth.AuthResult{
		User: &domain.User{ID: "user-1", Name: "Ada", Email: "ada@example.com", Status: domain.UserStatusActive},
		Session: &session.Session{
			ID:          "sess-1",
			Token:       "tok",
			UserID:      "user-1",
			CreatedAt:   now,
			ExpiresAt:   now.Add(time.Hour),
			RefreshedAt: now,
		},
	}
}

var testCookieOpts = session.CookieOptions{Name: "session_token"}

func newAuthApp(resolver auth.SessionResolver) (*fiber.App, *auth.Middleware) {
	responder := httptransport.NewErrorResponder(zap.NewNop(), observability.NewMetrics(), false)
	app := fiber.New(fiber.Config{ErrorHandler: responder.FiberErrorHandler()})
	app.Use(responder.Middleware())
	mw := auth.NewMiddleware(resolver, testCookieOpts, 5*time.Minute)
	return app, mw
}

func decodeBody(t *testing.T, resp *nethttp.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestRequired_NoCredential(t *testing.T) {
	resolver := &fakeResolver{}
	app, mw := newAuthApp(resolver)

	handlerRan := false
	app.Get("/me", mw.Required(), func(c *fiber.Ctx) error {
		handlerRan = true
		return c.JSON(fiber.Map{"status": "ok"})
	})

	resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/me", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, map[string]any{"error": "Unauthorized"}, decodeBody(t, resp))
	assert.False(t, handlerRan, "handler must not run without a session")
}

func TestRequired_ValidSession(t *testing.T) {
	resolver := &fakeResolver{result: validResult()}
	app, mw := newAuthApp(resolver)

	app.Get("/me", mw.Required(), func(c *fiber.Ctx) error {
		result, ok := auth.ResultFromContext(c)
		require.True(t, ok)
		return c.JSON(fiber.Map{"user_id": result.User.ID})
	})

	req := httptest.NewRequest(nethttp.MethodGet, "/me", nil)
	req.AddCookie(&nethttp.Cookie{Name: "session_token", Value: "tok"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]any{"user_id": "user-1"}, decodeBody(t, resp))
}

func TestResolutionIsMemoizedPerRequest(t *testing.T) {
	resolver := &fakeResolver{result: validResult()}
	app, mw := newAuthApp(resolver)

	// Optional and Required stacked on one route: a single store lookup
	// must serve both, plus the handler's own read.
	app.Get("/me", mw.Optional(), mw.Required(), func(c *fiber.Ctx) error {
		_, ok := auth.ResultFromContext(c)
		require.True(t, ok)
		return c.JSON(fiber.Map{"status": "ok"})
	})

	req := httptest.NewRequest(nethttp.MethodGet, "/me", nil)
	req.AddCookie(&nethttp.Cookie{Name: "session_token", Value: "tok"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, 1, resolver.calls, "lookup must be computed at most once per request")
}

func TestMemoizationDoesNotLeakAcrossRequests(t *testing.T) {
	resolver := &fakeResolver{result: validResult()}
	app, mw := newAuthApp(resolver)

	app.Get("/me", mw.Required(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(nethttp.MethodGet, "/me", nil)
		req.AddCookie(&nethttp.Cookie{Name: "session_token", Value: "tok"})
		resp, err := app.Test(req)
		require.NoError(t, err)
		resp.Body.Close()
	}

	assert.Equal(t, 2, resolver.calls)
}

func TestOptional_AbsentSessionContinues(t *testing.T) {
	resolver := &fakeResolver{}
	app, mw := newAuthApp(resolver)

	app.Get("/home", mw.Optional(), func(c *fiber.Ctx) error {
		_, ok := auth.ResultFromContext(c)
		return c.JSON(fiber.Map{"authenticated": ok})
	})

	resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/home", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]any{"authenticated": false}, decodeBody(t, resp))
}

func TestOptional_PresentSessionAttaches(t *testing.T) {
	resolver := &fakeResolver{result: validResult()}
	app, mw := newAuthApp(resolver)

	app.Get("/home", mw.Optional(), func(c *fiber.Ctx) error {
		result, ok := auth.ResultFromContext(c)
		require.True(t, ok)
		return c.JSON(fiber.Map{"user_id": result.User.ID})
	})

	req := httptest.NewRequest(nethttp.MethodGet, "/home", nil)
	req.AddCookie(&nethttp.Cookie{Name: "session_token", Value: "tok"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, map[string]any{"user_id": "user-1"}, decodeBody(t, resp))
}

func TestStoreFailureIsNotUnauthorized(t *testing.T) {
	// An outage in the session store must surface as a 500, not masquerade
	// as an ordinary auth failure.
	resolver := &fakeResolver{err: errors.New("redis: connection refused")}
	app, mw := newAuthApp(resolver)

	app.Get("/me", mw.Required(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	req := httptest.NewRequest(nethttp.MethodGet, "/me", nil)
	req.AddCookie(&nethttp.Cookie{Name: "session_token", Value: "tok"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, nethttp.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, map[string]any{"error": "Internal server error"}, decodeBody(t, resp))
}

func TestCacheCookieIsIssued(t *testing.T) {
	resolver := &fakeResolver{result: validResult(), cache: "payload.signature"}
	app, mw := newAuthApp(resolver)

	app.Get("/me", mw.Required(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	req := httptest.NewRequest(nethttp.MethodGet, "/me", nil)
	req.AddCookie(&nethttp.Cookie{Name: "session_token", Value: "tok"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var found bool
	for _, cookie := range resp.Header.Values(fiber.HeaderSetCookie) {
		if strings.HasPrefix(cookie, "session_token_cache=") {
			found = true
		}
	}
	assert.True(t, found, "refreshed cache cookie should be issued")
}
