package auth

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fullstack-starter/internal/domain"
	"github.com/spec-kit/fullstack-starter/internal/session"
	"github.com/spec-kit/fullstack-starter/pkg/apperr"
)

const resultKey = "auth_result"

// AuthResult is the request-scoped authentication outcome: the identity and
// the session it rode in on. It is computed at most once per request and
// shared by every downstream consumer.
type AuthResult struct {
	User    *domain.User
	Session *session.Session
}

// SessionResolver validates the presented credential and loads the identity
// behind it. A (nil, "", nil) return means no valid session; a non-nil error
// means the lookup infrastructure failed.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token, cached string) (*AuthResult, string, error)
}

// Middleware resolves sessions for incoming requests in required or optional
// mode. The resolved result (including "absent") is memoized in request
// state so the store lookup is never paid twice within one request.
type Middleware struct {
	resolver    SessionResolver
	cookieOpts  session.CookieOptions
	cacheMaxAge time.Duration
}

// NewMiddleware constructs the middleware.
func NewMiddleware(resolver SessionResolver, cookieOpts session.CookieOptions, cacheMaxAge time.Duration) *Middleware {
	return &Middleware{resolver: resolver, cookieOpts: cookieOpts, cacheMaxAge: cacheMaxAge}
}

// resolvedState wraps the outcome so that an absent session is still a
// memoized outcome, distinguishable from "not yet computed".
type resolvedState struct {
	result *AuthResult
}

func (m *Middleware) resolve(c *fiber.Ctx) (*AuthResult, error) {
	if state, ok := c.Locals(resultKey).(*resolvedState); ok {
		return state.result, nil
	}

	token := c.Cookies(m.cookieOpts.Name)
	cached := c.Cookies(m.cookieOpts.CacheName())

	result, newCache, err := m.resolver.ResolveSession(c.UserContext(), token, cached)
	if err != nil {
		// A failed store lookup is an outage, not an ordinary auth miss.
		// It stays unmemoized and propagates to the error boundary.
		return nil, err
	}
	if newCache != "" && result != nil {
		session.SetCacheCookie(c, newCache, m.cacheMaxAge, m.cookieOpts)
	}

	c.Locals(resultKey, &resolvedState{result: result})
	return result, nil
}

// Required short-circuits with 401 when no valid session is presented.
// The protected handler never runs in that case.
func (m *Middleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		result, err := m.resolve(c)
		if err != nil {
			return err
		}
		if result == nil {
			return apperr.ErrUnauthenticated
		}
		return c.Next()
	}
}

// Optional resolves the session when present and continues regardless.
func (m *Middleware) Optional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := m.resolve(c); err != nil {
			return err
		}
		return c.Next()
	}
}

// ResultFromContext retrieves the memoized authentication result.
func ResultFromContext(c *fiber.Ctx) (*AuthResult, bool) {
	state, ok := c.Locals(resultKey).(*resolvedState)
	if !ok || state.result == nil {
		return nil, false
	}
	return state.result, true
}
