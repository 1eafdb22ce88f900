package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fullstack-starter/internal/api/dto"
	"github.com/spec-kit/fullstack-starter/internal/auth"
	"github.com/spec-kit/fullstack-starter/internal/service"
	"github.com/spec-kit/fullstack-starter/internal/session"
	"github.com/spec-kit/fullstack-starter/pkg/apperr"
)

// AuthHandler exposes registration, login, logout and OAuth endpoints.
type AuthHandler struct {
	auth        *service.AuthService
	cookieOpts  session.CookieOptions
	frontendURL string
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(authService *service.AuthService, cookieOpts session.CookieOptions, frontendURL string) *AuthHandler {
	return &AuthHandler{auth: authService, cookieOpts: cookieOpts, frontendURL: frontendURL}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.New("Invalid request body", http.StatusBadRequest)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	user, sess, err := h.auth.Register(c.UserContext(), strings.TrimSpace(req.Name), req.Email, req.Password)
	if err != nil {
		return err
	}

	session.SetCookie(c, sess.Token, sess.ExpiresAt, h.cookieOpts)
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"user":    dto.NewUserResponse(user),
		"session": dto.NewSessionResponse(sess),
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.New("Invalid request body", http.StatusBadRequest)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	user, sess, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	session.SetCookie(c, sess.Token, sess.ExpiresAt, h.cookieOpts)
	return c.JSON(fiber.Map{
		"user":    dto.NewUserResponse(user),
		"session": dto.NewSessionResponse(sess),
	})
}

// Logout handles POST /api/auth/logout. Requires authentication.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	result, ok := auth.ResultFromContext(c)
	if !ok {
		return apperr.ErrUnauthenticated
	}

	if err := h.auth.Logout(c.UserContext(), result); err != nil {
		return err
	}

	session.ClearCookies(c, h.cookieOpts)
	return c.JSON(fiber.Map{"success": true})
}

// Me handles GET /api/me. Requires authentication; the result was resolved
// and memoized by the middleware, no second lookup happens here.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	result, ok := auth.ResultFromContext(c)
	if !ok {
		return apperr.ErrUnauthenticated
	}

	return c.JSON(fiber.Map{
		"user":    dto.NewUserResponse(result.User),
		"session": dto.NewSessionResponse(result.Session),
	})
}

// OAuthStart handles GET /api/auth/:provider.
func (h *AuthHandler) OAuthStart(c *fiber.Ctx) error {
	returnTo := c.Query("return_to")
	if returnTo != "" && !strings.HasPrefix(returnTo, "/") {
		return apperr.New("return_to must be a relative path", http.StatusBadRequest)
	}

	url, err := h.auth.OAuthAuthorizeURL(c.Params("provider"), returnTo)
	if err != nil {
		return err
	}
	return c.Redirect(url, http.StatusTemporaryRedirect)
}

// OAuthCallback handles GET /api/auth/:provider/callback.
func (h *AuthHandler) OAuthCallback(c *fiber.Ctx) error {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		return apperr.New("Missing state or code", http.StatusBadRequest)
	}

	_, sess, returnTo, err := h.auth.CompleteOAuth(c.UserContext(), c.Params("provider"), state, code)
	if err != nil {
		return err
	}

	session.SetCookie(c, sess.Token, sess.ExpiresAt, h.cookieOpts)

	target := h.frontendURL
	if returnTo != "" {
		target += returnTo
	}
	return c.Redirect(target, http.StatusFound)
}
