package session

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// CookieOptions defines how session cookies are issued.
type CookieOptions struct {
	Name   string
	Domain string
	Secure bool
}

func (o CookieOptions) normalize() CookieOptions {
	if o.Name == "" {
		o.Name = "session_token"
	}
	return o
}

// CacheName returns the name of the companion cookie holding the signed
// session payload cache.
func (o CookieOptions) CacheName() string {
	return o.normalize().Name + "_cache"
}

// SetCookie issues the session cookie to the client.
func SetCookie(c *fiber.Ctx, token string, expiresAt time.Time, opts CookieOptions) {
	opts = opts.normalize()
	c.Cookie(&fiber.Cookie{
		Name:     opts.Name,
		Value:    token,
		Path:     "/",
		Domain:   opts.Domain,
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   opts.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// SetCacheCookie issues the short-lived signed payload cache cookie.
func SetCacheCookie(c *fiber.Ctx, value string, maxAge time.Duration, opts CookieOptions) {
	opts = opts.normalize()
	c.Cookie(&fiber.Cookie{
		Name:     opts.CacheName(),
		Value:    value,
		Path:     "/",
		Domain:   opts.Domain,
		MaxAge:   int(maxAge.Seconds()),
		HTTPOnly: true,
		Secure:   opts.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ClearCookies removes the session cookie and its cache companion.
func ClearCookies(c *fiber.Ctx, opts CookieOptions) {
	opts = opts.normalize()
	for _, name := range []string{opts.Name, opts.CacheName()} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Domain:   opts.Domain,
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HTTPOnly: true,
			Secure:   opts.Secure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
}
