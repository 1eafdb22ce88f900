package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fullstack-starter/internal/i18n"
	"github.com/spec-kit/fullstack-starter/pkg/apperr"
)

// I18nHandler serves locale resolution and translation dictionaries.
type I18nHandler struct {
	catalog *i18n.Catalog
}

// NewI18nHandler constructs the handler.
func NewI18nHandler(catalog *i18n.Catalog) *I18nHandler {
	return &I18nHandler{catalog: catalog}
}

// Resolve handles GET /api/i18n: negotiates the visitor's locale from query,
// cookie and Accept-Language, and lists what is available.
func (h *I18nHandler) Resolve(c *fiber.Ctx) error {
	locale := h.catalog.Resolve(
		c.Query("lang"),
		c.Cookies(i18n.CookieName),
		c.Get(fiber.HeaderAcceptLanguage),
	)

	names := fiber.Map{}
	for _, code := range h.catalog.Locales() {
		names[code] = i18n.LocaleNames[code]
	}

	return c.JSON(fiber.Map{
		"locale":  locale,
		"locales": h.catalog.Locales(),
		"names":   names,
	})
}

// Dictionary handles GET /api/i18n/:locale.
func (h *I18nHandler) Dictionary(c *fiber.Ctx) error {
	locale := c.Params("locale")
	dict, ok := h.catalog.Dictionary(locale)
	if !ok {
		return apperr.NewNotFound("Locale "+locale, "LOCALE_NOT_FOUND")
	}
	return c.JSON(dict)
}
