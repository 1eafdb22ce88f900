package i18n

import (
	"golang.org/x/text/language"
)

// DefaultLocale is used when no supported language can be negotiated.
const DefaultLocale = "en"

// CookieName stores the visitor's explicit locale choice.
const CookieName = "locale"

// Catalog holds immutable translation tables keyed by locale. Safe for
// concurrent use after construction.
type Catalog struct {
	translations map[string]map[string]string
	locales      []string
	tags         []language.Tag
	matcher      language.Matcher
}

// NewCatalog builds the catalog from the bundled dictionaries.
func NewCatalog() *Catalog {
	locales := make([]string, 0, len(bundles))
	tags := make([]language.Tag, 0, len(bundles))

	// Default locale first so the matcher falls back to it.
	locales = append(locales, DefaultLocale)
	tags = append(tags, language.Make(DefaultLocale))
	for locale := range bundles {
		if locale == DefaultLocale {
			continue
		}
		locales = append(locales, locale)
		tags = append(tags, language.Make(locale))
	}

	return &Catalog{
		translations: bundles,
		locales:      locales,
		tags:         tags,
		matcher:      language.NewMatcher(tags),
	}
}

// Locales lists supported locale codes, default first.
func (c *Catalog) Locales() []string {
	out := make([]string, len(c.locales))
	copy(out, c.locales)
	return out
}

// Supported reports whether the locale has a dictionary.
func (c *Catalog) Supported(locale string) bool {
	_, ok := c.translations[locale]
	return ok
}

// Dictionary returns the flattened translation table for a locale.
func (c *Catalog) Dictionary(locale string) (map[string]string, bool) {
	dict, ok := c.translations[locale]
	return dict, ok
}

// T translates a key, falling back to the default locale and finally to the
// key itself so missing translations stay visible instead of blank.
func (c *Catalog) T(locale, key string) string {
	if dict, ok := c.translations[locale]; ok {
		if msg, ok := dict[key]; ok {
			return msg
		}
	}
	if msg, ok := c.translations[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Resolve negotiates the locale for a request. Precedence: explicit query
// parameter, locale cookie, then Accept-Language matching.
func (c *Catalog) Resolve(query, cookie, acceptLanguage string) string {
	if c.Supported(query) {
		return query
	}
	if c.Supported(cookie) {
		return cookie
	}
	if acceptLanguage != "" {
		if tags, _, err := language.ParseAcceptLanguage(acceptLanguage); err == nil {
			_, index, conf := c.matcher.Match(tags...)
			if conf > language.No && index < len(c.locales) {
				return c.locales[index]
			}
		}
	}
	return DefaultLocale
}
