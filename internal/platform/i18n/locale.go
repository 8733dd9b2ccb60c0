package i18n

import (
	"context"

	"github.com/labstack/echo/v4"
	"golang.org/x/text/language"
)

type contextKey string

const localeKey contextKey = "locale"

// WithLocale stores the caller's locale on ctx.
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeKey, locale)
}

// LocaleFromContext returns the locale stored by WithLocale, or "" when none.
func LocaleFromContext(ctx context.Context) string {
	locale, _ := ctx.Value(localeKey).(string)
	return locale
}

// Negotiator picks a supported locale from an Accept-Language header.
type Negotiator struct {
	matcher   language.Matcher
	supported []language.Tag
}

// NewNegotiator supports French and English; defaultLocale wins when the
// header is missing or matches nothing.
func NewNegotiator(defaultLocale string) *Negotiator {
	tags := []language.Tag{language.French, language.English}
	if defaultLocale == "en" {
		tags = []language.Tag{language.English, language.French}
	}
	return &Negotiator{matcher: language.NewMatcher(tags), supported: tags}
}

// Negotiate returns the base language ("fr" or "en") for header.
func (n *Negotiator) Negotiate(header string) string {
	prefs, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(prefs) == 0 {
		return baseOf(n.supported[0])
	}
	_, idx, conf := n.matcher.Match(prefs...)
	if conf == language.No {
		return baseOf(n.supported[0])
	}
	return baseOf(n.supported[idx])
}

func baseOf(tag language.Tag) string {
	base, _ := tag.Base()
	return base.String()
}

// LocaleMiddleware negotiates the caller's locale from Accept-Language and
// stores it on the request context.
func LocaleMiddleware(n *Negotiator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			locale := n.Negotiate(c.Request().Header.Get("Accept-Language"))
			ctx := WithLocale(c.Request().Context(), locale)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Set("locale", locale)
			return next(c)
		}
	}
}
