package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCatalog("fr")
	require.NoError(t, err)
	return c
}

func TestCatalog_ResolveFrench(t *testing.T) {
	c := newTestCatalog(t)
	assert.Equal(t, "Le patient avec l'identifiant 42 est introuvable", c.Resolve("fr", KeyPatientNotFound, int64(42)))
	assert.Equal(t, "Le rendez-vous avec l'identifiant 7 est introuvable", c.Resolve("fr", KeyRdvNotFound, int64(7)))
}

func TestCatalog_ResolveEnglish(t *testing.T) {
	c := newTestCatalog(t)
	assert.Equal(t, "Doctor with id 3 not found", c.Resolve("en", KeyMedecinNotFound, int64(3)))
}

func TestCatalog_UnknownLocaleFallsBackToDefault(t *testing.T) {
	c := newTestCatalog(t)
	assert.Equal(t, "Le médecin avec l'identifiant 5 est introuvable", c.Resolve("de", KeyMedecinNotFound, 5))
	assert.Equal(t, "Le médecin avec l'identifiant 5 est introuvable", c.Resolve("", KeyMedecinNotFound, "5"))
}

func TestCatalog_UnknownKey(t *testing.T) {
	c := newTestCatalog(t)
	assert.Equal(t, "nope.missing", c.Resolve("fr", "nope.missing", 1))
}

func TestCatalog_MissingParamsDoNotPanic(t *testing.T) {
	c := newTestCatalog(t)
	assert.Equal(t, "Patient with id  not found", c.Resolve("en", KeyPatientNotFound))
}

func TestCatalog_Has(t *testing.T) {
	c := newTestCatalog(t)
	assert.True(t, c.Has("fr", "validation.email.email"))
	assert.True(t, c.Has("en", KeyRdvNotFound))
	assert.False(t, c.Has("en", "validation.email.min"))
}

func TestNewCatalog_RejectsUnsupportedDefault(t *testing.T) {
	_, err := NewCatalog("de")
	assert.Error(t, err)
}

func TestNegotiator(t *testing.T) {
	n := NewNegotiator("fr")
	cases := map[string]string{
		"":                        "fr",
		"en-US,en;q=0.9":          "en",
		"fr-FR":                   "fr",
		"de-DE":                   "fr",
		"de-DE,en;q=0.5":          "en",
		"not a valid header;;q=x": "fr",
	}
	for header, want := range cases {
		assert.Equal(t, want, n.Negotiate(header), "header %q", header)
	}

	assert.Equal(t, "en", NewNegotiator("en").Negotiate(""))
}

func TestLocaleMiddleware(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en-GB")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got string
	h := LocaleMiddleware(NewNegotiator("fr"))(func(c echo.Context) error {
		got = LocaleFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, h(c))
	assert.Equal(t, "en", got)
	assert.Equal(t, "en", c.Get("locale"))
}
