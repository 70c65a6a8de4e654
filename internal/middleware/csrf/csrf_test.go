package csrf

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEcho() *echo.Echo {
	e := echo.New()
	cfg := DefaultConfig()
	cfg.SkipPaths = []string{"/login"}
	cfg.SkipPrefixes = []string{"/health"}
	e.Use(Middleware(cfg))
	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }
	e.GET("/cart", ok)
	e.POST("/cart/items", ok)
	e.POST("/login", ok)
	e.POST("/health/ready", ok)
	return e
}

func issueToken(t *testing.T, e *echo.Echo) string {
	t.Helper()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	tok := rec.Header().Get("X-CSRF-Token")
	require.NotEmpty(t, tok)
	for _, c := range rec.Result().Cookies() {
		if c.Name == "XSRF-TOKEN" {
			assert.Equal(t, tok, c.Value)
			assert.False(t, c.HttpOnly)
		}
	}
	return tok
}

func TestMiddleware(t *testing.T) {
	e := newEcho()
	tok := issueToken(t, e)

	tests := []struct {
		name   string
		path   string
		cookie string
		header string
		origin string
		want   int
	}{
		{name: "valid", path: "/cart/items", cookie: tok, header: tok, origin: "http://example.com", want: http.StatusNoContent},
		{name: "missing header", path: "/cart/items", cookie: tok, origin: "http://example.com", want: http.StatusForbidden},
		{name: "mismatch", path: "/cart/items", cookie: tok, header: tok + "x", origin: "http://example.com", want: http.StatusForbidden},
		{name: "cross origin", path: "/cart/items", cookie: tok, header: tok, origin: "http://evil.example", want: http.StatusForbidden},
		{name: "no origin", path: "/cart/items", cookie: tok, header: tok, want: http.StatusForbidden},
		{name: "skipped path", path: "/login", want: http.StatusNoContent},
		{name: "skipped prefix", path: "/health/ready", want: http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.path, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set("X-CSRF-Token", tt.header)
			}
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestSecureCompare(t *testing.T) {
	assert.True(t, secureCompare("abc", "abc"))
	assert.False(t, secureCompare("abc", "abd"))
	assert.False(t, secureCompare("", ""))
	assert.False(t, secureCompare("abc", "ab"))
}
