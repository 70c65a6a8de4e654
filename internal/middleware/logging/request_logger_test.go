package loggingmw

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/logging"
)

func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &rec))
	return rec
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(middleware.RequestID(), RequestLogger(logging.NewWithWriter(&buf, "info")))

	var ctxLoggerSet bool
	e.GET("/ok", func(c echo.Context) error {
		ctxLoggerSet = logging.FromContext(c.Request().Context()) != nil
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/missing", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	})
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusInternalServerError, "boom")
	})

	tests := []struct {
		path   string
		status int
		level  string
	}{
		{path: "/ok", status: http.StatusOK, level: "INFO"},
		{path: "/missing", status: http.StatusNotFound, level: "WARN"},
		{path: "/boom", status: http.StatusInternalServerError, level: "ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			buf.Reset()
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

			got := lastRecord(t, &buf)
			assert.Equal(t, "request_completed", got["msg"])
			assert.Equal(t, tt.level, got["level"])
			assert.EqualValues(t, tt.status, got["status"])
			assert.Equal(t, rec.Header().Get(echo.HeaderXRequestID), got["request_id"])
		})
	}
	assert.True(t, ctxLoggerSet)
}
