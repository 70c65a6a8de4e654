package es

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/logging"
)

func esServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, _ := r.BasicAuth()
		assert.Equal(t, "elastic", user)
		assert.Equal(t, "changeme", pass)
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, `{"cluster_name":"test","version":{"number":"9.0.0"}}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewClient(t *testing.T) {
	srv := esServer(t, http.StatusOK)

	client, err := NewClient(Config{URL: srv.URL, User: "elastic", Password: "changeme"}, logging.NewWithWriter(io.Discard, "info"))
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestNewClient_ErrorStatus(t *testing.T) {
	srv := esServer(t, http.StatusUnauthorized)

	_, err := NewClient(Config{URL: srv.URL, User: "elastic", Password: "changeme"}, logging.NewWithWriter(io.Discard, "info"))
	assert.ErrorContains(t, err, "401")
}

func TestNewClient_Unreachable(t *testing.T) {
	srv := esServer(t, http.StatusOK)
	url := srv.URL
	srv.Close()

	_, err := NewClient(Config{URL: url, User: "elastic", Password: "changeme"}, logging.NewWithWriter(io.Discard, "info"))
	assert.Error(t, err)
}
