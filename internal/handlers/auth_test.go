package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	h := &AuthHTTP{}

	tests := []struct {
		name         string
		body         map[string]any
		wantRedirect string
		wantRole     string
		wantUsername string
	}{
		{name: "admin with next", body: map[string]any{"username": "ADMIN", "password": "admin123", "next": "/dashboard"}, wantRedirect: "/dashboard", wantRole: "admin", wantUsername: "ADMIN"},
		{name: "user without next", body: map[string]any{"username": " user ", "password": "user123"}, wantRedirect: "/", wantRole: "user", wantUsername: "user"},
		{name: "offsite next", body: map[string]any{"username": "user", "password": "user123", "next": "//evil.example"}, wantRedirect: "/", wantRole: "user", wantUsername: "user"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := env.session(t, tt.name, "", "")
			rec, c := env.doJSONRequest(http.MethodPost, "/login", tt.body, s)
			require.NoError(t, h.Login(c))
			require.Equal(t, http.StatusOK, rec.Code)

			body := decode(t, rec)
			assert.Equal(t, tt.wantRedirect, body["redirect"])
			user := body["user"].(map[string]any)
			assert.Equal(t, tt.wantRole, user["role"])
			assert.Equal(t, tt.wantUsername, user["username"])
			assert.True(t, s.Auth.IsAuthenticated())
		})
	}
}

func TestLogin_WrongPasswordKeepsSession(t *testing.T) {
	env := newTestEnv(t)
	h := &AuthHTTP{}
	s := env.session(t, "sid", "user", "user123")

	_, c := env.doJSONRequest(http.MethodPost, "/login", map[string]any{"username": "admin", "password": "nope"}, s)
	assert.Equal(t, http.StatusUnauthorized, httpCode(t, h.Login(c)))

	u, ok := s.Auth.User()
	require.True(t, ok)
	assert.Equal(t, "user", u.Username)
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	h := &AuthHTTP{}
	s := env.session(t, "sid", "admin", "admin123")

	rec, c := env.doJSONRequest(http.MethodPost, "/logout", nil, s)
	require.NoError(t, h.Logout(c))
	assert.Equal(t, "/", decode(t, rec)["redirect"])
	assert.False(t, s.Auth.IsAuthenticated())
}

func TestLoginPage(t *testing.T) {
	env := newTestEnv(t)
	h := &AuthHTTP{}

	rec, c := env.doJSONRequest(http.MethodGet, "/login?next=%2Fcheckout", nil, env.session(t, "sid", "", ""))
	require.NoError(t, h.LoginPage(c))
	body := decode(t, rec)
	assert.Equal(t, "/checkout", body["next"])
	assert.Len(t, body["default_accounts"], 2)
	assert.Nil(t, body["user"])
}
