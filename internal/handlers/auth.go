package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/auth"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/middleware/guard"
	"github.com/Skotchmaster/storefront/internal/session"
)

type AuthHTTP struct{}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
	Next     string `json:"next" form:"next"`
}

func (h *AuthHTTP) LoginPage(c echo.Context) error {
	accounts := make([]echo.Map, 0, len(auth.DefaultAccounts))
	for _, a := range auth.DefaultAccounts {
		accounts = append(accounts, echo.Map{"username": a.Username, "password": a.Password})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"next":             guard.SafeNext(c.QueryParam("next")),
		"default_accounts": accounts,
		"user":             viewUser(c),
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	s, err := currentSession(c)
	if err != nil {
		return err
	}

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_failed", "status", http.StatusBadRequest, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := s.Auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			l.Info("login_failed", "status", http.StatusUnauthorized, "reason", "invalid credentials")
			return echo.NewHTTPError(http.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
		}
		l.Error("login_failed", "status", http.StatusInternalServerError, "reason", "cannot persist session", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot sign in")
	}

	l.Info("login_success", "role", string(user.Role))
	return c.JSON(http.StatusOK, echo.Map{
		"user":     user,
		"redirect": guard.SafeNext(req.Next),
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	s := session.Peek(c)
	if s == nil {
		return c.JSON(http.StatusOK, echo.Map{"redirect": guard.HomePath})
	}

	if err := s.Auth.Logout(ctx); err != nil {
		l.Error("logout_failed", "status", http.StatusInternalServerError, "reason", "cannot remove persisted session", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot sign out")
	}

	l.Info("logout_success")
	return c.JSON(http.StatusOK, echo.Map{"redirect": guard.HomePath})
}
