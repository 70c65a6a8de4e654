// Package guard protects routes by sign-in state and role.
package guard

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/auth"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/session"
)

const (
	LoginPath = "/login"
	HomePath  = "/"
)

// RequireAuth lets any signed-in user through.
func RequireAuth() echo.MiddlewareFunc {
	return RequireRole()
}

// RequireRole sends anonymous visitors to the login page with the requested
// location kept in next, and signed-in users with another role to home.
func RequireRole(roles ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l := logging.FromContext(c.Request().Context()).With("middleware", "guard")

			var user *models.AuthUser
			if s := session.Peek(c); s != nil {
				if u, ok := s.Auth.User(); ok {
					user = &u
				}
			}

			switch auth.Check(user, roles...) {
			case auth.Allow:
				return next(c)
			case auth.Unauthenticated:
				l.Info("access_denied", "status", http.StatusSeeOther, "reason", "not signed in")
				return c.Redirect(http.StatusSeeOther, LoginURL(c.Request().URL.RequestURI()))
			default:
				l.Info("access_denied", "status", http.StatusSeeOther, "reason", "role", "role", string(user.Role))
				return c.Redirect(http.StatusSeeOther, HomePath)
			}
		}
	}
}

func LoginURL(next string) string {
	return LoginPath + "?next=" + url.QueryEscape(next)
}

// SafeNext returns next when it is a same-site path, else home.
func SafeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return HomePath
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return HomePath
	}
	return next
}
