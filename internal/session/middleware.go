package session

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
)

const (
	CookieName = "sid"
	ctxKey     = "session"
)

type Config struct {
	Secret       []byte
	CookieSecure bool
	CookieTTL    time.Duration
	// Skipper bypasses the middleware; skipped requests have no session.
	Skipper func(c echo.Context) bool
}

const DefaultCookieTTL = 30 * 24 * time.Hour

// Middleware resolves the session from the sid cookie. Nothing is created
// until a handler asks for it: FromContext starts a session and sets a fresh
// cookie when the request has no valid one, Peek never does.
func Middleware(m *Manager, cfg Config) echo.MiddlewareFunc {
	if cfg.CookieTTL <= 0 {
		cfg.CookieTTL = DefaultCookieTTL
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.Skipper != nil && cfg.Skipper(c) {
				return next(c)
			}

			ls := &lazySession{m: m, cfg: cfg}
			if ck, err := c.Cookie(CookieName); err == nil {
				if id, err := IDFromToken(ck.Value, cfg.Secret); err == nil {
					ls.id = id
				} else {
					logging.FromContext(c.Request().Context()).Info("session_cookie_rejected",
						"middleware", "session", "reason", "invalid token", "error", err)
				}
			}

			c.Set(ctxKey, ls)
			return next(c)
		}
	}
}

// lazySession belongs to one request; echo.Context is not shared between
// goroutines, so it needs no lock.
type lazySession struct {
	m   *Manager
	cfg Config
	id  string
	s   *Session
}

func (ls *lazySession) resolve(c echo.Context, create bool) *Session {
	if ls.s != nil {
		return ls.s
	}
	ctx := c.Request().Context()
	if ls.id == "" {
		if !create {
			return nil
		}
		id := NewID()
		now := time.Now()
		tok, err := SignID(id, ls.cfg.Secret, now, ls.cfg.CookieTTL)
		if err != nil {
			logging.FromContext(ctx).Error("session_cookie_failed", "middleware", "session", "error", err)
			return nil
		}
		c.SetCookie(CreateCookie(CookieName, tok, "/", now.Add(ls.cfg.CookieTTL), ls.cfg.CookieSecure))
		ls.id = id
	}
	ls.s = ls.m.Get(ctx, ls.id)
	return ls.s
}

// FromContext returns the request's session, starting one if the browser has
// none yet. It returns nil outside the middleware.
func FromContext(c echo.Context) *Session {
	switch v := c.Get(ctxKey).(type) {
	case *Session:
		return v
	case *lazySession:
		return v.resolve(c, true)
	}
	return nil
}

// Peek returns the request's session only when the browser already has one.
func Peek(c echo.Context) *Session {
	switch v := c.Get(ctxKey).(type) {
	case *Session:
		return v
	case *lazySession:
		return v.resolve(c, false)
	}
	return nil
}

func Set(c echo.Context, s *Session) {
	c.Set(ctxKey, s)
}
