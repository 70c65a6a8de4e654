// Package session ties a browser, identified by a signed cookie, to its cart
// and auth stores.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/auth"
	"github.com/Skotchmaster/storefront/internal/cart"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/storage"
)

type Session struct {
	ID   string
	Cart *cart.Store
	Auth *auth.Store

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

type Manager struct {
	backend storage.Backend
	creds   *auth.Credentials
	hub     *events.Hub
	idleTTL time.Duration
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(backend storage.Backend, creds *auth.Credentials, hub *events.Hub, idleTTL time.Duration) *Manager {
	return &Manager{
		backend:  backend,
		creds:    creds,
		hub:      hub,
		idleTTL:  idleTTL,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

func NewID() string {
	return uuid.NewString()
}

// Get returns the live session for id, creating it on first use. A new
// session restores the signed-in user from storage.
func (m *Manager) Get(ctx context.Context, id string) *Session {
	now := m.now()

	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if ok {
		s.touch(now)
		return s
	}

	fresh := &Session{
		ID:       id,
		Cart:     cart.New(id, m.hub),
		Auth:     auth.New(ctx, id, m.creds, storage.Scoped(m.backend, id), m.hub),
		lastSeen: now,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		s.touch(now)
		return s
	}
	m.sessions[id] = fresh
	return fresh
}

func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops sessions idle for longer than the idle TTL and returns how many
// were dropped. Persisted auth data stays in storage.
func (m *Manager) Sweep() int {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.idleSince(now) > m.idleTTL {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// Run sweeps on every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration, log *slog.Logger) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := m.Sweep(); n > 0 {
				log.Info("sessions_swept", "count", n, "active", m.Active())
			}
		}
	}
}
