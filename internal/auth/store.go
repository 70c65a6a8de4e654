// Package auth holds the signed-in identity of one browser session.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
)

// StorageKey is where the signed-in user is persisted.
const StorageKey = "auth:user"

var ErrInvalidCredentials = errors.New("invalid username or password")

// Storage is the per-browser key/value storage the store persists to.
type Storage interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

type Store struct {
	sessionID string
	creds     *Credentials
	storage   Storage
	hub       *events.Hub

	mu   sync.RWMutex
	user *models.AuthUser
}

// New restores a persisted user when one is stored. Missing, unreadable or
// invalid data leaves the store logged out.
func New(ctx context.Context, sessionID string, creds *Credentials, storage Storage, hub *events.Hub) *Store {
	s := &Store{sessionID: sessionID, creds: creds, storage: storage, hub: hub}
	s.user = loadUser(ctx, storage)
	return s
}

func loadUser(ctx context.Context, storage Storage) *models.AuthUser {
	raw, ok, err := storage.GetItem(ctx, StorageKey)
	if err != nil || !ok || raw == "" {
		return nil
	}
	var u models.AuthUser
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil
	}
	if u.Username == "" || !u.Role.Valid() {
		return nil
	}
	return &u
}

// Login keeps the trimmed username as typed. On failure the current session
// is left as it was.
func (s *Store) Login(ctx context.Context, username, password string) (models.AuthUser, error) {
	trimmed := strings.TrimSpace(username)
	role, ok := s.creds.Verify(trimmed, password)
	if !ok {
		s.emit(events.AuthLoginFailed, map[string]any{"username": trimmed})
		return models.AuthUser{}, ErrInvalidCredentials
	}

	u := models.AuthUser{Username: trimmed, Role: role}
	raw, err := json.Marshal(u)
	if err != nil {
		return models.AuthUser{}, fmt.Errorf("encode user: %w", err)
	}

	s.mu.Lock()
	if err := s.storage.SetItem(ctx, StorageKey, string(raw)); err != nil {
		s.mu.Unlock()
		return models.AuthUser{}, fmt.Errorf("persist session: %w", err)
	}
	s.user = &u
	s.mu.Unlock()

	s.emit(events.AuthLoggedIn, map[string]any{"username": u.Username, "role": string(u.Role)})
	return u, nil
}

// Logout clears the session even when removing the persisted copy fails.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	prev := s.user
	s.user = nil
	err := s.storage.RemoveItem(ctx, StorageKey)
	s.mu.Unlock()

	if prev != nil {
		s.emit(events.AuthLoggedOut, map[string]any{"username": prev.Username})
	}
	if err != nil {
		return fmt.Errorf("remove persisted session: %w", err)
	}
	return nil
}

func (s *Store) User() (models.AuthUser, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.AuthUser{}, false
	}
	return *s.user, true
}

func (s *Store) IsAuthenticated() bool {
	_, ok := s.User()
	return ok
}

func (s *Store) emit(typ string, payload map[string]any) {
	s.hub.Emit(events.Event{
		Store:     events.StoreAuth,
		Type:      typ,
		SessionID: s.sessionID,
		Payload:   payload,
	})
}
