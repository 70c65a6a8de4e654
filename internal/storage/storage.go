// Package storage is per-browser durable key/value storage. Every item lives
// under a scope, the browser session id.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/storefront/internal/config"
	"github.com/Skotchmaster/storefront/internal/db"
)

var ErrNotFound = errors.New("storage: item not found")

// Backend must be safe for concurrent use. Get returns ErrNotFound for a
// missing key; Delete of a missing key is not an error.
type Backend interface {
	Get(ctx context.Context, scope, key string) (string, error)
	Set(ctx context.Context, scope, key, value string) error
	Delete(ctx context.Context, scope, key string) error
	Close() error
}

// Local is the storage of a single browser.
type Local struct {
	backend Backend
	scope   string
}

func Scoped(b Backend, scope string) Local {
	return Local{backend: b, scope: scope}
}

// GetItem reports ok=false when nothing is stored under key.
func (l Local) GetItem(ctx context.Context, key string) (value string, ok bool, err error) {
	v, err := l.backend.Get(ctx, l.scope, key)
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (l Local) SetItem(ctx context.Context, key, value string) error {
	return l.backend.Set(ctx, l.scope, key, value)
}

func (l Local) RemoveItem(ctx context.Context, key string) error {
	return l.backend.Delete(ctx, l.scope, key)
}

// Open builds the backend named by driver.
func Open(ctx context.Context, driver, dsn, redisAddr string) (Backend, error) {
	switch driver {
	case config.StorageMemory, "":
		return NewMemory(), nil
	case config.StorageSQLite, config.StoragePostgres:
		gdb, err := db.Open(ctx, driver, dsn)
		if err != nil {
			return nil, err
		}
		return NewGorm(ctx, gdb)
	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{Addr: redisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		return NewRedis(client), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
