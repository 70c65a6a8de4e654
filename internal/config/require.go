package config

import "fmt"

const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

func MustNonEmpty(value, envName string) error {
	if value == "" {
		return fmt.Errorf("missing required env %s", envName)
	}
	return nil
}

func MustNonEmptyBytes(value []byte, envName string) error {
	if len(value) == 0 {
		return fmt.Errorf("missing required env %s", envName)
	}
	return nil
}

func (c Config) Validate() error {
	if err := MustNonEmptyBytes(c.SessionSecret, "SESSION_SECRET"); err != nil {
		return err
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("invalid SERVER_PORT %d", c.ServerPort)
	}
	switch c.StorageDriver {
	case StorageMemory:
	case StorageSQLite, StoragePostgres:
		if err := MustNonEmpty(c.StorageDSN, "STORAGE_DSN"); err != nil {
			return err
		}
	case StorageRedis:
		if err := MustNonEmpty(c.RedisAddr, "REDIS_ADDR"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	return nil
}
