package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort int
	LogLevel   string

	CatalogURL     string
	CatalogTimeout time.Duration

	SessionSecret  []byte
	SessionIdleTTL time.Duration
	CookieSecure   bool

	StorageDriver string
	StorageDSN    string
	RedisAddr     string

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string
}

// Load reads .env when present and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		slog.Info("env_file_not_found", "reason", "using system environment variables")
	}

	cfg := Config{
		ServerPort: EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:   EnvDefault("LOG_LEVEL", "info"),

		CatalogURL:     EnvDefault("CATALOG_URL", "https://fakestoreapi.com/products"),
		CatalogTimeout: EnvDurationDefault("CATALOG_TIMEOUT", 10*time.Second),

		SessionSecret:  []byte(os.Getenv("SESSION_SECRET")),
		SessionIdleTTL: EnvDurationDefault("SESSION_IDLE_TTL", 24*time.Hour),
		CookieSecure:   EnvBoolDefault("COOKIE_SECURE", false),

		StorageDriver: strings.ToLower(EnvDefault("STORAGE_DRIVER", StorageMemory)),
		StorageDSN:    os.Getenv("STORAGE_DSN"),
		RedisAddr:     EnvDefault("REDIS_ADDR", "localhost:6379"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "products"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
