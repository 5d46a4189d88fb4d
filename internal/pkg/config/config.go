// Package config loads process settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"

	devJWTSecret = "dev-secret-change-me"
)

// Config is the whole process configuration, read from the environment.
type Config struct {
	Env      string
	LogLevel string

	HTTPAddr string
	GRPCAddr string

	StoreDriver string
	SQLitePath  string
	MongoURL    string
	DBName      string

	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int

	RedisAddr      string
	IdempotencyTTL time.Duration

	CORSOrigins []string

	OTelEnabled  bool
	OTelEndpoint string

	ShutdownTimeout time.Duration
}

// Load reads .env when present and then the process environment. Values in
// the environment win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("config: read .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	var errs []error
	duration := func(key string, fallback time.Duration) time.Duration {
		raw := get(key, "")
		if raw == "" {
			return fallback
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("%s: invalid duration %q", key, raw))
			return fallback
		}
		return d
	}
	integer := func(key string, fallback int) int {
		raw := get(key, "")
		if raw == "" {
			return fallback
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: invalid integer %q", key, raw))
			return fallback
		}
		return n
	}
	boolean := func(key string) bool {
		raw := get(key, "false")
		b, err := strconv.ParseBool(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: invalid bool %q", key, raw))
		}
		return b
	}

	cfg := Config{
		Env:             get("APP_ENV", "development"),
		LogLevel:        get("LOG_LEVEL", "info"),
		HTTPAddr:        get("HTTP_ADDR", ":8080"),
		GRPCAddr:        get("GRPC_ADDR", ":9090"),
		StoreDriver:     strings.ToLower(get("STORE_DRIVER", DriverSQLite)),
		SQLitePath:      get("SQLITE_PATH", "./data/storefront.db"),
		MongoURL:        get("MONGO_URL", "mongodb://localhost:27017"),
		DBName:          get("DB_NAME", "storefront"),
		JWTSecret:       get("JWT_SECRET", ""),
		TokenTTL:        duration("TOKEN_TTL", 24*time.Hour),
		BcryptCost:      integer("BCRYPT_COST", 10),
		RedisAddr:       get("REDIS_ADDR", ""),
		IdempotencyTTL:  duration("IDEMPOTENCY_TTL", 24*time.Hour),
		CORSOrigins:     splitList(get("CORS_ORIGINS", "*")),
		OTelEnabled:     boolean("OTEL_ENABLED"),
		OTelEndpoint:    get("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		ShutdownTimeout: duration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	switch cfg.StoreDriver {
	case DriverSQLite, DriverMongo:
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER: unsupported driver %q", cfg.StoreDriver))
	}

	if cfg.JWTSecret == "" {
		if cfg.IsDevelopment() {
			cfg.JWTSecret = devJWTSecret
		} else {
			errs = append(errs, errors.New("JWT_SECRET is required outside development"))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// IsDevelopment allows running without JWT_SECRET.
func (c Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev" || c.Env == "test"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
