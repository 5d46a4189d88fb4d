package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/storefront/internal/pkg/config"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := config.FromEnv(envOf(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, ":9090", cfg.GRPCAddr)
	assert.Equal(t, config.DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.False(t, cfg.OTelEnabled)
	assert.Empty(t, cfg.RedisAddr)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := config.FromEnv(envOf(map[string]string{
		"APP_ENV":      "production",
		"JWT_SECRET":   "s",
		"STORE_DRIVER": "MONGO",
		"TOKEN_TTL":    "1h",
		"CORS_ORIGINS": "https://a.example, https://b.example ,",
		"OTEL_ENABLED": "true",
		"BCRYPT_COST":  "12",
	}))
	require.NoError(t, err)

	assert.Equal(t, config.DriverMongo, cfg.StoreDriver)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.OTelEnabled)
	assert.Equal(t, 12, cfg.BcryptCost)
}

func TestFromEnv_Errors(t *testing.T) {
	_, err := config.FromEnv(envOf(map[string]string{"APP_ENV": "production"}))
	assert.ErrorContains(t, err, "JWT_SECRET")

	_, err = config.FromEnv(envOf(map[string]string{"STORE_DRIVER": "postgres"}))
	assert.ErrorContains(t, err, "STORE_DRIVER")

	_, err = config.FromEnv(envOf(map[string]string{"TOKEN_TTL": "soon"}))
	assert.ErrorContains(t, err, "TOKEN_TTL")
}
