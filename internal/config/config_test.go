package config_test

import (
	"testing"
	"time"

	"gotest.tools/assert"

	"investory/internal/config"
)

func setRequired(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":8080")
	t.Setenv("DB_DSN", "postgres://localhost/investory")
	t.Setenv("JWT_ISSUER", "investory")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("JWT_TTL", "24h")
	t.Setenv("INTERNAL_API_TOKEN", "token")
	t.Setenv("WS_ORIGIN", "http://localhost:5173")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load()
	assert.NilError(t, err)
	assert.Equal(t, cfg.HTTPAddr, ":8080")
	assert.Equal(t, cfg.JWTTTL, 24*time.Hour)
	assert.Equal(t, cfg.AppEnv, "development")
	assert.Equal(t, cfg.QuoteInterval, 3*time.Second)
	assert.Assert(t, cfg.SeedStocks)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("QUOTE_INTERVAL", "500ms")
	t.Setenv("SEED_STOCKS", "false")

	cfg, err := config.Load()
	assert.NilError(t, err)
	assert.Equal(t, cfg.AppEnv, "production")
	assert.Equal(t, cfg.QuoteInterval, 500*time.Millisecond)
	assert.Assert(t, !cfg.SeedStocks)
}

func TestLoadMissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoadRejectsBadEnv(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "staging")

	_, err := config.Load()
	assert.ErrorContains(t, err, "APP_ENV")

	t.Setenv("APP_ENV", "development")
	t.Setenv("QUOTE_INTERVAL", "-1s")
	_, err = config.Load()
	assert.ErrorContains(t, err, "QUOTE_INTERVAL")
}
