package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_MAX_OPEN_CONNS", "")
	t.Setenv("AUTOCOMPLETE_ENABLED", "")
	t.Setenv("AUTOCOMPLETE_INTERVAL_SECONDS", "")

	cfg, _ := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 100, cfg.DBMaxOpenConns)
	assert.True(t, cfg.AutoCompleteEnabled)
	assert.Equal(t, time.Minute, cfg.AutoCompleteInterval)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_USER", "rides")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "rideshare")
	t.Setenv("DB_MAX_OPEN_CONNS", "-3")
	t.Setenv("AUTOCOMPLETE_ENABLED", "false")
	t.Setenv("AUTOCOMPLETE_INTERVAL_SECONDS", "15")

	cfg, _ := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 100, cfg.DBMaxOpenConns, "неположительное значение заменяется дефолтом")
	assert.False(t, cfg.AutoCompleteEnabled)
	assert.Equal(t, 15*time.Second, cfg.AutoCompleteInterval)
	assert.Equal(t, "host=db port=6543 user=rides password=secret dbname=rideshare sslmode=disable", cfg.DSN())
}
