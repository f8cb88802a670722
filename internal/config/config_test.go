package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_DefaultsWhenUnset(t *testing.T) {
	for _, key := range []string{"PORT", "PLAY_TTL_SECONDS", "ELO_WINDOW", "ELO_K", "HIERARCHY_MAX_DEPTH", "LOG_LEVEL"} {
		os.Unsetenv(key)
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.PlayTTL)
	assert.Equal(t, 500, cfg.EloWindow)
	assert.Equal(t, 32, cfg.EloK)
	assert.Equal(t, 2, cfg.MaxHierarchyDepth)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_ReadsOverridesFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("PLAY_TTL_SECONDS", "120")
	t.Setenv("ELO_K", "16")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 120*time.Second, cfg.PlayTTL)
	assert.Equal(t, 16, cfg.EloK)
}

func TestLoad_FallsBackOnUnparsableInt(t *testing.T) {
	t.Setenv("ELO_WINDOW", "not-a-number")
	cfg := Load()
	assert.Equal(t, 500, cfg.EloWindow)
}
