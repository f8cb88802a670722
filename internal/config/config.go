// Package config reads the engine's tunables from the environment.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the engine's environment-sourced settings.
type Config struct {
	// Port is the HTTP listen port for the delivery layer.
	Port string

	// PlayTTL is how long a play stays alive, counted from its creation
	// (activity does not extend it), before Expired is returned for every
	// input and the sweeper may delete it.
	PlayTTL time.Duration

	// EloWindow is the number of most-recent completed plays per tenant
	// the global aggregator replays.
	EloWindow int

	// EloK is the ELO K-factor applied to every vote.
	EloK int

	// MaxHierarchyDepth bounds recursive child-sub-session nesting.
	MaxHierarchyDepth int

	// LogLevel is passed straight to logger.Init.
	LogLevel string
}

const (
	defaultPort              = "8080"
	defaultPlayTTLSeconds    = 86400
	defaultEloWindow         = 500
	defaultEloK              = 32
	defaultMaxHierarchyDepth = 2
	defaultLogLevel          = "info"
)

// Load reads configuration from the environment, falling back to the
// documented defaults for anything unset or unparsable.
func Load() Config {
	return Config{
		Port:              getString("PORT", defaultPort),
		PlayTTL:           time.Duration(getInt("PLAY_TTL_SECONDS", defaultPlayTTLSeconds)) * time.Second,
		EloWindow:         getInt("ELO_WINDOW", defaultEloWindow),
		EloK:              getInt("ELO_K", defaultEloK),
		MaxHierarchyDepth: getInt("HIERARCHY_MAX_DEPTH", defaultMaxHierarchyDepth),
		LogLevel:          getString("LOG_LEVEL", defaultLogLevel),
	}
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
