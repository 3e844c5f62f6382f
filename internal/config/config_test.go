package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_PORT", "8000")
	cfg := Load()

	assert.Equal(t, "8000", cfg.App.Port)
	assert.Equal(t, 4000, cfg.Drafting.ChunkSize)
	assert.Equal(t, 200, cfg.Drafting.ChunkOverlap)
	assert.Equal(t, 100, cfg.Drafting.ChunkLookback)
	assert.InDelta(t, 0.6, cfg.Drafting.MinConfidenceThreshold, 1e-9)
	assert.Equal(t, 30*time.Second, cfg.Ai.OracleTimeout)
	assert.Equal(t, "memory", cfg.App.SessionStore)
	assert.Equal(t, 2*time.Minute, cfg.App.SessionLockTTL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CHUNK_SIZE", "1200")
	t.Setenv("MIN_CONFIDENCE_THRESHOLD", "0.75")
	t.Setenv("SESSION_TTL", "0")
	t.Setenv("ORACLE_TIMEOUT", "5s")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("GO_ENV", "production")

	cfg := Load()
	assert.Equal(t, 1200, cfg.Drafting.ChunkSize)
	assert.InDelta(t, 0.75, cfg.Drafting.MinConfidenceThreshold, 1e-9)
	assert.Equal(t, time.Duration(0), cfg.App.SessionTTL)
	assert.Equal(t, 5*time.Second, cfg.Ai.OracleTimeout)
	assert.True(t, cfg.App.OtelEnabled)
	assert.True(t, cfg.IsProduction())
}

func TestGetEnvHelpers_FallBackOnGarbage(t *testing.T) {
	t.Setenv("X_INT", "abc")
	t.Setenv("X_FLOAT", "one")
	t.Setenv("X_DUR", "soon")
	t.Setenv("X_BOOL", "maybe")

	assert.Equal(t, 7, getEnvAsInt("X_INT", 7))
	assert.InDelta(t, 1.5, getEnvAsFloat("X_FLOAT", 1.5), 1e-9)
	assert.Equal(t, time.Minute, getEnvAsDuration("X_DUR", time.Minute))
	assert.False(t, getEnvAsBool("X_BOOL", false))
	assert.Equal(t, 90*time.Second, func() time.Duration {
		t.Setenv("X_DUR", "90")
		return getEnvAsDuration("X_DUR", 0)
	}())
}
