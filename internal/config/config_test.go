package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]string{"canvas-api"})

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "*", cfg.CORSOrigin)
	assert.Equal(t, 300*time.Millisecond, cfg.AppsDelay)
	assert.Equal(t, 400*time.Millisecond, cfg.GraphDelay)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Zero(t, cfg.FailureRate)
	assert.False(t, cfg.DevMode)
}

func TestParseEnvironment(t *testing.T) {
	t.Setenv("CANVAS_PORT", "9090")
	t.Setenv("CANVAS_GRAPH_DELAY", "50ms")
	t.Setenv("CANVAS_DEV_MODE", "true")
	t.Setenv("CANVAS_LOG_LEVEL", "DEBUG")

	cfg, err := Parse([]string{"canvas-api"})

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 50*time.Millisecond, cfg.GraphDelay)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("CANVAS_PORT", "9090")
	t.Setenv("CANVAS_CORS_ORIGIN", "https://canvas.example")

	cfg, err := Parse([]string{"canvas-api", "-port", "7070", "-failure_rate", "0.25", "-base_url", "/canvas/"})

	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, 0.25, cfg.FailureRate)
	assert.Equal(t, "/canvas", cfg.BaseURL)
	assert.Equal(t, "https://canvas.example", cfg.CORSOrigin)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"port out of range", []string{"canvas-api", "-port", "70000"}},
		{"failure rate above one", []string{"canvas-api", "-failure_rate", "2"}},
		{"unknown log level", []string{"canvas-api", "-log_level", "loud"}},
		{"unknown flag", []string{"canvas-api", "-nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.args)
			assert.Error(t, err)
		})
	}
}
