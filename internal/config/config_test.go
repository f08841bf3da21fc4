package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, "info", cfg.Logger().Level)
	assert.Equal(t, "console", cfg.Logger().Format)
	assert.Equal(t, "domlens", cfg.Logger().ServiceName)

	assert.Equal(t, 1280.0, cfg.Inspector().ViewportWidth)
	assert.Equal(t, 800.0, cfg.Inspector().ViewportHeight)
	assert.Equal(t, 16.0, cfg.Inspector().RootFontSize)
	assert.Equal(t, "screen", cfg.Inspector().MediaType)

	assert.Equal(t, 300*time.Millisecond, cfg.Watch().Debounce)
}

func TestLoadOverrides(t *testing.T) {
	v := viper.New()
	v.Set("inspector.viewport_width", 375.0)
	v.Set("inspector.media_type", "print")
	v.Set("logger.level", "debug")

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, 375.0, cfg.Inspector().ViewportWidth)
	// Unset values still come from defaults.
	assert.Equal(t, 800.0, cfg.Inspector().ViewportHeight)
	assert.Equal(t, "print", cfg.Inspector().MediaType)
	assert.Equal(t, "debug", cfg.Logger().Level)
}

func TestSetters(t *testing.T) {
	cfg := NewDefaultConfig()

	cfg.SetInspectorViewport(1024, 768)
	assert.Equal(t, 1024.0, cfg.Inspector().ViewportWidth)
	assert.Equal(t, 768.0, cfg.Inspector().ViewportHeight)

	// Non-positive dimensions are ignored.
	cfg.SetInspectorViewport(0, -1)
	assert.Equal(t, 1024.0, cfg.Inspector().ViewportWidth)
	assert.Equal(t, 768.0, cfg.Inspector().ViewportHeight)

	cfg.SetInspectorMediaType("print")
	assert.Equal(t, "print", cfg.Inspector().MediaType)
	cfg.SetInspectorMediaType("")
	assert.Equal(t, "print", cfg.Inspector().MediaType)
}
