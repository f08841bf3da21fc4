// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Inspector() InspectorConfig
	Store() StoreConfig
	Watch() WatchConfig

	// Inspector setters, used by command flags.
	SetInspectorViewport(width, height float64)
	SetInspectorMediaType(mediaType string)
}

// Config holds the entire application configuration.
type Config struct {
	LoggerCfg    LoggerConfig    `mapstructure:"logger" yaml:"logger"`
	InspectorCfg InspectorConfig `mapstructure:"inspector" yaml:"inspector"`
	StoreCfg     StoreConfig     `mapstructure:"store" yaml:"store"`
	WatchCfg     WatchConfig     `mapstructure:"watch" yaml:"watch"`
}

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig       { return c.LoggerCfg }
func (c *Config) Inspector() InspectorConfig { return c.InspectorCfg }
func (c *Config) Store() StoreConfig         { return c.StoreCfg }
func (c *Config) Watch() WatchConfig         { return c.WatchCfg }

// --- Interface Method Implementations (Setters) ---

func (c *Config) SetInspectorViewport(width, height float64) {
	if width > 0 {
		c.InspectorCfg.ViewportWidth = width
	}
	if height > 0 {
		c.InspectorCfg.ViewportHeight = height
	}
}

func (c *Config) SetInspectorMediaType(mediaType string) {
	if mediaType != "" {
		c.InspectorCfg.MediaType = mediaType
	}
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// InspectorConfig describes the environment of the isolated render context.
// The viewport dimensions and media type feed @media evaluation; the root
// font size resolves em/rem lengths inside media conditions.
type InspectorConfig struct {
	ViewportWidth  float64 `mapstructure:"viewport_width" yaml:"viewport_width"`
	ViewportHeight float64 `mapstructure:"viewport_height" yaml:"viewport_height"`
	RootFontSize   float64 `mapstructure:"root_font_size" yaml:"root_font_size"`
	MediaType      string  `mapstructure:"media_type" yaml:"media_type"`
}

// StoreConfig locates the persistent buffer store. An empty Dir resolves to
// a dot-directory under the user's home at open time.
type StoreConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// WatchConfig tunes watch-mode rebuild behavior.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// Load unmarshals the given viper instance (defaults applied) into a Config.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "domlens")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Inspector --
	v.SetDefault("inspector.viewport_width", 1280.0)
	v.SetDefault("inspector.viewport_height", 800.0)
	v.SetDefault("inspector.root_font_size", 16.0)
	v.SetDefault("inspector.media_type", "screen")

	// -- Store --
	v.SetDefault("store.dir", "")

	// -- Watch --
	v.SetDefault("watch.debounce", 300*time.Millisecond)
}
