// Package config loads handler settings from the environment.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load
const EnvPrefix = "STRONG_LAMBDA"

const (
	keyLogLevel             = "log_level"
	keyLogFormat            = "log_format"
	keyCorrelationKey       = "correlation_key"
	keyCustomResourceMarker = "custom_resource_marker"
)

// Log formats understood by Config.Logger
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Config holds the settings shared by every wrapped handler
type Config struct {
	LogLevel             string
	LogFormat            string
	CorrelationKey       string
	CustomResourceMarker string
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            FormatJSON,
		CorrelationKey:       "correlation_id",
		CustomResourceMarker: "ResourceProperties",
	}
}

// Load reads STRONG_LAMBDA_* environment variables over the defaults
func Load() (*Config, error) {
	return load(newViper())
}

// LoadFile reads a YAML config file and lets the environment override it
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return load(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	def := Default()
	v.SetDefault(keyLogLevel, def.LogLevel)
	v.SetDefault(keyLogFormat, def.LogFormat)
	v.SetDefault(keyCorrelationKey, def.CorrelationKey)
	v.SetDefault(keyCustomResourceMarker, def.CustomResourceMarker)
	return v
}

func load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		LogLevel:             strings.ToLower(v.GetString(keyLogLevel)),
		LogFormat:            strings.ToLower(v.GetString(keyLogFormat)),
		CorrelationKey:       v.GetString(keyCorrelationKey),
		CustomResourceMarker: v.GetString(keyCustomResourceMarker),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks level, format and marker
func (c *Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	switch c.LogFormat {
	case FormatJSON, FormatText:
	default:
		return fmt.Errorf("invalid log format %q: want %s or %s", c.LogFormat, FormatJSON, FormatText)
	}
	if c.CustomResourceMarker == "" {
		return fmt.Errorf("custom resource marker cannot be empty")
	}
	return nil
}

// Level parses LogLevel
func (c *Config) Level() (slog.Level, error) {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
}

// Logger builds a logger writing to w in the configured format and level.
// An invalid level falls back to info.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, _ := c.Level()
	opts := &slog.HandlerOptions{Level: level}

	if c.LogFormat == FormatText {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
