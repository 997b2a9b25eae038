// Package config loads application configuration from an optional YAML file
// and CALENDAR_AGENT_* environment variables, on top of built-in defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Holidays HolidaysConfig `mapstructure:"holidays"`
	Events   EventsConfig   `mapstructure:"events"`
	Agent    AgentConfig    `mapstructure:"agent"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr is the host:port the server binds to.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// HolidaysConfig selects and tunes the holiday source. Source is one of
// "nager" (remote API only), "builtin" (statutory rules only) or "auto"
// (remote with rule-based fallback).
type HolidaysConfig struct {
	Source  string        `mapstructure:"source"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// EventsConfig tunes the on-this-day feed client. An empty UserAgent
// selects the client's built-in one.
type EventsConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Language  string        `mapstructure:"language"`
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// AgentConfig names the service in its published manifest.
type AgentConfig struct {
	Name     string `mapstructure:"name"`
	Version  string `mapstructure:"version"`
	Currency string `mapstructure:"currency"`
}

// LogConfig controls logging. An empty File logs to stderr only; a file path
// adds a size-rotated log file.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// Load reads configuration. With an explicit path the file must exist; with
// none, a config.yaml in . or ./configs is used when present and the
// defaults carry otherwise.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	v.SetEnvPrefix("CALENDAR_AGENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	v.SetDefault("holidays.source", "auto")
	v.SetDefault("holidays.base_url", "https://date.nager.at")
	v.SetDefault("holidays.timeout", 10*time.Second)

	v.SetDefault("events.base_url", "https://api.wikimedia.org")
	v.SetDefault("events.language", "en")
	v.SetDefault("events.user_agent", "")
	v.SetDefault("events.timeout", 10*time.Second)

	v.SetDefault("agent.name", "calendar-agent")
	v.SetDefault("agent.version", "0.1.0")
	v.SetDefault("agent.currency", "USD")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	switch c.Holidays.Source {
	case "nager", "builtin", "auto":
	default:
		return fmt.Errorf("holidays.source must be 'nager', 'builtin' or 'auto', got '%s'", c.Holidays.Source)
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level '%s' is not a valid level", c.Log.Level)
	}

	return nil
}
