// Package config provides application configuration management using Viper.
// It supports loading from environment variables, config files, and defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Anthropic AnthropicConfig
	Assistant AssistantConfig
	Session   SessionConfig
	Log       LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string
	Port        int
	Environment string
}

// DatabaseConfig holds PostgreSQL connection settings for the
// conversation memory log.
type DatabaseConfig struct {
	Host                  string
	Port                  int
	User                  string
	Password              string
	Name                  string
	SSLMode               string
	MaxConnections        int
	ConnectionMaxLifetime time.Duration

	// Enabled switches the conversation log between PostgreSQL and the
	// in-process store.
	Enabled bool
}

// ConnectionString returns a PostgreSQL connection string.
func (d *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// AnthropicConfig holds Claude API settings for text generation and
// photo analysis.
type AnthropicConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// AssistantConfig selects the assistant strategy and its limits.
type AssistantConfig struct {
	// Strategy is "generative" (Claude-backed) or "scripted"
	// (deterministic canned phrasing, no API calls).
	Strategy string

	// MaxImagesPerTurn caps how many photos a single turn may analyze.
	MaxImagesPerTurn int
}

// SessionConfig holds in-memory session store settings.
type SessionConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// RateLimitConfig holds rate limiting settings.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// Load reads configuration from environment variables and config files.
// Environment variables take precedence over config file values.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/reenove")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configNotFoundErr viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFoundErr) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:        v.GetString("server.host"),
			Port:        v.GetInt("server.port"),
			Environment: v.GetString("server.env"),
		},
		Database: DatabaseConfig{
			Host:                  v.GetString("database.host"),
			Port:                  v.GetInt("database.port"),
			User:                  v.GetString("database.user"),
			Password:              v.GetString("database.password"),
			Name:                  v.GetString("database.name"),
			SSLMode:               v.GetString("database.sslmode"),
			MaxConnections:        v.GetInt("database.max_connections"),
			ConnectionMaxLifetime: v.GetDuration("database.connection_max_lifetime"),
			Enabled:               v.GetBool("database.enabled"),
		},
		Anthropic: AnthropicConfig{
			APIKey:  v.GetString("anthropic.api_key"),
			Model:   v.GetString("anthropic.model"),
			BaseURL: v.GetString("anthropic.base_url"),
		},
		Assistant: AssistantConfig{
			Strategy:         v.GetString("assistant.strategy"),
			MaxImagesPerTurn: v.GetInt("assistant.max_images_per_turn"),
		},
		Session: SessionConfig{
			TTL:           v.GetDuration("session.ttl"),
			SweepInterval: v.GetDuration("session.sweep_interval"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("rate_limit.requests"),
			Window:   v.GetDuration("rate_limit.window"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults configures default values for all settings.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.env", "development")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "reenove")
	v.SetDefault("database.name", "reenove")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_connections", 25)
	v.SetDefault("database.connection_max_lifetime", "5m")
	v.SetDefault("database.enabled", false)

	v.SetDefault("anthropic.model", "claude-sonnet-4-20250514")
	v.SetDefault("anthropic.base_url", "https://api.anthropic.com")

	v.SetDefault("assistant.strategy", "generative")
	v.SetDefault("assistant.max_images_per_turn", 5)

	v.SetDefault("session.ttl", "30m")
	v.SetDefault("session.sweep_interval", "5m")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1m")
}

// Validate checks that all required configuration values are present.
func (c *Config) Validate() error {
	var missing []string

	if c.Assistant.Strategy == "generative" && c.Anthropic.APIKey == "" {
		missing = append(missing, "ANTHROPIC_API_KEY")
	}
	if c.Database.Enabled && c.Database.Password == "" {
		missing = append(missing, "DATABASE_PASSWORD")
	}

	switch c.Assistant.Strategy {
	case "generative", "scripted":
	default:
		return fmt.Errorf("invalid assistant strategy %q (want generative or scripted)", c.Assistant.Strategy)
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
