// Package config loads the vibemaker configuration from file, environment and
// defaults, in that order of increasing precedence for the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full runtime configuration.
type Config struct {
	Model      string        `mapstructure:"model" json:"model"`
	APIKey     string        `mapstructure:"api_key" json:"api_key"`
	BaseURL    string        `mapstructure:"base_url" json:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout" json:"timeout"`
	MaxRetries int           `mapstructure:"max_retries" json:"max_retries"`

	CacheSize int           `mapstructure:"cache_size" json:"cache_size"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl" json:"cache_ttl"`

	Server ServerConfig `mapstructure:"server" json:"server"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Host           string        `mapstructure:"host" json:"host"`
	Port           int           `mapstructure:"port" json:"port"`
	EnableCORS     bool          `mapstructure:"enable_cors" json:"enable_cors"`
	AllowedOrigins []string      `mapstructure:"allowed_origins" json:"allowed_origins"`
	Debug          bool          `mapstructure:"debug" json:"debug"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout" json:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout" json:"write_timeout"`
}

// Default returns the built-in configuration, valid except for the API key.
func Default() *Config {
	return &Config{
		Model:      "gpt-4o-mini",
		BaseURL:    "https://api.openai.com/v1",
		Timeout:    60 * time.Second,
		MaxRetries: 3,
		CacheSize:  256,
		CacheTTL:   5 * time.Minute,
		Server: ServerConfig{
			Host:         "localhost",
			Port:         8080,
			EnableCORS:   true,
			Debug:        false,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 120 * time.Second,
		},
	}
}

// Load reads vibemaker-config.json from $HOME or the working directory, then
// applies VIBEMAKER_* environment overrides (VIBEMAKER_API_KEY,
// VIBEMAKER_MODEL, VIBEMAKER_SERVER_PORT, ...). A missing config file is not
// an error; defaults cover every field.
func Load() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetConfigName("vibemaker-config")
	v.SetConfigType("json")
	v.AddConfigPath("$HOME")
	v.AddConfigPath(".")

	v.SetEnvPrefix("VIBEMAKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := Default()
	v.SetDefault("model", defaults.Model)
	v.SetDefault("base_url", defaults.BaseURL)
	v.SetDefault("timeout", defaults.Timeout)
	v.SetDefault("max_retries", defaults.MaxRetries)
	v.SetDefault("cache_size", defaults.CacheSize)
	v.SetDefault("cache_ttl", defaults.CacheTTL)
	v.SetDefault("server.host", defaults.Server.Host)
	v.SetDefault("server.port", defaults.Server.Port)
	v.SetDefault("server.enable_cors", defaults.Server.EnableCORS)
	v.SetDefault("server.debug", defaults.Server.Debug)
	v.SetDefault("server.read_timeout", defaults.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", defaults.Server.WriteTimeout)

	// Env-only keys need explicit binding or AutomaticEnv misses them when the
	// config file leaves them unset.
	for _, key := range []string{"api_key", "model", "base_url", "timeout", "max_retries", "cache_size", "cache_ttl"} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks structural sanity. It does not require an API key; commands
// that reach the completion service enforce that themselves.
func (c *Config) Validate() error {
	if c.Model == "" {
		return errors.New("model must not be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative, got %d", c.MaxRetries)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size must not be negative, got %d", c.CacheSize)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	return nil
}
