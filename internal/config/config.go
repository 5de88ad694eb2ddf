// Package config provides application configuration with multi-source priority.
//
// Sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.uiforge/config.yaml, or ./config.yaml)
//  3. Default values
//
// The GEMINI_API_KEY secret is read from the environment only, never from
// the config file. A missing key is not a load error: the server starts and
// reports the condition through /api/health, and generation endpoints fail
// with a configuration error until the key is provided.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

var (
	// ErrInvalidModelName indicates the model name is empty.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidAddr indicates the listen address is empty.
	ErrInvalidAddr = errors.New("invalid listen address")

	// ErrInvalidDataFile indicates the session data file path is empty.
	ErrInvalidDataFile = errors.New("invalid data file path")

	// ErrInvalidRateLimit indicates a non-positive rate limit setting.
	ErrInvalidRateLimit = errors.New("invalid rate limit")

	// ErrInvalidRetry indicates a non-positive retry setting.
	ErrInvalidRetry = errors.New("invalid retry setting")
)

// Config stores application configuration.
// SECURITY: APIKey is sourced from the environment and must never be logged.
type Config struct {
	// Model gateway configuration
	APIKey    string        `mapstructure:"-" json:"-"` // GEMINI_API_KEY, env only
	ModelName string        `mapstructure:"model_name" json:"model_name"`
	BaseDelay time.Duration `mapstructure:"retry_base_delay" json:"retry_base_delay"`
	MaxDelay  time.Duration `mapstructure:"retry_max_delay" json:"retry_max_delay"`

	// HTTP server configuration
	Addr        string   `mapstructure:"addr" json:"addr"`
	CORSOrigins []string `mapstructure:"cors_origins" json:"cors_origins"`
	RateLimit   float64  `mapstructure:"rate_limit" json:"rate_limit"` // requests/second per client
	RateBurst   int      `mapstructure:"rate_burst" json:"rate_burst"`

	// Storage configuration
	DataFile string `mapstructure:"data_file" json:"data_file"`

	// Logging configuration
	LogLevel string `mapstructure:"log_level" json:"log_level"`
	LogJSON  bool   `mapstructure:"log_json" json:"log_json"`
}

// Load loads configuration.
// Priority: environment variables > configuration file > default values.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".uiforge")
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	setDefaults(v, configDir)
	bindEnvVariables(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine, defaults apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	// The API key is a secret and bypasses viper entirely.
	cfg.APIKey = os.Getenv("GEMINI_API_KEY")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("model_name", "gemini-flash-latest")
	v.SetDefault("retry_base_delay", 10*time.Second)
	v.SetDefault("retry_max_delay", 35*time.Second)

	v.SetDefault("addr", ":3001")
	v.SetDefault("cors_origins", []string{"*"})
	v.SetDefault("rate_limit", 5.0)
	v.SetDefault("rate_burst", 10)

	v.SetDefault("data_file", filepath.Join(configDir, "sessions.json"))

	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", false)
}

// bindEnvVariables binds runtime overrides explicitly. Hardcoded keys make
// a bind failure a bug, hence the panic.
func bindEnvVariables(v *viper.Viper) {
	mustBind := func(key, envVar string) {
		if err := v.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("model_name", "UIFORGE_MODEL_NAME")
	mustBind("addr", "UIFORGE_ADDR")
	mustBind("cors_origins", "UIFORGE_CORS_ORIGINS")
	mustBind("rate_limit", "UIFORGE_RATE_LIMIT")
	mustBind("rate_burst", "UIFORGE_RATE_BURST")
	mustBind("data_file", "UIFORGE_DATA_FILE")
	mustBind("log_level", "UIFORGE_LOG_LEVEL")
	mustBind("log_json", "UIFORGE_LOG_JSON")

	// NOTE: GEMINI_API_KEY is read directly in Load, not via viper, so it
	// can never leak through config serialization.
}

// Validate checks configuration values.
// Returns sentinel errors that can be checked with errors.Is().
func (c *Config) Validate() error {
	if c.ModelName == "" {
		return fmt.Errorf("%w: model_name cannot be empty", ErrInvalidModelName)
	}
	if c.Addr == "" {
		return fmt.Errorf("%w: addr cannot be empty", ErrInvalidAddr)
	}
	if c.DataFile == "" {
		return fmt.Errorf("%w: data_file cannot be empty", ErrInvalidDataFile)
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("%w: rate_limit must be positive, got %v", ErrInvalidRateLimit, c.RateLimit)
	}
	if c.RateBurst < 1 {
		return fmt.Errorf("%w: rate_burst must be at least 1, got %d", ErrInvalidRateLimit, c.RateBurst)
	}
	if c.BaseDelay <= 0 || c.MaxDelay <= 0 {
		return fmt.Errorf("%w: retry delays must be positive", ErrInvalidRetry)
	}
	if c.MaxDelay < c.BaseDelay {
		return fmt.Errorf("%w: retry_max_delay must be at least retry_base_delay", ErrInvalidRetry)
	}
	return nil
}

// HasAPIKey reports whether a model API key is configured.
func (c *Config) HasAPIKey() bool {
	return c.APIKey != ""
}
