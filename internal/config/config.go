// Package config loads server settings from defaults, an optional config
// file, CHECKERS_ environment variables and explicit flag overrides, in that
// order of precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

const envPrefix = "CHECKERS"

type Config struct {
	APIHost       string        `mapstructure:"api_host"`
	APIPort       int           `mapstructure:"api_port"`
	Dev           bool          `mapstructure:"dev"`
	StoragePath   string        `mapstructure:"storage_path"` // Empty disables persistence
	PIDPath       string        `mapstructure:"pid"`
	PIDLock       bool          `mapstructure:"pid_lock"`
	Workers       int           `mapstructure:"workers"`
	SearchTimeout time.Duration `mapstructure:"search_timeout"`
	RateLimit     int           `mapstructure:"rate_limit"`
	AccessLog     bool          `mapstructure:"access_log"`
	LogLevel      string        `mapstructure:"log_level"`
	SeatTokens    bool          `mapstructure:"seat_tokens"`
	JWTSecret     string        `mapstructure:"jwt_secret"` // Generated at startup when empty
}

var defaults = map[string]any{
	"api_host":       "localhost",
	"api_port":       8080,
	"dev":            false,
	"storage_path":   "",
	"pid":            "",
	"pid_lock":       false,
	"workers":        2,
	"search_timeout": 10 * time.Second,
	"rate_limit":     10,
	"access_log":     true,
	"log_level":      "info",
	"seat_tokens":    true,
	"jwt_secret":     "",
}

// Load reads configuration. path may be empty; overrides hold values set
// explicitly on the command line and win over everything else.
func Load(path string, overrides map[string]any) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	for key, value := range overrides {
		v.Set(strings.ReplaceAll(key, "-", "_"), value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.APIPort < 1 || c.APIPort > 65535 {
		return fmt.Errorf("api_port %d out of range", c.APIPort)
	}
	if c.PIDLock && c.PIDPath == "" {
		return fmt.Errorf("pid_lock requires pid to be set")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.SearchTimeout <= 0 {
		return fmt.Errorf("search_timeout must be positive")
	}
	if c.RateLimit < 1 {
		return fmt.Errorf("rate_limit must be at least 1, got %d", c.RateLimit)
	}
	if c.JWTSecret != "" && len(c.JWTSecret) < 32 {
		return fmt.Errorf("jwt_secret must be at least 32 characters")
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return nil
}

// Addr is the API listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.APIHost, c.APIPort)
}
