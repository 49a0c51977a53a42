package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/habitflow/habitflow/internal/constants"
)

// Config is the application configuration. Values come from, in increasing
// precedence: built-in defaults, the YAML file, HABITFLOW_* environment
// variables, command line flags.
type Config struct {
	Storage     string      `mapstructure:"storage"`
	UserID      string      `mapstructure:"user_id"`
	DisplayName string      `mapstructure:"display_name"`
	Timezone    string      `mapstructure:"timezone"`
	Debug       bool        `mapstructure:"debug"`
	Sync        SyncConfig  `mapstructure:"sync"`
	Coach       CoachConfig `mapstructure:"coach"`
	Notify      bool        `mapstructure:"notify"`
}

type SyncConfig struct {
	DebounceMS int `mapstructure:"debounce_ms"`
}

// CoachConfig points at any OpenAI compatible chat completion endpoint
type CoachConfig struct {
	BaseURL         string  `mapstructure:"base_url"`
	Model           string  `mapstructure:"model"`
	APIKey          string  `mapstructure:"api_key"`
	TimeoutSec      int     `mapstructure:"timeout_sec"`
	MaxTokens       int     `mapstructure:"max_tokens"`
	Temperature     float64 `mapstructure:"temperature"`
	ChatMaxTokens   int     `mapstructure:"chat_max_tokens"`
	ChatTemperature float64 `mapstructure:"chat_temperature"`
	HistoryLimit    int     `mapstructure:"history_limit"`
}

const (
	DefaultCoachBaseURL = "https://api.groq.com/openai/v1"
	DefaultCoachModel   = "llama-3.3-70b-versatile"
	envPrefix           = "HABITFLOW"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage", constants.DefaultStoragePath)
	v.SetDefault("user_id", constants.DefaultUserID)
	v.SetDefault("display_name", "")
	v.SetDefault("timezone", "Local")
	v.SetDefault("debug", false)
	v.SetDefault("notify", true)
	v.SetDefault("sync.debounce_ms", int(constants.DefaultSyncDebounce/time.Millisecond))
	v.SetDefault("coach.base_url", DefaultCoachBaseURL)
	v.SetDefault("coach.model", DefaultCoachModel)
	v.SetDefault("coach.api_key", "")
	v.SetDefault("coach.timeout_sec", 20)
	v.SetDefault("coach.max_tokens", 400)
	v.SetDefault("coach.temperature", 0.75)
	v.SetDefault("coach.chat_max_tokens", 1024)
	v.SetDefault("coach.chat_temperature", 0.7)
	v.SetDefault("coach.history_limit", 10)
}

// DefaultPath returns ~/.config/habitflow/config.yaml
func DefaultPath() string {
	return filepath.Join(ExpandHome(constants.DefaultConfigDir), "config.yaml")
}

// Load reads the YAML file at path. A missing file is not an error: defaults
// and environment variables still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		var pathErr *os.PathError
		if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.Storage = ExpandHome(cfg.Storage)
	return cfg, cfg.Validate()
}

// Validate rejects values no component can work with
func (c *Config) Validate() error {
	if strings.TrimSpace(c.UserID) == "" {
		return errors.New("user_id must not be empty")
	}
	if c.Sync.DebounceMS < 0 {
		return fmt.Errorf("sync.debounce_ms must not be negative, got %d", c.Sync.DebounceMS)
	}
	if c.Coach.TimeoutSec <= 0 {
		return fmt.Errorf("coach.timeout_sec must be positive, got %d", c.Coach.TimeoutSec)
	}
	if c.Coach.HistoryLimit < 0 {
		return fmt.Errorf("coach.history_limit must not be negative, got %d", c.Coach.HistoryLimit)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// Save writes the non-secret settings to path as YAML
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("storage", cfg.Storage)
	v.Set("user_id", cfg.UserID)
	v.Set("display_name", cfg.DisplayName)
	v.Set("timezone", cfg.Timezone)
	v.Set("notify", cfg.Notify)
	v.Set("sync.debounce_ms", cfg.Sync.DebounceMS)
	v.Set("coach.base_url", cfg.Coach.BaseURL)
	v.Set("coach.model", cfg.Coach.Model)
	v.Set("coach.timeout_sec", cfg.Coach.TimeoutSec)
	v.Set("coach.history_limit", cfg.Coach.HistoryLimit)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

func (c *Config) SyncDebounce() time.Duration {
	return time.Duration(c.Sync.DebounceMS) * time.Millisecond
}

func (c *Config) CoachTimeout() time.Duration {
	return time.Duration(c.Coach.TimeoutSec) * time.Second
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
