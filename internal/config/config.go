package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database  DatabaseConfig
	Assistant AssistantConfig
	UI        UIConfig
	Export    ExportConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// AssistantConfig holds analysis-backend settings.
type AssistantConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DateFormat     string
	CurrencySymbol string
}

// ExportConfig holds export output settings.
type ExportConfig struct {
	OutDir string
}

// Load reads configuration from file and env. Env var overrides use prefix PORTVIEW_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "portview", "portview.db"))
	v.SetDefault("assistant.base_url", "http://localhost:8000")
	v.SetDefault("assistant.timeout_seconds", 30)
	v.SetDefault("ui.date_format", "2006-01-02")
	v.SetDefault("ui.currency_symbol", "$")
	v.SetDefault("export.out_dir", filepath.Join(os.Getenv("HOME"), "portview-exports"))

	v.SetConfigType("toml")

	cfgPath := os.Getenv("PORTVIEW_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "portview"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("PORTVIEW")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := os.Getenv("PORTVIEW_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "portview", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("assistant.base_url", cfg.Assistant.BaseURL)
	v.Set("assistant.timeout_seconds", cfg.Assistant.TimeoutSeconds)
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("ui.currency_symbol", cfg.UI.CurrencySymbol)
	v.Set("export.out_dir", cfg.Export.OutDir)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
