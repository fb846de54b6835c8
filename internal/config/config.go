package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all configuration for the logo fetcher application.
type Config struct {
	// TokenListPath is the JSON file holding the token records.
	TokenListPath string `mapstructure:"token_list_path"`

	// LogoDir receives one image file per downloaded logo. It is treated as
	// append-only storage across repeated runs.
	LogoDir string `mapstructure:"logo_dir"`
}

// Load reads configuration from an optional config file, falling back to
// defaults that reproduce the stock behavior: token-list.json in the working
// directory, logos under ./token-logo. The program consumes no environment
// variables and no CLI flags.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("token_list_path", "token-list.json")
	v.SetDefault("logo_dir", "./token-logo")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.logofetcher")

	// Read config file (ignore if not found)
	_ = v.ReadInConfig()

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.TokenListPath == "" {
		return nil, fmt.Errorf("token_list_path must not be empty")
	}
	if config.LogoDir == "" {
		return nil, fmt.Errorf("logo_dir must not be empty")
	}

	return config, nil
}
