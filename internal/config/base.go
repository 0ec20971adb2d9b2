package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type BaseConfig struct {
	ModDirectory string `mapstructure:"mod_directory" yaml:"mod_directory" toml:"mod_directory"`

	Database DatabaseConfig `mapstructure:"database" yaml:"database" toml:"database"`
	Scan     ScanConfig     `mapstructure:"scan"     yaml:"scan"     toml:"scan"`
	Prompt   PromptConfig   `mapstructure:"prompt"   yaml:"prompt"   toml:"prompt"`
	Log      LogConfig      `mapstructure:"log"      yaml:"log"      toml:"log"`
}

func LoadConfig() (*BaseConfig, error) {
	cfg := &BaseConfig{}

	setDefaults()

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	cfg.ModDirectory = expandHome(cfg.ModDirectory)
	cfg.Database.Path = expandHome(cfg.Database.Path)

	return cfg, nil
}

// Validate checks that the configured mod directory exists.
func (c *BaseConfig) Validate() error {
	if c.ModDirectory == "" {
		return fmt.Errorf("mod_directory is not configured")
	}
	info, err := os.Stat(c.ModDirectory)
	if err != nil {
		return fmt.Errorf("could not locate mod directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("mod directory '%s' is not a directory", c.ModDirectory)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is not configured")
	}
	return nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
