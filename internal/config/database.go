package config

// DatabaseConfig holds the inventory store configuration
type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path" toml:"path"`
	// Debug enables gorm's SQL statement logging.
	Debug bool `mapstructure:"debug" yaml:"debug" toml:"debug"`
}
