package config

// ScanConfig controls which files and directories take part in a scan.
type ScanConfig struct {
	// Extensions lists the package file extensions that are hashed.
	Extensions []string `mapstructure:"extensions" yaml:"extensions" toml:"extensions"`
	// Ignore lists doublestar patterns of mod directory names to skip.
	Ignore []string `mapstructure:"ignore" yaml:"ignore" toml:"ignore"`
}

type PromptConfig struct {
	Accessible bool `mapstructure:"accessible" yaml:"accessible" toml:"accessible"`
}
