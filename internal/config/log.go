package config

type LogConfig struct {
	Level      string            `mapstructure:"level"       yaml:"level"       toml:"level"`
	TimeFormat string            `mapstructure:"time_format" yaml:"time_format" toml:"time_format"`
	File       string            `mapstructure:"file"        yaml:"file"        toml:"file"`
	NoColor    bool              `mapstructure:"no_color"    yaml:"no_color"    toml:"no_color"`
	JSON       bool              `mapstructure:"json"        yaml:"json"        toml:"json"`
	NoTerminal bool              `mapstructure:"no_terminal" yaml:"no_terminal" toml:"no_terminal"`
	Rotation   LogRotationConfig `mapstructure:"rotation"    yaml:"rotation"    toml:"rotation"`
}

type LogRotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"     yaml:"max_size"     toml:"max_size"`
	MaxBackups int  `mapstructure:"max_backups"  yaml:"max_backups"  toml:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"      yaml:"max_age"      toml:"max_age"`
	Compress   bool `mapstructure:"compress"     yaml:"compress"     toml:"compress"`
}
