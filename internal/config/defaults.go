package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

func GetDefault() BaseConfig {
	return BaseConfig{
		ModDirectory: defaultModDirectory(),

		Database: DatabaseConfig{
			Path:  defaultDatabasePath(),
			Debug: false,
		},
		Scan: ScanConfig{
			Extensions: []string{".package", ".ts4script"},
			Ignore:     []string{"mod_data"},
		},
		Prompt: PromptConfig{
			Accessible: false,
		},
		Log: LogConfig{
			Level:      "WARN",
			TimeFormat: "2006-01-02 15:04:05",
			File:       "",
			NoColor:    false,
			JSON:       false,
			NoTerminal: false,
			Rotation: LogRotationConfig{
				MaxSize:    16,
				MaxBackups: 3,
				MaxAge:     28,
				Compress:   false,
			},
		},
	}
}

func setDefaults() {
	defaults := GetDefault()

	viper.SetDefault("mod_directory", defaults.ModDirectory)

	viper.SetDefault("database.path", defaults.Database.Path)
	viper.SetDefault("database.debug", defaults.Database.Debug)

	viper.SetDefault("scan.extensions", defaults.Scan.Extensions)
	viper.SetDefault("scan.ignore", defaults.Scan.Ignore)

	viper.SetDefault("prompt.accessible", defaults.Prompt.Accessible)

	viper.SetDefault("log.level", defaults.Log.Level)
	viper.SetDefault("log.time_format", defaults.Log.TimeFormat)
	viper.SetDefault("log.file", defaults.Log.File)
	viper.SetDefault("log.no_color", defaults.Log.NoColor)
	viper.SetDefault("log.json", defaults.Log.JSON)
	viper.SetDefault("log.no_terminal", defaults.Log.NoTerminal)
	viper.SetDefault("log.rotation.max_size", defaults.Log.Rotation.MaxSize)
	viper.SetDefault("log.rotation.max_backups", defaults.Log.Rotation.MaxBackups)
	viper.SetDefault("log.rotation.max_age", defaults.Log.Rotation.MaxAge)
	viper.SetDefault("log.rotation.compress", defaults.Log.Rotation.Compress)
}

func defaultModDirectory() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "Documents", "Electronic Arts", "The Sims 4", "Mods")
}

func defaultDatabasePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "mods.sqlite"
	}
	return filepath.Join(dir, "modkeep", "mods.sqlite")
}
