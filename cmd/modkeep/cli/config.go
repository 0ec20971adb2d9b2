package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "MODKEEP"

var (
	configPaths = []string{".", "./config", "$HOME/.modkeep"}
	envFiles    = []string{".env", ".env.local"}
)

// loadEnvFiles loads the dotenv files found in dir. Values already present
// in the environment win.
func loadEnvFiles(dir string) {
	for _, name := range envFiles {
		_ = godotenv.Load(filepath.Join(dir, name))
	}
}

func initConfig(path string) error {
	loadEnvFiles(".")

	if path == "" {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		for _, dir := range configPaths {
			viper.AddConfigPath(dir)
			loadEnvFiles(dir)
		}
	} else {
		viper.SetConfigFile(path)
		loadEnvFiles(filepath.Dir(path))
	}

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}
