package setup

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mwantia/modkeep/internal/config"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management utilities",
		Long: `Manage modkeep configuration files.

This command generates a configuration file holding every default so it
can be adjusted to the local mod directory and database location.`,
	}

	cmd.AddCommand(newConfigGenerateCommand())

	return cmd
}

func newConfigGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputDir, _ := cmd.Flags().GetString("output")
			overwrite, _ := cmd.Flags().GetBool("overwrite")
			format, _ := cmd.Flags().GetString("format")

			data, ext, err := marshalDefaults(format)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(outputDir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}

			filename := filepath.Join(outputDir, "config."+ext)
			if _, err := os.Stat(filename); err == nil && !overwrite {
				return fmt.Errorf("%s exists, use --overwrite to replace it", filename)
			}

			if err := os.WriteFile(filename, data, 0644); err != nil {
				return fmt.Errorf("failed to write config file %s: %w", filename, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Generated %s\n", filename)
			return nil
		},
	}

	cmd.Flags().String("output", ".", "output directory for the configuration file")
	cmd.Flags().String("format", "yaml", "file format (yaml, toml)")
	cmd.Flags().Bool("overwrite", false, "overwrite an existing file")

	return cmd
}

func marshalDefaults(format string) ([]byte, string, error) {
	cfg := config.GetDefault()

	switch format {
	case "yaml", "yml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, "", fmt.Errorf("failed to marshal config: %w", err)
		}
		return data, "yaml", nil
	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return nil, "", fmt.Errorf("failed to marshal config: %w", err)
		}
		return data, "toml", nil
	default:
		return nil, "", fmt.Errorf("unknown config format '%s'", format)
	}
}
