package setup

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mwantia/modkeep/cmd/modkeep/cli"
	"github.com/mwantia/modkeep/internal/app"
	"github.com/mwantia/modkeep/internal/config"
	"github.com/spf13/cobra"
)

func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the inventory database",
		Long: `Create the inventory database and apply every migration.

An existing database is only replaced when --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			if err := removeDatabase(cfg.Database.Path, force); err != nil {
				return err
			}

			return cli.RunApp(cmd, false, func(ctx context.Context, a *app.App) error {
				a.Console().Success("Initialized database at '%s'", cfg.Database.Path)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "replace an existing database")

	return cmd
}

func removeDatabase(path string, force bool) error {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("database path '%s' is a directory", path)
	}
	if !force {
		return fmt.Errorf("database '%s' already exists, use --force to replace it", path)
	}

	for _, suffix := range []string{"", "-wal", "-shm", "-journal"} {
		if err := os.Remove(path + suffix); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove '%s': %w", path+suffix, err)
		}
	}
	return nil
}
