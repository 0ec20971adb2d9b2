package cli

import (
	"context"
	"fmt"

	"github.com/mwantia/modkeep/internal/app"
	"github.com/mwantia/modkeep/internal/config"
	"github.com/spf13/cobra"
)

// RunApp loads the configuration, opens the inventory and runs fn. Commands
// that only need the database pass requireModDir=false.
func RunApp(cmd *cobra.Command, requireModDir bool, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if requireModDir {
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	return app.New(cfg, cmd.OutOrStdout()).Run(cmd.Context(), fn)
}
