package setup

import (
	"context"
	"errors"
	"fmt"

	"github.com/mwantia/modkeep/cmd/modkeep/cli"
	"github.com/mwantia/modkeep/internal/app"
	"github.com/mwantia/modkeep/pkg/db/migrations"
	"github.com/spf13/cobra"
)

func NewDatabaseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Inspect and manage the database schema",
	}

	cmd.AddCommand(newDatabaseStatusCommand())
	cmd.AddCommand(newDatabaseRollbackCommand())

	return cmd
}

func newDatabaseStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show applied schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunApp(cmd, false, func(ctx context.Context, a *app.App) error {
				statuses, err := a.Store().MigrationStatus(ctx)
				if err != nil {
					return err
				}

				for _, status := range statuses {
					if status.Applied {
						a.Console().Success("%03d %s", status.Version, status.Description)
					} else {
						a.Console().Notice("%03d %s (pending)", status.Version, status.Description)
					}
				}
				return nil
			})
		},
	}
}

func newDatabaseRollbackCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rollback",
		Short: "Revert the most recent schema migration",
		Long: `Revert the most recent schema migration.

The next command that opens the database applies it again, so this is
mostly useful right before replacing the binary with an older release.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunApp(cmd, false, func(ctx context.Context, a *app.App) error {
				reverted, err := a.Store().Rollback(ctx)
				if errors.Is(err, migrations.ErrNothingToRollback) {
					a.Console().Notice("Nothing to roll back")
					return nil
				}
				if err != nil {
					return fmt.Errorf("failed to roll back: %w", err)
				}

				a.Console().Warning("Rolled back %03d %s", reverted.Version, reverted.Description)
				return nil
			})
		},
	}
}
