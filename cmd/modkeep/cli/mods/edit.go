package mods

import (
	"context"
	"errors"
	"fmt"

	"github.com/mwantia/modkeep/cmd/modkeep/cli"
	"github.com/mwantia/modkeep/internal/app"
	"github.com/mwantia/modkeep/pkg/inventory"
	"github.com/mwantia/modkeep/pkg/prompt"
	"github.com/spf13/cobra"
)

var validURL = prompt.All(prompt.Required("source URL"), prompt.ValidURL)

func NewEditCommand() *cobra.Command {
	var (
		interactive bool
		modID       uint
	)

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit mod information and tags",
		Long: `Edit mods either through the interactive menu (--interactive) or by
passing the mod id and the fields to change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactive {
				return cli.RunApp(cmd, false, func(ctx context.Context, a *app.App) error {
					return a.Editor().Run(ctx)
				})
			}

			update, err := updateFromFlags(cmd)
			if err != nil {
				return err
			}

			return cli.RunApp(cmd, false, func(ctx context.Context, a *app.App) error {
				if err := a.Catalog().UpdateMod(ctx, modID, update); err != nil {
					return err
				}
				a.Console().Success("Updated mod %d", modID)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "edit through the interactive menu")
	cmd.Flags().UintVarP(&modID, "id", "m", 0, "id of the mod to edit")
	cmd.Flags().StringP("name", "n", "", "new name")
	cmd.Flags().StringP("source-url", "s", "", "new source URL")
	cmd.Flags().StringP("mod-version", "v", "", "new version")
	cmd.Flags().StringSliceP("tags", "t", nil, "replace all tags (empty to clear)")

	cmd.MarkFlagsMutuallyExclusive("interactive", "id")
	cmd.MarkFlagsOneRequired("interactive", "id")

	return cmd
}

func updateFromFlags(cmd *cobra.Command) (inventory.ModUpdate, error) {
	var update inventory.ModUpdate
	flags := cmd.Flags()

	if flags.Changed("name") {
		name, _ := flags.GetString("name")
		update.Name = &name
	}
	if flags.Changed("source-url") {
		source, _ := flags.GetString("source-url")
		update.SourceURL = &source
	}
	if flags.Changed("mod-version") {
		version, _ := flags.GetString("mod-version")
		update.Version = &version
	}
	if flags.Changed("tags") {
		update.Tags, _ = flags.GetStringSlice("tags")
		update.SetTags = true
	}

	if update.Empty() {
		return update, errors.New("at least one field to edit must be provided")
	}
	if update.SourceURL != nil {
		if err := validURL(*update.SourceURL); err != nil {
			return update, fmt.Errorf("invalid --source-url: %w", err)
		}
	}
	return update, nil
}
