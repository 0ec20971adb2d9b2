package mods

import (
	"context"
	"fmt"

	"github.com/mwantia/modkeep/cmd/modkeep/cli"
	"github.com/mwantia/modkeep/internal/app"
	"github.com/spf13/cobra"
)

func NewTagsCommand() *cobra.Command {
	var (
		remove string
		names  []string
		plain  bool
	)

	cmd := &cobra.Command{
		Use:   "tags",
		Short: "View and delete tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunApp(cmd, false, func(ctx context.Context, a *app.App) error {
				catalog := a.Catalog()

				if remove != "" {
					if err := catalog.DeleteTag(ctx, remove); err != nil {
						return err
					}
					a.Console().Success("Deleted tag '%s'", remove)
					return nil
				}

				if plain {
					tags, err := catalog.Tags(ctx)
					if err != nil {
						return err
					}
					a.Console().TagNames(tags)
					return nil
				}

				tags, err := catalog.TagsWithMods(ctx, names...)
				if err != nil {
					return err
				}
				a.Console().Tags(tags)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&remove, "delete", "d", "", "delete a tag from every mod; mods are kept")
	cmd.Flags().StringSliceVarP(&names, "tags", "t", nil, "only show these tags")
	cmd.Flags().BoolVar(&plain, "names", false, "only print tag names")
	cmd.MarkFlagsMutuallyExclusive("delete", "tags", "names")

	cmd.AddCommand(newTagMembersCommand())

	return cmd
}

func newTagMembersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "members <tag>",
		Short: "Pick the mods that carry a tag",
		Long: `Select exactly the mods that should carry a tag. Current members are
pre-selected; only the difference is written. The tag is created when it
does not exist yet and removed when no mod is left.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunApp(cmd, false, func(ctx context.Context, a *app.App) error {
				_, err := a.Editor().EditTagMembers(ctx, args[0])
				if err != nil {
					return fmt.Errorf("failed to edit members of '%s': %w", args[0], err)
				}
				return nil
			})
		},
	}
}
