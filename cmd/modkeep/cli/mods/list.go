package mods

import (
	"context"

	"github.com/mwantia/modkeep/cmd/modkeep/cli"
	"github.com/mwantia/modkeep/internal/app"
	"github.com/mwantia/modkeep/pkg/inventory"
	"github.com/mwantia/modkeep/pkg/ui"
	"github.com/spf13/cobra"
)

func NewListCommand() *cobra.Command {
	var (
		tags    []string
		verify  bool
		details bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded mods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunApp(cmd, verify, func(ctx context.Context, a *app.App) error {
				catalog := a.Catalog()

				mods, err := catalog.Mods(ctx, tags...)
				if err != nil {
					return err
				}

				var verifier *inventory.Verifier
				if verify {
					scanner, err := a.Scanner()
					if err != nil {
						return err
					}
					verifier = inventory.NewVerifier(scanner)
				}

				entries := make([]ui.ModEntry, 0, len(mods))
				for _, mod := range mods {
					entry := ui.ModEntry{Mod: mod}

					if details {
						if entry.Tags, err = catalog.ModTags(ctx, mod.ID); err != nil {
							return err
						}
					}

					if details || verify {
						hashes, err := catalog.ModHashes(ctx, mod.ID)
						if err != nil {
							return err
						}
						if details {
							entry.Hashes = hashes
						}
						if verify {
							report, _, err := verifier.Verify(mod.Directory, hashes)
							if err != nil {
								a.Console().Failure("Could not verify '%s': %v", mod.Name, err)
							} else {
								entry.Report = &report
							}
						}
					}

					entries = append(entries, entry)
				}

				a.Console().Mods(entries)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&tags, "tags", "t", nil, "only show mods with any of these tags")
	cmd.Flags().BoolVarP(&verify, "verify", "v", false, "verify files and show the results")
	cmd.Flags().BoolVarP(&details, "details", "d", false, "show tags and file fingerprints")

	return cmd
}
