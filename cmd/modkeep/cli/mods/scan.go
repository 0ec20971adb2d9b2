package mods

import (
	"context"

	"github.com/mwantia/modkeep/cmd/modkeep/cli"
	"github.com/mwantia/modkeep/internal/app"
	"github.com/mwantia/modkeep/pkg/inventory"
	"github.com/spf13/cobra"
)

func NewScanCommand() *cobra.Command {
	var opts inventory.Options

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan the mod directory for new, missing or changed mods",
		Long: `Compare the mod directory with the inventory.

Without flags, new and missing mod directories are reported. --verify also
checks the fingerprints of every recorded mod. --fix asks how to handle
each difference, while --sync-hashes records the files on disk as they are
without asking, which also accepts files that were tampered with.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunApp(cmd, true, func(ctx context.Context, a *app.App) error {
				r, err := a.Reconciler()
				if err != nil {
					return err
				}

				summary, err := r.Reconcile(ctx, opts)
				a.Console().Summary(summary)
				return err
			})
		},
	}

	cmd.Flags().BoolVarP(&opts.Verify, "verify", "v", false, "verify file fingerprints of recorded mods")
	cmd.Flags().BoolVarP(&opts.Fix, "fix", "f", false, "interactively update the inventory")
	cmd.Flags().BoolVarP(&opts.SyncHashes, "sync-hashes", "s", false, "record on-disk fingerprints without asking (dangerous)")
	cmd.MarkFlagsMutuallyExclusive("fix", "sync-hashes")

	return cmd
}
