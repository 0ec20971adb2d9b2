package main

import (
	"fmt"
	"os"

	"github.com/mwantia/modkeep/cmd/modkeep/cli"
	"github.com/mwantia/modkeep/cmd/modkeep/cli/mods"
	"github.com/mwantia/modkeep/cmd/modkeep/cli/setup"
)

var (
	version = "0.0.1-dev"
	commit  = "main"
)

func main() {
	info := cli.VersionInfo{
		Version: version,
		Commit:  commit,
	}
	root := cli.NewRootCommand(info)

	root.AddCommand(cli.NewVersionCommand(info))

	root.AddCommand(setup.NewInitCommand())
	root.AddCommand(setup.NewDatabaseCommand())
	root.AddCommand(setup.NewConfigCommand())

	root.AddCommand(mods.NewListCommand())
	root.AddCommand(mods.NewScanCommand())
	root.AddCommand(mods.NewTagsCommand())
	root.AddCommand(mods.NewEditCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
