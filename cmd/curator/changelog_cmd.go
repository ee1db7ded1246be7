package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/curator/internal/changelog"
	"github.com/raphi011/curator/internal/output"
)

func newChangelogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "changelog",
		Short:   "Manage changelog sections",
		Aliases: []string{"cl"},
		GroupID: GroupProject,
		Long: `Manage the changelog (CHANGELOG.md by default).

Sections are appended from the [changelog] template of the config.`,
		Example: `  curator changelog add          # Add a section for the current version
  curator changelog add 1.5.0    # Add a section for 1.5.0
  curator changelog list         # List versions with a section`,
	}

	cmd.AddCommand(newChangelogAddCmd())
	cmd.AddCommand(newChangelogListCmd())

	return cmd
}

func newChangelogAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add [version]",
		Short: "Append a changelog section",
		Args:  cobra.MaximumNArgs(1),
		Long: `Append a section for a version to the changelog.

Without an argument the current version of the module is used. Fails if
the changelog is missing (unless changelog.create_missing is set) or
already has a section for the version. Nothing is committed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			svc, err := openService(ctx)
			if err != nil {
				return err
			}

			var v string
			if len(args) == 1 {
				v = args[0]
			} else if v, err = svc.CurrentVersion(); err != nil {
				return err
			}

			path, err := svc.AppendChangelog(v)
			if err != nil {
				return err
			}
			output.FromContext(ctx).Printf("Added %s to %s\n", v, path)
			return nil
		},
	}
}

func newChangelogListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List versions with a changelog section",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			svc, err := openService(ctx)
			if err != nil {
				return err
			}
			versions, err := changelog.Versions(svc.ChangelogPath())
			if err != nil {
				return err
			}
			if jsonOutput {
				if versions == nil {
					versions = []string{}
				}
				return out.JSON(versions)
			}
			for _, v := range versions {
				out.Println(v)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
