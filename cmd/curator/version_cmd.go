package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/curator/internal/log"
	"github.com/raphi011/curator/internal/output"
	"github.com/raphi011/curator/internal/version"
)

func newVersionCmd() *cobra.Command {
	var next bool

	cmd := &cobra.Command{
		Use:     "version",
		Short:   "Show or set the module version",
		GroupID: GroupProject,
		Args:    cobra.NoArgs,
		Long: `Show the version marker of the discovered module.

The marker is the line assigning the version variable (__version__ by
default) in the module's marker file.`,
		Example: `  curator version             # Print the current version
  curator version --next      # Print the version a new release would get
  curator version set 1.5.0   # Rewrite the marker without touching git`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			svc, err := openService(ctx)
			if err != nil {
				return err
			}
			v, err := svc.CurrentVersion()
			if err != nil {
				return err
			}
			if next {
				v = version.Next(v)
			}
			output.FromContext(ctx).Println(v)
			return nil
		},
	}

	cmd.Flags().BoolVar(&next, "next", false, "Print the next release version instead")

	cmd.AddCommand(newVersionSetCmd())

	return cmd
}

func newVersionSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <version>",
		Short: "Rewrite the version marker",
		Args:  cobra.ExactArgs(1),
		Long: `Rewrite the version marker of the discovered module.

The version is normalized (a leading "v" is dropped) and must be a SemVer
or PEP 440 version. The file is changed in place; nothing is committed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			svc, err := openService(ctx)
			if err != nil {
				return err
			}
			prev, err := svc.CurrentVersion()
			if err != nil {
				return err
			}
			v := version.Normalize(args[0])
			if err := version.Validate(v); err != nil {
				return err
			}
			if version.Compare(v, prev) < 0 {
				l.Printf("Warning: %s is lower than the current version %s\n", v, prev)
			}

			path, err := svc.SetVersion(v)
			if err != nil {
				return err
			}
			l.Debug("version marker written", "path", path, "previous", prev, "version", v)
			output.FromContext(ctx).Printf("%s -> %s (%s)\n", prev, v, path)
			return nil
		},
	}
}
