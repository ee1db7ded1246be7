package main

import (
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/raphi011/curator/internal/config"
	"github.com/raphi011/curator/internal/github"
	"github.com/raphi011/curator/internal/log"
	"github.com/raphi011/curator/internal/output"
	"github.com/raphi011/curator/internal/reference"
	"github.com/raphi011/curator/internal/ui/progress"
	"github.com/raphi011/curator/internal/ui/prompt"
)

func newRefCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ref",
		Short:   "Write reference pages for external projects",
		GroupID: GroupTools,
		Long: `Write reStructuredText reference pages into a documentation tree.

Pages live in a directory per reference holding index.rst, a notes.rst
for hand-written notes and any fetched documents.`,
	}

	cmd.AddCommand(newRefRepoCmd())

	return cmd
}

func newRefRepoCmd() *cobra.Command {
	var (
		outputDir string
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "repo [owner/name]",
		Short: "Write a reference page for a GitHub repository",
		Args:  cobra.MaximumNArgs(1),
		Long: `Fetch a GitHub repository's metadata, latest release and README with
the gh CLI and write <owner-name>/index.rst, notes.rst and the README.

An existing notes.rst is kept unless --overwrite is given. A missing
release or README only warns. Requires an authenticated gh.`,
		Example: `  curator ref repo cli/cli                  # Write ./cli-cli/
  curator ref repo cli/cli -o docsrc/refs   # Write into docsrc/refs/cli-cli/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			var spec string
			switch {
			case len(args) == 1:
				spec = args[0]
			case isInteractive():
				var err error
				if spec, err = prompt.TextInput("GitHub repository:", "owner/name", github.ValidateSpec); err != nil {
					return err
				}
			default:
				return errors.New("repository required (e.g. curator ref repo owner/name)")
			}
			if err := github.ValidateSpec(spec); err != nil {
				return err
			}

			if err := github.CheckGH(ctx); err != nil {
				return err
			}

			dir := outputDir
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(config.WorkDirFromContext(ctx), dir)
			}

			sp := progress.NewSpinner("Fetching " + spec)
			sp.Start()
			res, err := reference.Save(ctx, github.NewCLI(), spec, reference.Options{OutputDir: dir, Overwrite: overwrite})
			sp.Stop()
			if err != nil {
				return err
			}

			for _, w := range res.Warnings {
				l.Printf("Warning: %s\n", w)
			}
			for _, f := range res.Files {
				out.Println(f)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Directory to create the reference directory in")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing notes.rst")
	cmd.MarkFlagDirname("output")

	return cmd
}
