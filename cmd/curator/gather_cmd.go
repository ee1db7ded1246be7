package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/raphi011/curator/internal/gather"
	"github.com/raphi011/curator/internal/git"
	"github.com/raphi011/curator/internal/journal"
	"github.com/raphi011/curator/internal/log"
	"github.com/raphi011/curator/internal/output"
	"github.com/raphi011/curator/internal/ui/progress"
)

func newGatherCmd() *cobra.Command {
	var (
		outputDir  string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:     "gather",
		Short:   "Collect tree, sources and docs into one directory",
		GroupID: GroupTools,
		Args:    cobra.NoArgs,
		Long: `Collect the project into a handful of plain files (.clerk by default):

  tree.txt       tree of the files git tracks or would track
  src.md         every source file under a heading, __init__.py first
  docs/index.html  single-page Sphinx build of the docs source
  docs/docs.md   the built docs converted to markdown

The docs steps are skipped with a warning when the docs source or the
sphinx command is missing.`,
		Example: `  curator gather              # Write .clerk/
  curator gather -o /tmp/ctx  # Write somewhere else`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			svc, err := openService(ctx)
			if err != nil {
				return err
			}
			repo, err := git.Open(svc.Root())
			if err != nil {
				return err
			}

			gc := svc.Config().Gather
			opts := gather.Options{
				OutputDir:     gc.OutputDir,
				SourceDir:     svc.Config().Project.SourceDir,
				DocsSource:    gc.DocsSource,
				SphinxCommand: gc.SphinxCommand,
				Extensions:    gc.Extensions,
			}
			if outputDir != "" {
				if opts.OutputDir, err = filepath.Abs(outputDir); err != nil {
					return err
				}
			}

			sp := progress.NewSpinner("Gathering " + filepath.Base(svc.Root()))
			sp.Start()
			res, err := gather.Run(ctx, repo, opts)
			sp.Stop()
			if err != nil {
				return err
			}

			recordJournal(ctx, journal.Entry{
				Action:  journal.ActionGather,
				Root:    svc.Root(),
				Message: "Gathered into " + res.OutputDir,
			})

			for _, w := range res.Warnings {
				l.Printf("Warning: %s\n", w)
			}
			if jsonOutput {
				return out.JSON(res)
			}
			for _, f := range res.Files {
				out.Println(f)
			}
			l.Printf("Gathered %s into %s\n", formatCount(res.Sources, "source file", "source files"), res.OutputDir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default from gather.output_dir)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.MarkFlagDirname("output")

	return cmd
}
