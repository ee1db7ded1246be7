package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/raphi011/curator/internal/config"
	"github.com/raphi011/curator/internal/git"
	"github.com/raphi011/curator/internal/journal"
	"github.com/raphi011/curator/internal/output"
	"github.com/raphi011/curator/internal/ui/static"
)

func newJournalCmd() *cobra.Command {
	var (
		limit      int
		all        bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:     "journal",
		Short:   "Show performed actions",
		Aliases: []string{"log"},
		GroupID: GroupProject,
		Args:    cobra.NoArgs,
		Long: `Show the actions curator performed, newest first.

By default only actions on the current repository are listed; --all lists
every repository.`,
		Example: `  curator journal          # Last 20 actions in this repository
  curator journal -n 0     # Every action in this repository
  curator journal --all    # Actions in all repositories`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			out := output.FromContext(ctx)

			j, err := journal.Load(cfg.JournalPath)
			if err != nil {
				return err
			}

			root := ""
			if !all {
				repo, err := git.Open(config.WorkDirFromContext(ctx))
				if err != nil {
					return err
				}
				root = repo.Root()
			}

			entries := j.List(root, limit)
			if jsonOutput {
				if entries == nil {
					entries = []journal.Entry{}
				}
				return out.JSON(entries)
			}
			if len(entries) == 0 {
				out.Println("No actions recorded")
				return nil
			}

			headers := []string{"TIME", "ACTION", "BRANCH", "VERSION", "TAG"}
			if all {
				headers = append(headers, "REPO")
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				row := []string{e.Time.Local().Format("2006-01-02 15:04"), e.Action, e.Branch, e.Version, e.Tag}
				if all {
					row = append(row, filepath.Base(e.Root))
				}
				rows = append(rows, row)
			}
			out.Print(static.RenderTable(headers, rows))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "number", "n", 20, "Number of actions to show (0 for all)")
	cmd.Flags().BoolVar(&all, "all", false, "Show actions of all repositories")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
