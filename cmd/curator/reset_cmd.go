package main

import (
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/raphi011/curator/internal/config"
	"github.com/raphi011/curator/internal/journal"
	"github.com/raphi011/curator/internal/log"
	"github.com/raphi011/curator/internal/output"
	"github.com/raphi011/curator/internal/reset"
	"github.com/raphi011/curator/internal/ui/prompt"
)

func newResetCmd() *cobra.Command {
	var (
		forcePush  bool
		yes        bool
		branch     string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:     "reset [path]",
		Short:   "Replace a repository's history with one commit",
		GroupID: GroupTools,
		Args:    cobra.MaximumNArgs(1),
		Long: `Delete the .git directory and start over with a single commit of the
current work tree.

The origin remote is restored afterwards. With --force-push the new
history replaces the remote's. This cannot be undone, so it asks for
confirmation unless --yes is given.`,
		Example: `  curator reset                  # Reset the current repository
  curator reset ../scratch -y    # Reset another one without asking
  curator reset --force-push     # Also overwrite origin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			path := config.WorkDirFromContext(ctx)
			if len(args) == 1 {
				path = args[0]
				if !filepath.IsAbs(path) {
					path = filepath.Join(config.WorkDirFromContext(ctx), path)
				}
			}

			opts := reset.Options{
				Path:      path,
				ForcePush: forcePush,
				Branch:    branch,
				Out:       out.Writer(),
			}
			if jsonOutput {
				opts.Out = l.Writer()
			}
			switch {
			case yes:
			case isInteractive():
				opts.Confirm = prompt.Confirm
			default:
				return errors.New("refusing to reset without confirmation: pass --yes")
			}

			res, err := reset.Reset(ctx, opts)
			if errors.Is(err, reset.ErrCancelled) || errors.Is(err, prompt.ErrCancelled) {
				l.Println("Reset cancelled")
				return nil
			}
			if err != nil {
				return err
			}

			recordJournal(ctx, journal.Entry{
				Action:  journal.ActionReset,
				Root:    res.Root,
				Branch:  opts.Branch,
				Message: "Reset history",
			})

			if jsonOutput {
				return out.JSON(res)
			}
			out.Println()
			out.Print(res.Status)
			return nil
		},
	}

	cmd.Flags().BoolVar(&forcePush, "force-push", false, "Force push the new history to origin")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	cmd.Flags().StringVarP(&branch, "branch", "b", reset.DefaultBranch, "Branch of the new history")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
