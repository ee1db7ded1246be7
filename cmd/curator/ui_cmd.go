package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/raphi011/curator/internal/config"
	"github.com/raphi011/curator/internal/hooks"
	"github.com/raphi011/curator/internal/log"
	"github.com/raphi011/curator/internal/release"
	"github.com/raphi011/curator/internal/ui/dashboard"
)

func newUICmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ui",
		Short:   "Open the interactive dashboard",
		Aliases: []string{"dash"},
		GroupID: GroupRelease,
		Args:    cobra.NoArgs,
		Long: `Open the interactive dashboard.

It shows the branches, tags and version of the repository and runs the
release actions from forms:

  c  create a release branch
  m  merge a release branch into main
  t  tag the release (on main)
  y  copy the version to the clipboard
  r  refresh
  q  quit

While it runs, log records and hook output go to the log file
(~/.curator/curator.log by default) instead of the screen.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isInteractive() {
				return errors.New("the dashboard needs a terminal (try curator status)")
			}
			return runDashboard(cmd.Context())
		},
	}
}

// runDashboard opens the dashboard with logging and hook output redirected
// to the log file.
func runDashboard(ctx context.Context) error {
	cfg := config.FromContext(ctx)
	verbose := log.FromContext(ctx).Verbose()

	logger := log.Nop()
	if cfg.LogFile != "" {
		fl, err := log.NewFile(cfg.LogFile, verbose)
		if err != nil {
			return err
		}
		logger = fl
	}
	defer logger.Close()
	ctx = log.WithLogger(ctx, logger)

	w := logger.Writer()
	svc, err := release.Open(ctx, config.WorkDirFromContext(ctx), hooks.Runner{Out: w, Err: w})
	if err != nil {
		return err
	}
	logger.Info("dashboard opened", "root", svc.Root())
	return dashboard.Run(ctx, svc, config.WorkDirFromContext(ctx))
}
