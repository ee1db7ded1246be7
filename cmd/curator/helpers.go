package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/raphi011/curator/internal/config"
	"github.com/raphi011/curator/internal/hooks"
	"github.com/raphi011/curator/internal/journal"
	"github.com/raphi011/curator/internal/log"
	"github.com/raphi011/curator/internal/output"
	"github.com/raphi011/curator/internal/release"
	"github.com/raphi011/curator/internal/ui/styles"
)

// isInteractive reports whether stdin and stdout are both terminals.
func isInteractive() bool {
	return isTerminal(os.Stdin) && isTerminal(os.Stdout)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// openService opens the release service for the working directory, with
// hook output going to stdout.
func openService(ctx context.Context) (*release.Service, error) {
	return openReleaseService(ctx, false)
}

// openReleaseService is openService for commands with a --json flag: while
// JSON is requested hook output goes to the log writer so stdout carries
// only the document.
func openReleaseService(ctx context.Context, jsonOutput bool) (*release.Service, error) {
	w := output.FromContext(ctx).Writer()
	if jsonOutput {
		w = log.FromContext(ctx).Writer()
	}
	return release.Open(ctx, config.WorkDirFromContext(ctx), hooks.Runner{Out: w})
}

// hookFlags are the hook selection flags shared by the release commands
type hookFlags struct {
	name   string
	skip   bool
	env    []string
	dryRun bool
}

func (f *hookFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "hook", "", "Run only this hook instead of the configured ones")
	cmd.Flags().BoolVar(&f.skip, "no-hook", false, "Skip hooks")
	cmd.Flags().StringSliceVarP(&f.env, "arg", "a", nil, "Set hook variable KEY=VALUE (KEY=- reads stdin)")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run-hooks", false, "Print hook commands without executing")
	cmd.MarkFlagsMutuallyExclusive("hook", "no-hook")
	cmd.RegisterFlagCompletionFunc("hook", completeHookNames)
	cmd.RegisterFlagCompletionFunc("arg", cobra.NoFileCompletions)
}

func (f *hookFlags) options() (release.HookOptions, error) {
	env, err := hooks.ParseEnvWithStdin(f.env)
	if err != nil {
		return release.HookOptions{}, err
	}
	return release.HookOptions{Name: f.name, Skip: f.skip, Env: env, DryRun: f.dryRun}, nil
}

// printResult prints res as JSON or as a short human summary.
func printResult(ctx context.Context, res release.Result, jsonOutput bool) error {
	out := output.FromContext(ctx)
	l := log.FromContext(ctx)

	for _, w := range res.Warnings {
		l.Printf("Warning: %s\n", w)
	}
	if jsonOutput {
		return out.JSON(res)
	}

	sym := styles.CurrentSymbols()
	out.Println(styles.SuccessStyle.Render(sym.Success) + " " + res.Message)
	if res.HooksFailed > 0 {
		l.Printf("%d hook(s) failed\n", res.HooksFailed)
	}
	return nil
}

// recordJournal appends an action performed outside the release service.
// Failures only warn.
func recordJournal(ctx context.Context, e journal.Entry) {
	path := config.FromContext(ctx).JournalPath
	if path == "" {
		return
	}
	if err := journal.Record(path, e); err != nil {
		log.FromContext(ctx).Warn("failed to record journal entry", "path", path, "error", err)
	}
}

// completeHookNames completes the hook names of the effective config
func completeHookNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	ctx := cmd.Context()
	hooksMap := config.FromContext(ctx).Hooks.Hooks
	if svc, err := openService(ctx); err == nil {
		hooksMap = svc.Config().Hooks.Hooks
	}

	var names []string
	for name, hook := range hooksMap {
		if strings.HasPrefix(name, toComplete) {
			names = append(names, name+"\t"+hook.Description)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// completeReleaseBranches completes the non-main branches
func completeReleaseBranches(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	svc, err := openService(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	snap, err := svc.Snapshot()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var names []string
	for _, b := range snap.ReleaseBranches() {
		if strings.HasPrefix(b, toComplete) {
			names = append(names, b)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// formatCount renders "1 file" / "3 files"
func formatCount(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
