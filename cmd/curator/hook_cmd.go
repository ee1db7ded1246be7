package main

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/curator/internal/hooks"
	"github.com/raphi011/curator/internal/log"
	"github.com/raphi011/curator/internal/output"
)

func newHookCmd() *cobra.Command {
	var (
		env    []string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:               "hook <name>...",
		Short:             "Run configured hooks",
		Aliases:           []string{"h"},
		GroupID:           GroupTools,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeHookArg,
		Long: `Run one or more configured hooks in the repository root.

Hooks are defined in config.toml or .curator.toml and can use the
placeholders {root}, {branch}, {version}, {tag}, {main} and {trigger}
(which is "run" here) plus custom {key} values set with --arg.`,
		Example: `  curator hook docs                 # Run the 'docs' hook
  curator hook docs publish         # Run several hooks in order
  curator hook notify -a msg=hello  # Set {msg}
  curator hook docs -d              # Print the command without executing`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			hookEnv, err := hooks.ParseEnvWithStdin(env)
			if err != nil {
				return err
			}

			svc, err := openService(ctx)
			if err != nil {
				return err
			}
			available := svc.Config().Hooks.Hooks

			// Validate all hooks exist before running any
			var missing []string
			for _, name := range args {
				if _, ok := available[name]; !ok {
					missing = append(missing, name)
				}
			}
			if len(missing) > 0 {
				if len(available) == 0 {
					return fmt.Errorf("unknown hook(s) %v (no hooks configured)", missing)
				}
				names := make([]string, 0, len(available))
				for name := range available {
					names = append(names, name)
				}
				sort.Strings(names)
				return fmt.Errorf("unknown hook(s) %v (available: %v)", missing, names)
			}

			snap, err := svc.Snapshot()
			if err != nil {
				return err
			}
			hc := hooks.Context{
				Root:    snap.Root,
				Branch:  snap.Active,
				Version: snap.Version,
				Main:    snap.Main,
				Trigger: hooks.TriggerRun,
				Env:     hookEnv,
				DryRun:  dryRun,
			}
			if snap.Version != "" {
				hc.Tag = svc.Config().TagName(snap.Version)
			}

			matches := make([]hooks.Match, 0, len(args))
			for _, name := range args {
				matches = append(matches, hooks.Match{Name: name, Hook: available[name]})
			}

			l.Debug("running hooks", "hooks", args, "dryRun", dryRun)
			return hooks.Runner{Out: output.FromContext(ctx).Writer()}.RunAll(ctx, matches, hc)
		},
	}

	cmd.Flags().StringSliceVarP(&env, "arg", "a", nil, "Set hook variable KEY=VALUE (KEY=- reads stdin)")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "Print command without executing")
	cmd.RegisterFlagCompletionFunc("arg", cobra.NoFileCompletions)

	return cmd
}

// completeHookArg completes hook names not already given
func completeHookArg(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	names, directive := completeHookNames(cmd, args, toComplete)
	var out []string
	for _, n := range names {
		name, _, _ := strings.Cut(n, "\t")
		if !slices.Contains(args, name) {
			out = append(out, n)
		}
	}
	return out, directive
}
