package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/curator/internal/release"
	"github.com/raphi011/curator/internal/ui/dashboard"
	"github.com/raphi011/curator/internal/ui/form"
	"github.com/raphi011/curator/internal/ui/prompt"
	"github.com/raphi011/curator/internal/version"
)

func newReleaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "release",
		Short:   "Create, merge and tag release branches",
		Aliases: []string{"rel"},
		GroupID: GroupRelease,
		Long: `Manage release branches.

A release starts on a branch created from HEAD whose first commit bumps the
version marker and adds a changelog section. The branch is later merged into
main, and main is tagged. Configured hooks run after each step.`,
		Example: `  curator release create 1.5.0     # Branch release-1.5.0 off HEAD
  curator release merge            # Merge the active release branch into main
  curator release tag              # Tag main with v<version>
  curator release create -i        # Fill in a form instead of arguments`,
	}

	cmd.AddCommand(newReleaseCreateCmd())
	cmd.AddCommand(newReleaseMergeCmd())
	cmd.AddCommand(newReleaseTagCmd())

	return cmd
}

// openForm runs the blueprint form id against the current snapshot
func openForm(svc *release.Service, id string) (map[string]string, error) {
	snap, err := svc.Snapshot()
	if err != nil {
		return nil, err
	}
	f, err := form.Open(id, dashboard.FormEnv(snap, svc.Config()))
	if err != nil {
		return nil, err
	}
	return form.Run(f)
}

func newReleaseCreateCmd() *cobra.Command {
	var (
		branch      string
		interactive bool
		jsonOutput  bool
		hf          hookFlags
	)

	cmd := &cobra.Command{
		Use:     "create [version]",
		Short:   "Create a release branch",
		Aliases: []string{"new"},
		Args:    cobra.MaximumNArgs(1),
		Long: `Create a release branch off HEAD.

The branch is named from release.branch_format unless --branch is given.
Its first commit sets the version marker and appends a changelog section.
Without a version argument on a terminal, the version is prompted for.

Fails if the branch exists, the changelog is missing or already has a
section for the version. A version not greater than the current one only
warns.`,
		Example: `  curator release create 1.5.0               # Create release-1.5.0
  curator release create 1.5.0 -b rel/1.5    # Custom branch name
  curator release create 1.5.0 --no-hook     # Skip hooks
  curator release create -i                  # Fill in a form`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			hookOpts, err := hf.options()
			if err != nil {
				return err
			}
			svc, err := openReleaseService(ctx, jsonOutput)
			if err != nil {
				return err
			}

			opts := release.CreateOptions{Branch: branch, Hooks: hookOpts}
			switch {
			case interactive:
				values, err := openForm(svc, form.CreateReleaseBranch)
				if err != nil {
					return err
				}
				opts.Version, opts.Branch = values["version"], values["branch"]
			case len(args) == 1:
				opts.Version = args[0]
			default:
				if opts.Version, err = promptVersion(svc); err != nil {
					return err
				}
			}

			res, err := svc.CreateReleaseBranch(ctx, opts)
			if err != nil {
				return err
			}
			return printResult(ctx, res, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&branch, "branch", "b", "", "Branch name (default from release.branch_format)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Fill in a form")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output result as JSON")
	cmd.MarkFlagsMutuallyExclusive("interactive", "branch")
	hf.register(cmd)
	cmd.RegisterFlagCompletionFunc("branch", cobra.NoFileCompletions)

	return cmd
}

// promptVersion asks for the release version, suggesting the next one
func promptVersion(svc *release.Service) (string, error) {
	if !isInteractive() {
		return "", errors.New("version required (e.g. curator release create 1.5.0)")
	}
	placeholder := "1.0.0"
	if current, err := svc.CurrentVersion(); err == nil {
		if next := version.Next(current); next != "" {
			placeholder = next
		}
	}
	v, err := prompt.TextInput("Release version:", placeholder, version.Validate)
	if err != nil {
		return "", err
	}
	if v == "" {
		return placeholder, nil
	}
	return v, nil
}

func newReleaseMergeCmd() *cobra.Command {
	var (
		message     string
		ff          bool
		noFF        bool
		interactive bool
		jsonOutput  bool
		hf          hookFlags
	)

	cmd := &cobra.Command{
		Use:               "merge [branch]",
		Short:             "Merge a release branch into main",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeReleaseBranches,
		Long: `Check out main and merge a release branch into it.

Without a branch argument the active branch is merged. On main itself the
branch is picked from a list when running on a terminal.
merge.no_ff decides whether a merge commit is forced; --ff and --no-ff
override it.`,
		Example: `  curator release merge                  # Merge the active branch
  curator release merge release-1.5.0    # Merge a named branch
  curator release merge --no-ff          # Always create a merge commit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			hookOpts, err := hf.options()
			if err != nil {
				return err
			}
			svc, err := openReleaseService(ctx, jsonOutput)
			if err != nil {
				return err
			}

			opts := release.MergeOptions{Message: message, Hooks: hookOpts}
			switch {
			case cmd.Flags().Changed("no-ff"):
				opts.NoFF = &noFF
			case cmd.Flags().Changed("ff"):
				v := !ff
				opts.NoFF = &v
			}

			switch {
			case interactive:
				values, err := openForm(svc, form.MergeReleaseBranch)
				if err != nil {
					return err
				}
				opts.Branch, opts.Message = values["branch"], values["message"]
			case len(args) == 1:
				opts.Branch = args[0]
			}

			res, err := svc.MergeToMain(ctx, opts)
			if errors.Is(err, release.ErrBranchRequired) && isInteractive() {
				if opts.Branch, err = pickReleaseBranch(svc); err != nil {
					return err
				}
				res, err = svc.MergeToMain(ctx, opts)
			}
			if err != nil {
				return err
			}
			return printResult(ctx, res, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Merge commit message (default from merge.message)")
	cmd.Flags().BoolVar(&ff, "ff", false, "Allow a fast-forward merge")
	cmd.Flags().BoolVar(&noFF, "no-ff", false, "Always create a merge commit")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Fill in a form")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output result as JSON")
	cmd.MarkFlagsMutuallyExclusive("ff", "no-ff")
	cmd.MarkFlagsMutuallyExclusive("interactive", "message")
	hf.register(cmd)
	cmd.RegisterFlagCompletionFunc("message", cobra.NoFileCompletions)

	return cmd
}

// pickReleaseBranch lets the user choose among the non-main branches
func pickReleaseBranch(svc *release.Service) (string, error) {
	snap, err := svc.Snapshot()
	if err != nil {
		return "", err
	}
	branches := snap.ReleaseBranches()
	if len(branches) == 0 {
		return "", fmt.Errorf("no release branches to merge into %s", snap.Main)
	}
	return prompt.Select(fmt.Sprintf("Merge into %s", snap.Main), branches)
}

func newReleaseTagCmd() *cobra.Command {
	var (
		message     string
		interactive bool
		jsonOutput  bool
		hf          hookFlags
	)

	cmd := &cobra.Command{
		Use:   "tag [name]",
		Short: "Tag a release on main",
		Args:  cobra.MaximumNArgs(1),
		Long: `Create an annotated tag on main.

The tag name defaults to release.tag_format applied to the current version
(v<version>), the message to "Release <name>". Fails unless main is checked
out or when the tag exists.`,
		Example: `  curator release tag                 # Tag v<version>
  curator release tag v1.5.0 -m "Big release"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			hookOpts, err := hf.options()
			if err != nil {
				return err
			}
			svc, err := openReleaseService(ctx, jsonOutput)
			if err != nil {
				return err
			}

			opts := release.TagOptions{Message: message, Hooks: hookOpts}
			switch {
			case interactive:
				values, err := openForm(svc, form.CreateTag)
				if err != nil {
					return err
				}
				opts.Name, opts.Message = values["name"], values["message"]
			case len(args) == 1:
				opts.Name = args[0]
			}

			res, err := svc.TagRelease(ctx, opts)
			if err != nil {
				return err
			}
			return printResult(ctx, res, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Tag message (default \"Release <name>\")")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Fill in a form")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output result as JSON")
	cmd.MarkFlagsMutuallyExclusive("interactive", "message")
	hf.register(cmd)
	cmd.RegisterFlagCompletionFunc("message", cobra.NoFileCompletions)

	return cmd
}
