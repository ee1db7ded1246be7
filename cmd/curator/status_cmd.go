package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/curator/internal/config"
	"github.com/raphi011/curator/internal/output"
	"github.com/raphi011/curator/internal/release"
	"github.com/raphi011/curator/internal/ui/static"
	"github.com/raphi011/curator/internal/ui/styles"
)

func newStatusCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "status",
		Short:   "Show branches, tags and version",
		Aliases: []string{"st"},
		GroupID: GroupProject,
		Args:    cobra.NoArgs,
		Long: `Show the repository state: description, branches (the active one
marked), tags and the version of the discovered module.

Layout or marker problems are reported in the VERSION row instead of
failing, so a partially set up project can still be inspected.`,
		Example: `  curator status          # Show repository state
  curator status --json   # Output as JSON`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context(), jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runStatus(ctx context.Context, jsonOutput bool) error {
	svc, err := openService(ctx)
	if err != nil {
		return err
	}
	snap, err := svc.Snapshot()
	if err != nil {
		return err
	}

	out := output.FromContext(ctx)
	if jsonOutput {
		return out.JSON(snap)
	}
	out.Print(renderSnapshot(snap, config.WorkDirFromContext(ctx)))
	return nil
}

// renderSnapshot lays out snap the way the dashboard header does
func renderSnapshot(snap release.Snapshot, cwd string) string {
	sym := styles.CurrentSymbols()

	branches := make([]string, 0, len(snap.Branches))
	for _, b := range snap.Branches {
		name := b.Name
		if name == snap.Active {
			name = styles.AccentStyle.Render(name)
		}
		branches = append(branches, styles.BranchMarker(b.Name == snap.Active)+" "+name)
	}

	tags := make([]string, 0, len(snap.Tags))
	for _, t := range snap.Tags {
		tags = append(tags, sym.Tag+" "+t)
	}

	active := snap.Active
	if active == "" {
		active = "(detached)"
	}

	head := "(no commits)"
	if snap.Head.Hash != "" {
		head = styles.MutedStyle.Render(snap.Head.Hash) + " " + snap.Head.Subject
	}

	ver := snap.Version
	if snap.VersionError != "" {
		ver = styles.WarningStyle.Render(snap.VersionError)
	}

	return static.RenderFields([]static.Field{
		{Label: "CWD", Value: cwd},
		{Label: "DESC", Value: snap.Description},
		{Label: "BRANCHES", Value: strings.Join(branches, "\n")},
		{Label: "ACTIVE", Value: active},
		{Label: "HEAD", Value: head},
		{Label: "TAGS", Value: strings.Join(tags, "\n")},
		{Label: "VERSION", Value: ver},
	})
}

func newDiscoverCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "discover",
		Short:   "Show the discovered project layout",
		GroupID: GroupProject,
		Args:    cobra.NoArgs,
		Long: `Find the module under the source directory.

The first child of src/ holding the marker file is the module. Otherwise
the first child is a namespace and the module is its first child.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			svc, err := openService(ctx)
			if err != nil {
				return err
			}
			l, err := svc.Discover()
			if err != nil {
				return err
			}
			if jsonOutput {
				return out.JSON(l)
			}

			ns := l.Namespace
			if ns == "" {
				ns = "-"
			}
			out.Print(static.RenderFields([]static.Field{
				{Label: "ROOT", Value: l.Root},
				{Label: "SOURCE", Value: l.SourceDir},
				{Label: "NAMESPACE", Value: ns},
				{Label: "MODULE", Value: l.Module},
				{Label: "IMPORT", Value: l.ImportPath()},
				{Label: "MARKER", Value: l.MarkerPath(svc.Config().Project.MarkerFile)},
			}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
