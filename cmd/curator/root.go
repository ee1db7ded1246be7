package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/raphi011/curator/internal/config"
	"github.com/raphi011/curator/internal/git"
	"github.com/raphi011/curator/internal/log"
	"github.com/raphi011/curator/internal/output"
	"github.com/raphi011/curator/internal/ui/styles"
)

// Command group IDs for organizing help output
const (
	GroupRelease = "release"
	GroupProject = "project"
	GroupTools   = "tools"
	GroupConfig  = "config"
)

// globalFlags are the persistent flags shared by every command
type globalFlags struct {
	verbose bool
	quiet   bool
	dir     string
}

// newRootCmd builds the command tree. Each call returns a fresh tree so
// tests can execute commands without shared flag state.
func newRootCmd() *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "curator",
		Short: "Release branch manager for python-style projects",
		Long: `curator manages release branches of a project kept in git.

It finds the package under src/, bumps its version marker, appends a
changelog section, and creates, merges and tags release branches.
Without a subcommand on a terminal it opens an interactive dashboard.`,
		SilenceUsage:               true,
		SilenceErrors:              true,
		SuggestionsMinimumDistance: 2, // Enable typo suggestions
		Args:                       cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd, flags)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if isInteractive() {
				return runDashboard(cmd.Context())
			}
			return runStatus(cmd.Context(), false)
		},
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Show external commands being executed")
	cmd.PersistentFlags().BoolVarP(&flags.quiet, "quiet", "q", false, "Suppress all log output")
	cmd.PersistentFlags().StringVarP(&flags.dir, "dir", "C", "", "Run as if started in this directory")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
	cmd.MarkPersistentFlagDirname("dir")

	// Version flag
	cmd.Version = versionString()
	cmd.SetVersionTemplate("{{.Version}}\n")

	// Add command groups for organized help output
	cmd.AddGroup(
		&cobra.Group{ID: GroupRelease, Title: "Release Commands:"},
		&cobra.Group{ID: GroupProject, Title: "Project Commands:"},
		&cobra.Group{ID: GroupTools, Title: "Tool Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	// Release commands
	cmd.AddCommand(newReleaseCmd())
	cmd.AddCommand(newUICmd())

	// Project commands
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newDiscoverCmd())
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newChangelogCmd())
	cmd.AddCommand(newJournalCmd())

	// Tool commands
	cmd.AddCommand(newGatherCmd())
	cmd.AddCommand(newResetCmd())
	cmd.AddCommand(newRefCmd())
	cmd.AddCommand(newHookCmd())

	// Config commands
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newCompletionCmd())

	return cmd
}

// setup replaces the logger with one honoring --verbose/--quiet, applies
// --dir and the theme, and checks that git is installed.
func setup(cmd *cobra.Command, flags globalFlags) error {
	ctx := cmd.Context()

	ctx = log.WithLogger(ctx, log.New(os.Stderr, flags.verbose, flags.quiet))

	if flags.dir != "" {
		dir, err := filepath.Abs(flags.dir)
		if err != nil {
			return err
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			return fmt.Errorf("--dir: %s is not a directory", flags.dir)
		}
		ctx = config.WithWorkDir(ctx, dir)
	}
	cmd.SetContext(ctx)

	styles.Init(config.FromContext(ctx).Theme)

	// Skip git check for commands that never touch a repository
	switch cmd.Name() {
	case "completion", "__complete", "help", "init", "show", "hooks":
		return nil
	}
	if cmd.Parent() != nil && cmd.Parent().Name() == "ref" {
		return nil
	}
	return git.CheckGit()
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	// Load config
	loadedCfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	// Get working directory
	workDir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "curator: failed to get working directory: %v\n", err)
		os.Exit(1)
	}

	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ctx = config.WithConfig(ctx, &loadedCfg)
	ctx = config.WithWorkDir(ctx, workDir)

	// Replaced in PersistentPreRunE once flags are parsed
	ctx = log.WithLogger(ctx, log.New(os.Stderr, false, false))

	// Add output printer (stdout for primary data)
	ctx = output.WithPrinter(ctx, os.Stdout)

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Run 'curator -h' for help")
		cancel()
		os.Exit(1)
	}
}
