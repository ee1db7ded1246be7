package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/raphi011/curator/internal/config"
	"github.com/raphi011/curator/internal/git"
	"github.com/raphi011/curator/internal/log"
	"github.com/raphi011/curator/internal/output"
	"github.com/raphi011/curator/internal/ui/static"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage configuration",
		Aliases: []string{"cfg"},
		GroupID: GroupConfig,
		Long: `Manage curator configuration.

Global config: ~/.config/curator/config.toml (or $CURATOR_CONFIG)
Local config:  .curator.toml (in the repository root)`,
		Example: `  curator config init          # Create default global config
  curator config init --local  # Create local repo config
  curator config show          # Show effective config
  curator config hooks         # List available hooks`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigHooksCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force  bool
		stdout bool
		local  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default config file",
		Args:  cobra.NoArgs,
		Long: `Create default config file.

Without flags, creates the global config. With --local, creates
.curator.toml in the root of the current repository.`,
		Example: `  curator config init           # Create global config
  curator config init --local   # Create local repo config
  curator config init -f        # Overwrite existing config
  curator config init -s        # Print config to stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			if !local {
				if stdout {
					out.Print(config.DefaultConfig())
					return nil
				}
				path, err := config.Init(force)
				if err != nil {
					return err
				}
				out.Printf("Created config file: %s\n", path)
				return nil
			}

			content := config.DefaultLocalConfig()
			if stdout {
				out.Print(content)
				return nil
			}

			repo, err := git.Open(config.WorkDirFromContext(ctx))
			if err != nil {
				return err
			}
			path := filepath.Join(repo.Root(), config.LocalConfigFileName)
			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("local config already exists: %s (use -f to overwrite)", path)
				}
			}
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				return err
			}
			out.Printf("Created local config: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config")
	cmd.Flags().BoolVarP(&stdout, "stdout", "s", false, "Print config to stdout")
	cmd.Flags().BoolVar(&local, "local", false, "Create per-repo .curator.toml instead of global config")

	return cmd
}

// effectiveConfig merges the local config of the enclosing repository, if
// any, over the global one. It returns the local config path and overrides
// so callers can annotate their source.
func effectiveConfig(cmd *cobra.Command) (*config.Config, string, *config.LocalConfig) {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	l := log.FromContext(ctx)

	repo, err := git.Open(config.WorkDirFromContext(ctx))
	if err != nil {
		return cfg, "", nil
	}
	localPath := filepath.Join(repo.Root(), config.LocalConfigFileName)
	local, err := config.LoadLocal(repo.Root())
	if err != nil {
		l.Printf("Warning: failed to load local config: %v (using global config)\n", err)
		return cfg, localPath, nil
	}
	return config.MergeLocal(cfg, local), localPath, local
}

func newConfigShowCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Args:  cobra.NoArgs,
		Long: `Show effective configuration as TOML.

Inside a repository the local .curator.toml is merged over the global
config.`,
		Example: `  curator config show          # Show merged config
  curator config show --json   # Output as JSON`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)
			l := log.FromContext(ctx)

			effCfg, localPath, local := effectiveConfig(cmd)

			if jsonOutput {
				return out.JSON(effCfg)
			}

			if path, err := config.Path(); err == nil {
				l.Printf("# Global config: %s\n", path)
			}
			switch {
			case local != nil:
				l.Printf("# Local config:  %s\n", localPath)
			case localPath != "":
				l.Printf("# Local config:  (none)\n")
			}

			enc := toml.NewEncoder(out.Writer())
			if err := enc.Encode(effCfg); err != nil {
				return err
			}
			if len(effCfg.Hooks.Hooks) == 0 {
				return nil
			}
			out.Println()
			return enc.Encode(map[string]map[string]config.Hook{"hooks": effCfg.Hooks.Hooks})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newConfigHooksCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "hooks",
		Short: "List available hooks",
		Args:  cobra.NoArgs,
		Long: `List available hooks.

Inside a repository, hooks from .curator.toml are merged by name over the
global ones and annotated with their source.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)
			globalHooks := config.FromContext(ctx).Hooks.Hooks

			effCfg, _, local := effectiveConfig(cmd)
			hooksMap := effCfg.Hooks.Hooks

			if jsonOutput {
				return out.JSON(hooksMap)
			}
			if len(hooksMap) == 0 {
				out.Println("No hooks configured")
				return nil
			}

			names := make([]string, 0, len(hooksMap))
			for name := range hooksMap {
				names = append(names, name)
			}
			sort.Strings(names)

			rows := make([][]string, 0, len(names))
			for _, name := range names {
				hook := hooksMap[name]
				src := "global"
				if local != nil {
					if _, inLocal := local.Hooks.Hooks[name]; inLocal {
						src = "local"
						if _, inGlobal := globalHooks[name]; inGlobal {
							src = "local (override)"
						}
					}
				}
				on := "-"
				if len(hook.On) > 0 {
					on = fmt.Sprint(hook.On)
				}
				rows = append(rows, []string{name, on, src, hook.Description})
			}
			out.Print(static.RenderTable([]string{"NAME", "ON", "SOURCE", "DESCRIPTION"}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
