package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Hook defines a command run after a release action
type Hook struct {
	Command     string   `toml:"command"`
	Description string   `toml:"description"`
	On          []string `toml:"on"`      // triggers this hook runs on (empty = only via --hook)
	Enabled     *bool    `toml:"enabled"` // local config only: false removes a global hook
}

// IsEnabled reports whether the hook is active. Unset means enabled.
func (h Hook) IsEnabled() bool {
	return h.Enabled == nil || *h.Enabled
}

// HooksConfig holds hook-related configuration
type HooksConfig struct {
	Hooks map[string]Hook `toml:"-"` // parsed from [hooks.NAME] sections
}

// ProjectConfig describes where the version marker lives
type ProjectConfig struct {
	SourceDir       string `toml:"source_dir"`       // directory under the repo root holding packages
	MarkerFile      string `toml:"marker_file"`      // file inside the module carrying the version
	VersionVariable string `toml:"version_variable"` // name of the assignment holding the version
}

// ReleaseConfig holds release branch naming
type ReleaseConfig struct {
	BranchFormat  string `toml:"branch_format"`  // {version}
	CommitMessage string `toml:"commit_message"` // {version}, {branch}
	TagFormat     string `toml:"tag_format"`     // {version}
}

// ChangelogConfig holds changelog settings
type ChangelogConfig struct {
	File          string `toml:"file"`
	Template      string `toml:"template"` // {version}, {date}
	CreateMissing bool   `toml:"create_missing"`
}

// MergeConfig holds merge-to-main settings
type MergeConfig struct {
	NoFF    bool   `toml:"no_ff"`
	Message string `toml:"message"` // {branch}, {main}
}

// GatherConfig holds settings for collecting docs and sources
type GatherConfig struct {
	OutputDir     string   `toml:"output_dir"`
	DocsSource    string   `toml:"docs_source"`
	SphinxCommand string   `toml:"sphinx_command"`
	Extensions    []string `toml:"extensions"`
}

// ThemeConfig holds UI theme/color configuration
type ThemeConfig struct {
	Name     string `toml:"name"` // preset: "default", "dracula", "nord", "gruvbox", "catppuccin", "none"
	Mode     string `toml:"mode"` // "auto", "light", "dark"
	Primary  string `toml:"primary"`
	Accent   string `toml:"accent"`
	Success  string `toml:"success"`
	Error    string `toml:"error"`
	Muted    string `toml:"muted"`
	Normal   string `toml:"normal"`
	Info     string `toml:"info"`
	Warning  string `toml:"warning"`
	Nerdfont bool   `toml:"nerdfont"`
}

// Config holds the curator configuration
type Config struct {
	MainBranch  string          `toml:"main_branch"`
	JournalPath string          `toml:"journal_path"`
	LogFile     string          `toml:"log_file"`
	Project     ProjectConfig   `toml:"project"`
	Release     ReleaseConfig   `toml:"release"`
	Changelog   ChangelogConfig `toml:"changelog"`
	Merge       MergeConfig     `toml:"merge"`
	Gather      GatherConfig    `toml:"gather"`
	Theme       ThemeConfig     `toml:"theme"`
	Hooks       HooksConfig     `toml:"-"` // custom parsing needed
}

// Defaults for every setting that has one.
const (
	DefaultMainBranch        = "main"
	DefaultSourceDir         = "src"
	DefaultMarkerFile        = "__init__.py"
	DefaultVersionVariable   = "__version__"
	DefaultBranchFormat      = "release-{version}"
	DefaultCommitMessage     = "Start release {version}"
	DefaultTagFormat         = "v{version}"
	DefaultChangelogFile     = "CHANGELOG.md"
	DefaultChangelogTemplate = "\n## {version}\n\n- Placeholder for changes\n"
	DefaultMergeMessage      = "Merge {branch} into {main}"
	DefaultGatherDir         = ".clerk"
	DefaultDocsSource        = "docsrc"
	DefaultSphinxCommand     = "sphinx-build"
)

// Environment variables consulted by Load.
const (
	EnvConfigPath = "CURATOR_CONFIG"
	EnvMainBranch = "CURATOR_MAIN_BRANCH"
)

// Default returns the default configuration
func Default() Config {
	return Config{
		MainBranch:  DefaultMainBranch,
		JournalPath: defaultStatePath("journal.json"),
		LogFile:     defaultStatePath("curator.log"),
		Project: ProjectConfig{
			SourceDir:       DefaultSourceDir,
			MarkerFile:      DefaultMarkerFile,
			VersionVariable: DefaultVersionVariable,
		},
		Release: ReleaseConfig{
			BranchFormat:  DefaultBranchFormat,
			CommitMessage: DefaultCommitMessage,
			TagFormat:     DefaultTagFormat,
		},
		Changelog: ChangelogConfig{
			File:     DefaultChangelogFile,
			Template: DefaultChangelogTemplate,
		},
		Merge: MergeConfig{
			NoFF:    true,
			Message: DefaultMergeMessage,
		},
		Gather: GatherConfig{
			OutputDir:     DefaultGatherDir,
			DocsSource:    DefaultDocsSource,
			SphinxCommand: DefaultSphinxCommand,
			Extensions:    []string{".py"},
		},
		Hooks: HooksConfig{Hooks: map[string]Hook{}},
	}
}

// defaultStatePath returns a file under ~/.curator, or "" if home is unknown
func defaultStatePath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".curator", name)
}

// ValidatePath checks that the path is absolute or starts with ~
// Returns error if path is relative (like "." or "..")
func ValidatePath(path, fieldName string) error {
	if path == "" {
		return nil
	}
	if strings.HasPrefix(path, "~") {
		return nil
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s must be absolute or start with ~, got: %q", fieldName, path)
	}
	return nil
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/")), nil
	}
	return path, nil
}

// Path returns the global config file location.
// CURATOR_CONFIG takes precedence over ~/.config/curator/config.toml.
func Path() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "curator", "config.toml"), nil
}

// rawConfig is used for initial TOML parsing before processing hooks
// and telling unset booleans apart from false.
type rawConfig struct {
	MainBranch  string         `toml:"main_branch"`
	JournalPath string         `toml:"journal_path"`
	LogFile     string         `toml:"log_file"`
	Project     ProjectConfig  `toml:"project"`
	Release     ReleaseConfig  `toml:"release"`
	Changelog   LocalChangelog `toml:"changelog"`
	Merge       LocalMerge     `toml:"merge"`
	Gather      GatherConfig   `toml:"gather"`
	Theme       ThemeConfig    `toml:"theme"`
	Hooks       map[string]any `toml:"hooks"`
}

// Load reads the global config and applies environment overrides.
// Returns Default() if the file doesn't exist (no error).
// Returns an error only if the file exists but is invalid.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return applyEnv(Default()), nil
	}
	cfg, err := LoadFile(path)
	if err != nil {
		return applyEnv(Default()), err
	}
	return applyEnv(cfg), nil
}

// LoadFile reads the config at path on top of the defaults.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML config content on top of the defaults and validates it.
func Parse(data []byte) (Config, error) {
	var raw rawConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Default(), fmt.Errorf("failed to parse config file: %w", err)
	}

	// Global config is merged onto the defaults with the same rules a local
	// .curator.toml uses against the global config.
	base := Default()
	cfg := *MergeLocal(&base, &LocalConfig{
		MainBranch: raw.MainBranch,
		Project:    raw.Project,
		Release:    raw.Release,
		Changelog:  raw.Changelog,
		Merge:      raw.Merge,
		Gather:     raw.Gather,
		Hooks:      parseHooksConfig(raw.Hooks),
	})
	if raw.Theme != (ThemeConfig{}) {
		cfg.Theme = raw.Theme
	}

	if err := ValidatePath(raw.JournalPath, "journal_path"); err != nil {
		return Default(), err
	}
	if err := ValidatePath(raw.LogFile, "log_file"); err != nil {
		return Default(), err
	}
	if raw.JournalPath != "" {
		expanded, err := expandPath(raw.JournalPath)
		if err != nil {
			return Default(), fmt.Errorf("expand journal_path: %w", err)
		}
		cfg.JournalPath = expanded
	}
	if raw.LogFile != "" {
		expanded, err := expandPath(raw.LogFile)
		if err != nil {
			return Default(), fmt.Errorf("expand log_file: %w", err)
		}
		cfg.LogFile = expanded
	}

	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// applyEnv applies environment variable overrides
func applyEnv(cfg Config) Config {
	if v := os.Getenv(EnvMainBranch); v != "" {
		cfg.MainBranch = v
	}
	return cfg
}

// parseHooksConfig extracts HooksConfig from raw TOML map
// Handles [hooks.NAME] sections
func parseHooksConfig(raw map[string]any) HooksConfig {
	hc := HooksConfig{
		Hooks: make(map[string]Hook),
	}

	for key, value := range raw {
		hookMap, ok := value.(map[string]any)
		if !ok {
			continue
		}
		hook := Hook{}
		if cmd, ok := hookMap["command"].(string); ok {
			hook.Command = cmd
		}
		if desc, ok := hookMap["description"].(string); ok {
			hook.Description = desc
		}
		if on, ok := hookMap["on"].([]any); ok {
			for _, v := range on {
				if s, ok := v.(string); ok {
					hook.On = append(hook.On, s)
				}
			}
		}
		if enabled, ok := hookMap["enabled"].(bool); ok {
			hook.Enabled = &enabled
		}
		hc.Hooks[key] = hook
	}

	return hc
}

// Expand replaces {name} placeholders in format with values from vars.
// Unknown placeholders are left untouched.
func Expand(format string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(format)
}

// BranchName returns the release branch name for version.
func (c *Config) BranchName(version string) string {
	return Expand(c.Release.BranchFormat, map[string]string{"version": version})
}

// TagName returns the tag name for version.
func (c *Config) TagName(version string) string {
	return Expand(c.Release.TagFormat, map[string]string{"version": version})
}

// Init creates a default config file at Path().
// If force is true, overwrites existing file.
// Returns the path to the created file.
func Init(force bool) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("config file already exists: %s (use -f to overwrite)", path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(defaultConfig), 0644); err != nil {
		return "", err
	}
	return path, nil
}

// DefaultConfig returns the commented default configuration file content.
func DefaultConfig() string {
	return defaultConfig
}

const defaultConfig = `# curator configuration

# Name of the main line that release branches merge back into
# Override per shell with CURATOR_MAIN_BRANCH
main_branch = "main"

# Where the action journal and the dashboard log are kept
# Must be an absolute path or start with ~
# journal_path = "~/.curator/journal.json"
# log_file = "~/.curator/curator.log"

# Project layout: <repo>/<source_dir>/[<namespace>/]<module>/<marker_file>
[project]
source_dir = "src"
marker_file = "__init__.py"
version_variable = "__version__"

# Release branches
# Placeholders: {version}; commit_message also accepts {branch}
[release]
branch_format = "release-{version}"
commit_message = "Start release {version}"
tag_format = "v{version}"

# Changelog section appended when a release starts
# Placeholders: {version}, {date} (YYYY-MM-DD)
[changelog]
file = "CHANGELOG.md"
template = """

## {version}

- Placeholder for changes
"""
create_missing = false

# Merging a release branch back into main_branch
# Placeholders: {branch}, {main}
[merge]
no_ff = true
message = "Merge {branch} into {main}"

# curator gather
[gather]
output_dir = ".clerk"
docs_source = "docsrc"
sphinx_command = "sphinx-build"
extensions = [".py"]

# Dashboard colors
# [theme]
# name = "default"   # default, dracula, nord, gruvbox, catppuccin, none
# mode = "auto"      # auto, light, dark
# nerdfont = false

# Hooks run after a release action succeeds
# Hooks with "on" run automatically for matching actions.
# Hooks without "on" only run when explicitly called with --hook=name.
#
# [hooks.push]
# command = "git push -u origin {branch}"
# description = "Publish the release branch"
# on = ["create"]
#
# [hooks.publish]
# command = "git push origin {main} {tag}"
# description = "Push main and the new tag"
# on = ["tag"]
#
# Available "on" values: "create", "merge", "tag", "all"
#
# Hooks run with the repository root as working directory.
#
# Available placeholders:
#   {root}     - repository root
#   {branch}   - release branch
#   {version}  - release version
#   {tag}      - tag name (tag only)
#   {main}     - main branch name
#   {trigger}  - action that triggered the hook
`
