package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// LocalConfigFileName is the per-repo config file at the repository root.
const LocalConfigFileName = ".curator.toml"

// LocalConfig holds per-repo configuration overrides from .curator.toml.
// Pointer fields and zero-value strings indicate "not set" (inherit from global).
type LocalConfig struct {
	MainBranch string         `toml:"main_branch"`
	Project    ProjectConfig  `toml:"project"`
	Release    ReleaseConfig  `toml:"release"`
	Changelog  LocalChangelog `toml:"changelog"`
	Merge      LocalMerge     `toml:"merge"`
	Gather     GatherConfig   `toml:"gather"`
	Hooks      HooksConfig    `toml:"-"` // merge by name into global
}

// LocalChangelog holds local changelog overrides
type LocalChangelog struct {
	File          string `toml:"file"`
	Template      string `toml:"template"`
	CreateMissing *bool  `toml:"create_missing"`
}

// LocalMerge holds local merge overrides
type LocalMerge struct {
	NoFF    *bool  `toml:"no_ff"`
	Message string `toml:"message"`
}

// rawLocalConfig is used for initial TOML parsing before processing hooks
type rawLocalConfig struct {
	MainBranch string         `toml:"main_branch"`
	Project    ProjectConfig  `toml:"project"`
	Release    ReleaseConfig  `toml:"release"`
	Changelog  LocalChangelog `toml:"changelog"`
	Merge      LocalMerge     `toml:"merge"`
	Gather     GatherConfig   `toml:"gather"`
	Hooks      map[string]any `toml:"hooks"`
}

// LoadLocal reads a per-repo .curator.toml from the given repository root.
// Returns nil (no error) if the file doesn't exist.
// Returns an error only on parse or validation failure.
func LoadLocal(repoPath string) (*LocalConfig, error) {
	configFile := filepath.Join(repoPath, LocalConfigFileName)

	data, err := os.ReadFile(configFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read local config %s: %w", configFile, err)
	}

	var raw rawLocalConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse local config %s: %w", configFile, err)
	}

	local := &LocalConfig{
		MainBranch: raw.MainBranch,
		Project:    raw.Project,
		Release:    raw.Release,
		Changelog:  raw.Changelog,
		Merge:      raw.Merge,
		Gather:     raw.Gather,
		Hooks:      parseHooksConfig(raw.Hooks),
	}

	if err := validateHooks(local.Hooks, configFile); err != nil {
		return nil, err
	}
	if err := validateExtensions(local.Gather.Extensions); err != nil {
		return nil, fmt.Errorf("%w in %s", err, configFile)
	}

	return local, nil
}

// defaultLocalConfig is the template for curator config init --local
const defaultLocalConfig = `# curator local config (per-repo overrides)
# Place this file at the repository root.
# Settings here override the global config for this repo only.

# main_branch = "master"

# [project]
# source_dir = "lib"
# marker_file = "version.py"
# version_variable = "VERSION"

# [release]
# branch_format = "release/{version}"
# commit_message = "Prepare {version}"
# tag_format = "{version}"

# [changelog]
# file = "docs/CHANGES.md"
# create_missing = true

# [merge]
# no_ff = false

# [gather]
# docs_source = "docs"
# extensions = [".py", ".pyi"]

# Hooks - add repo-specific hooks or override global hooks
# Set enabled = false to disable a global hook for this repo
#
# [hooks.build]
# command = "python -m build"
# description = "Build the distribution"
# on = ["tag"]
#
# [hooks.global-hook-name]
# enabled = false
`

// DefaultLocalConfig returns the default local configuration template content.
func DefaultLocalConfig() string {
	return defaultLocalConfig
}
