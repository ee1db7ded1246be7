// Package config handles loading and validation of curator configuration.
//
// # Configuration Sources (highest priority first)
//
//   - CURATOR_MAIN_BRANCH env var: main line name
//   - .curator.toml at the repository root (see [LoadLocal])
//   - ~/.config/curator/config.toml, or the file named by CURATOR_CONFIG
//   - Default values
//
// # Key Settings
//
//   - main_branch: branch release branches merge into (default: "main")
//   - project.source_dir / marker_file / version_variable: where the version lives
//   - release.branch_format: release branch name template (default: "release-{version}")
//   - changelog.template: section appended when a release starts
//   - merge.no_ff: always create a merge commit (default: true)
//
// # Hooks Configuration
//
// Hooks are defined in [hooks.NAME] sections:
//
//	[hooks.push]
//	command = "git push -u origin {branch}"
//	on = ["create"]
//
// Hooks with "on" run automatically after matching actions (create, merge, tag).
// Hooks without "on" only run via explicit --hook=name flag.
package config
