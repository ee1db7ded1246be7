// Package cmd provides helpers for executing external commands with proper error handling.
//
// This package wraps [os/exec.Cmd] to capture stderr and include it in error
// messages, making command failures more informative for users.
//
// # Usage
//
//	if err := cmd.RunContext(ctx, repoRoot, "git", "add", "CHANGELOG.md"); err != nil {
//	    // err contains git's stderr
//	    return fmt.Errorf("stage changelog: %w", err)
//	}
//
//	out, err := cmd.OutputContext(ctx, "", "gh", "repo", "view", "--json", "name")
//
// Every invocation is echoed through the context logger when verbose mode is on.
//
// # Design Notes
//
// Repository mutations go through the git CLI rather than a Go library so
// that user configuration (hooks, signing, credential helpers) applies to
// commits, merges and tags exactly as it would from a shell.
package cmd
