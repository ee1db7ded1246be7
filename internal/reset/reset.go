// Package reset replaces a repository's history with a single fresh commit.
//
// The remote "origin" survives the reset; everything else stored in .git
// (branches, tags, stashes, hooks, config) is gone. The work tree itself is
// left as it is and becomes the content of the new initial commit.
package reset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/raphi011/curator/internal/git"
	"github.com/raphi011/curator/internal/log"
)

// Defaults for Options.
const (
	DefaultBranch  = "main"
	DefaultRemote  = "origin"
	DefaultMessage = "Initial commit after reset"
)

var (
	// ErrCancelled is returned when the user declines the confirmation.
	ErrCancelled = errors.New("reset cancelled")

	// ErrNotRoot is returned for a path below the root of a work tree.
	ErrNotRoot = errors.New("not the repository root")
)

// Options configure a reset.
type Options struct {
	Path      string
	ForcePush bool
	Branch    string
	Remote    string
	Message   string

	// Confirm is asked before anything is deleted. Nil skips the question.
	Confirm func(prompt string) (bool, error)

	// Out receives progress messages. Nil discards them.
	Out io.Writer
}

// Result describes what the reset did.
type Result struct {
	Root      string   `json:"root"`
	RemoteURL string   `json:"remote_url,omitempty"`
	Committed bool     `json:"committed"`
	Pushed    bool     `json:"pushed"`
	Status    string   `json:"status"`
	Warnings  []string `json:"warnings,omitempty"`
}

func (o Options) withDefaults() Options {
	if o.Path == "" {
		o.Path = "."
	}
	if o.Branch == "" {
		o.Branch = DefaultBranch
	}
	if o.Remote == "" {
		o.Remote = DefaultRemote
	}
	if o.Message == "" {
		o.Message = DefaultMessage
	}
	if o.Out == nil {
		o.Out = io.Discard
	}
	return o
}

// Warning returns the text shown before asking for confirmation.
func Warning(root, branch, remoteURL string, forcePush bool) string {
	s := "!!! WARNING !!!\n" +
		"This permanently deletes the existing git history (.git directory)\n" +
		fmt.Sprintf("and creates a fresh repository on branch '%s'.\n", branch)
	if forcePush && remoteURL != "" {
		s += fmt.Sprintf("It will also FORCE PUSH the new history to '%s', overwriting the remote history.\n", remoteURL)
	}
	return s + "This action cannot be undone.\n"
}

// Reset deletes the .git directory at opts.Path and re-creates the
// repository with one commit of the current work tree.
// Failures after the deletion that leave a usable repository (restoring the
// remote, committing, pushing) become warnings; the rest stop the reset.
func Reset(ctx context.Context, opts Options) (Result, error) {
	opts = opts.withDefaults()
	l := log.FromContext(ctx)
	out := opts.Out

	root, err := filepath.Abs(opts.Path)
	if err != nil {
		return Result{}, err
	}
	res := Result{Root: root}

	gitDir := filepath.Join(root, ".git")
	if info, err := os.Stat(gitDir); err != nil || !info.IsDir() {
		if top, err := git.ShowToplevel(ctx, root); err == nil && top != root {
			return res, fmt.Errorf("%w: %s is inside the repository at %s, reset its root instead", ErrNotRoot, root, top)
		}
		return res, fmt.Errorf("%w: no .git directory in %s", git.ErrNotRepository, root)
	}
	fmt.Fprintf(out, "Found git repository at: %s\n", root)

	repo, err := git.Open(root)
	if err != nil {
		return res, err
	}
	res.RemoteURL, err = repo.RemoteURL(ctx, opts.Remote)
	if err != nil {
		return res, err
	}
	if res.RemoteURL != "" {
		fmt.Fprintf(out, "Found remote '%s' URL: %s\n", opts.Remote, res.RemoteURL)
	} else {
		fmt.Fprintf(out, "No remote '%s' configured.\n", opts.Remote)
	}

	if opts.Confirm != nil {
		fmt.Fprint(out, "\n"+Warning(root, opts.Branch, res.RemoteURL, opts.ForcePush)+"\n")
		ok, err := opts.Confirm(fmt.Sprintf("Reset the git repository at '%s'?", root))
		if err != nil {
			return res, err
		}
		if !ok {
			return res, ErrCancelled
		}
	}

	fmt.Fprintf(out, "Deleting %s...\n", gitDir)
	if err := os.RemoveAll(gitDir); err != nil {
		return res, fmt.Errorf("delete .git: %w", err)
	}
	l.Debug("deleted git directory", "path", gitDir)

	fmt.Fprintf(out, "Initializing new repository on branch '%s'...\n", opts.Branch)
	if err := git.Init(ctx, root, opts.Branch); err != nil {
		return res, err
	}
	if repo, err = git.Open(root); err != nil {
		return res, err
	}

	push := opts.ForcePush
	if res.RemoteURL != "" {
		fmt.Fprintf(out, "Restoring remote '%s'...\n", opts.Remote)
		if err := repo.AddRemote(ctx, opts.Remote, res.RemoteURL); err != nil {
			res.warn(out, "could not restore remote %s: %v; skipping push", opts.Remote, err)
			push = false
		}
	}

	fmt.Fprintln(out, "Staging all files...")
	if err := repo.AddAll(ctx); err != nil {
		return res, err
	}

	fmt.Fprintln(out, "Creating initial commit...")
	switch err := repo.Commit(ctx, opts.Message); {
	case err == nil:
		res.Committed = true
		fmt.Fprintf(out, "Initial commit created: '%s'\n", opts.Message)
	case errors.Is(err, git.ErrNothingToCommit):
		fmt.Fprintln(out, "No changes detected to commit.")
	default:
		res.warn(out, "commit failed: %v; skipping push", err)
		push = false
	}

	if push {
		if res.RemoteURL == "" {
			res.warn(out, "no remote '%s' to push to", opts.Remote)
		} else {
			fmt.Fprintf(out, "Force pushing to %s/%s...\n", opts.Remote, opts.Branch)
			if err := repo.Push(ctx, opts.Remote, opts.Branch, true); err != nil {
				res.warn(out, "force push failed: %v", err)
			} else {
				res.Pushed = true
			}
		}
	}

	res.Status, err = repo.Status(ctx)
	if err != nil {
		res.warn(out, "could not read status: %v", err)
	}
	return res, nil
}

func (r *Result) warn(out io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.Warnings = append(r.Warnings, msg)
	fmt.Fprintln(out, "Warning: "+msg)
}
