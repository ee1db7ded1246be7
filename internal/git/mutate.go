package git

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNothingToCommit is returned by Commit when the index matches HEAD.
var ErrNothingToCommit = errors.New("nothing to commit")

// CreateBranch creates name at HEAD and checks it out.
func (r *Repository) CreateBranch(ctx context.Context, name string) error {
	exists, err := r.BranchExists(name)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrBranchExists, name)
	}
	if err := runGit(ctx, r.root, "checkout", "-b", name); err != nil {
		return fmt.Errorf("failed to create branch %s: %w", name, err)
	}
	return nil
}

// Checkout switches the work tree to an existing branch.
func (r *Repository) Checkout(ctx context.Context, name string) error {
	exists, err := r.BranchExists(name)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrBranchNotFound, name)
	}
	if err := runGit(ctx, r.root, "checkout", name); err != nil {
		return fmt.Errorf("failed to checkout %s: %w", name, err)
	}
	return nil
}

// Add stages paths, given relative to the repository root or absolute.
func (r *Repository) Add(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	args := append([]string{"add", "--"}, paths...)
	if err := runGit(ctx, r.root, args...); err != nil {
		return fmt.Errorf("failed to stage %s: %w", strings.Join(paths, ", "), err)
	}
	return nil
}

// AddAll stages every change in the work tree, respecting .gitignore.
func (r *Repository) AddAll(ctx context.Context) error {
	if err := runGit(ctx, r.root, "add", "--all"); err != nil {
		return fmt.Errorf("failed to stage changes: %w", err)
	}
	return nil
}

// HasStagedChanges reports whether the index differs from HEAD.
func (r *Repository) HasStagedChanges(ctx context.Context) (bool, error) {
	err := runGit(ctx, r.root, "diff", "--cached", "--quiet")
	if err == nil {
		return false, nil
	}
	if exitCode(err) == 1 {
		return true, nil
	}
	return false, fmt.Errorf("failed to inspect index: %w", err)
}

// Commit records the index with message.
// Returns ErrNothingToCommit instead of invoking git when nothing is staged.
func (r *Repository) Commit(ctx context.Context, message string) error {
	staged, err := r.HasStagedChanges(ctx)
	if err != nil {
		return err
	}
	if !staged {
		return ErrNothingToCommit
	}
	if err := runGit(ctx, r.root, "commit", "-m", message); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Merge merges branch into the checked out branch with message.
// noFF forces a merge commit even when a fast-forward is possible.
func (r *Repository) Merge(ctx context.Context, branch, message string, noFF bool) error {
	exists, err := r.BranchExists(branch)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrBranchNotFound, branch)
	}

	args := []string{"merge"}
	if noFF {
		args = append(args, "--no-ff")
	}
	args = append(args, "-m", message, branch)
	if err := runGit(ctx, r.root, args...); err != nil {
		return fmt.Errorf("failed to merge %s: %w", branch, err)
	}
	return nil
}

// CreateTag creates an annotated tag at HEAD.
func (r *Repository) CreateTag(ctx context.Context, name, message string) error {
	exists, err := r.TagExists(name)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrTagExists, name)
	}
	if err := runGit(ctx, r.root, "tag", "-a", name, "-m", message); err != nil {
		return fmt.Errorf("failed to create tag %s: %w", name, err)
	}
	return nil
}

// StatusPorcelain returns `git status --porcelain` lines.
func (r *Repository) StatusPorcelain(ctx context.Context) ([]string, error) {
	out, err := outputGit(ctx, r.root, "status", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}
	var lines []string
	for _, line := range strings.Split(string(out), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// IsDirty reports whether the work tree has uncommitted or untracked changes.
func (r *Repository) IsDirty(ctx context.Context) (bool, error) {
	lines, err := r.StatusPorcelain(ctx)
	return len(lines) > 0, err
}

// Status returns the human-readable `git status` output.
func (r *Repository) Status(ctx context.Context) (string, error) {
	out, err := outputGit(ctx, r.root, "status")
	if err != nil {
		return "", fmt.Errorf("failed to get status: %w", err)
	}
	return string(out), nil
}

// RemoteURL returns the URL of the named remote, or "" when it isn't configured.
func (r *Repository) RemoteURL(ctx context.Context, name string) (string, error) {
	out, err := outputGit(ctx, r.root, "remote")
	if err != nil {
		return "", fmt.Errorf("failed to list remotes: %w", err)
	}
	found := false
	for _, remote := range strings.Fields(string(out)) {
		if remote == name {
			found = true
			break
		}
	}
	if !found {
		return "", nil
	}

	out, err = outputGit(ctx, r.root, "remote", "get-url", name)
	if err != nil {
		return "", fmt.Errorf("failed to get %s URL: %w", name, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// AddRemote configures a remote.
func (r *Repository) AddRemote(ctx context.Context, name, url string) error {
	if err := runGit(ctx, r.root, "remote", "add", name, url); err != nil {
		return fmt.Errorf("failed to add remote %s: %w", name, err)
	}
	return nil
}

// Push pushes ref to remote.
func (r *Repository) Push(ctx context.Context, remote, ref string, force bool) error {
	args := []string{"push"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, remote, ref)
	if err := runGit(ctx, r.root, args...); err != nil {
		return fmt.Errorf("failed to push %s to %s: %w", ref, remote, err)
	}
	return nil
}

// ListFiles returns tracked files plus untracked files not excluded by
// .gitignore, relative to the root and sorted as git lists them.
func (r *Repository) ListFiles(ctx context.Context) ([]string, error) {
	out, err := outputGit(ctx, r.root, "ls-files", "-z", "--cached", "--others", "--exclude-standard")
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	seen := make(map[string]bool)
	var files []string
	for _, f := range strings.Split(string(out), "\x00") {
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		files = append(files, f)
	}
	return files, nil
}
