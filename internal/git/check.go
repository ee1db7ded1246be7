package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrGitNotFound indicates git is not installed or not in PATH
var ErrGitNotFound = errors.New("git not found: please install git (https://git-scm.com)")

// CheckGit verifies that git is available in PATH
func CheckGit() error {
	if _, err := exec.LookPath("git"); err != nil {
		return ErrGitNotFound
	}
	return nil
}

// ShowToplevel returns the work tree root containing dir, as git reports it.
func ShowToplevel(ctx context.Context, dir string) (string, error) {
	out, err := outputGit(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", ErrNotRepository
	}
	return strings.TrimSpace(string(out)), nil
}

// Init creates a repository in dir whose unborn branch is named branch.
// Falls back to a plain init plus symbolic-ref on gits without --initial-branch.
func Init(ctx context.Context, dir, branch string) error {
	if err := runGit(ctx, dir, "init", "--initial-branch="+branch); err == nil {
		return nil
	}
	if err := runGit(ctx, dir, "init"); err != nil {
		return fmt.Errorf("failed to init repository: %w", err)
	}
	if err := runGit(ctx, dir, "symbolic-ref", "HEAD", "refs/heads/"+branch); err != nil {
		return fmt.Errorf("failed to name initial branch %s: %w", branch, err)
	}
	return nil
}
