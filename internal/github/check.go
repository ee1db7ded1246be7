// Package github reads repository metadata through the gh CLI.
package github

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/raphi011/curator/internal/cmd"
)

// ErrGHNotFound indicates gh CLI is not installed or not in PATH
var ErrGHNotFound = errors.New("gh not found: please install GitHub CLI (https://cli.github.com)")

// ErrGHNotAuthenticated indicates gh CLI is installed but not authenticated
var ErrGHNotAuthenticated = errors.New("gh not authenticated: please run 'gh auth login'")

// CheckGH verifies that gh CLI is available and authenticated
func CheckGH(ctx context.Context) error {
	if _, err := exec.LookPath("gh"); err != nil {
		return ErrGHNotFound
	}

	// gh auth status exits non-zero when not authenticated
	if err := cmd.RunContext(ctx, "", "gh", "auth", "status"); err != nil {
		msg := err.Error()
		if strings.Contains(msg, "not logged") || strings.Contains(msg, "no accounts") {
			return ErrGHNotAuthenticated
		}
		return fmt.Errorf("gh auth check failed: %w", err)
	}
	return nil
}
