//go:build integration

package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/raphi011/curator/internal/git/gittest"
	"github.com/raphi011/curator/internal/reset"
)

// TestReset tests replacing the history with a single commit.
//
// Scenario: User runs `curator reset --yes --json` in a repo with three commits and an origin
// Expected: One commit, origin restored, nothing pushed
func TestReset(t *testing.T) {
	// The fresh repository has no user config; commit identity comes from the env.
	t.Setenv("GIT_AUTHOR_NAME", "Test User")
	t.Setenv("GIT_AUTHOR_EMAIL", "test@test.com")
	t.Setenv("GIT_COMMITTER_NAME", "Test User")
	t.Setenv("GIT_COMMITTER_EMAIL", "test@test.com")

	root := setupProject(t)
	gittest.CommitFile(t, root, "notes.txt", "draft\n", "Add notes")
	gittest.Run(t, root, "remote", "add", "origin", "https://example.com/acme/widgets.git")
	ctx := testContext(t, root)

	out := mustRunCurator(t, ctx, "reset", "--yes", "--json")

	var res reset.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if !res.Committed || res.Pushed {
		t.Errorf("result = %+v", res)
	}
	if res.RemoteURL != "https://example.com/acme/widgets.git" {
		t.Errorf("remote URL = %q", res.RemoteURL)
	}

	if got := gittest.Run(t, root, "rev-list", "--count", "HEAD"); got != "1" {
		t.Errorf("commit count = %s, want 1", got)
	}
	if got := gittest.Run(t, root, "log", "-1", "--format=%s"); got != reset.DefaultMessage {
		t.Errorf("commit message = %q", got)
	}
	if got := gittest.Run(t, root, "remote", "get-url", "origin"); got != res.RemoteURL {
		t.Errorf("origin = %q, want %q", got, res.RemoteURL)
	}
	if got := gittest.Run(t, root, "branch", "--show-current"); got != "main" {
		t.Errorf("branch = %q, want main", got)
	}

	journalOut := mustRunCurator(t, ctx, "journal", "--json")
	if !strings.Contains(journalOut, `"reset"`) {
		t.Errorf("expected a reset journal entry:\n%s", journalOut)
	}
}

// TestReset_RequiresConfirmation tests refusing to reset off a terminal without --yes.
//
// Scenario: User runs `curator reset` with stdin not a TTY
// Expected: Error, history untouched
func TestReset_RequiresConfirmation(t *testing.T) {
	t.Parallel()

	root := setupProject(t)
	gittest.CommitFile(t, root, "notes.txt", "draft\n", "Add notes")
	ctx := testContext(t, root)

	if _, err := runCurator(t, ctx, "reset"); err == nil {
		t.Fatal("expected error without --yes")
	}
	if got := gittest.Run(t, root, "rev-list", "--count", "HEAD"); got != "2" {
		t.Errorf("commit count = %s, want 2", got)
	}
}
