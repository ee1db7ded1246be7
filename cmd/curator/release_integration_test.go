//go:build integration

package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raphi011/curator/internal/config"
	"github.com/raphi011/curator/internal/git"
	"github.com/raphi011/curator/internal/git/gittest"
	"github.com/raphi011/curator/internal/journal"
	"github.com/raphi011/curator/internal/release"
)

// TestRelease_FullCycle tests creating, merging and tagging a release.
//
// Scenario: User runs `curator release create 1.5.0`, `release merge`, `release tag`
// Expected: Branch with bump commit, merge into main, tag v1.5.0, three journal entries
func TestRelease_FullCycle(t *testing.T) {
	t.Parallel()

	root := setupProject(t)
	ctx := testContext(t, root)

	out := mustRunCurator(t, ctx, "release", "create", "1.5.0")
	if !strings.Contains(out, "Release branch release-1.5.0 created and initialized for release 1.5.0") {
		t.Errorf("unexpected create output: %q", out)
	}
	if got := gittest.Run(t, root, "branch", "--show-current"); got != "release-1.5.0" {
		t.Errorf("active branch = %q, want release-1.5.0", got)
	}
	if !strings.Contains(readFile(t, root, markerFile), "__version__ = '1.5.0'") {
		t.Errorf("marker not bumped:\n%s", readFile(t, root, markerFile))
	}
	if !strings.Contains(readFile(t, root, "CHANGELOG.md"), "## 1.5.0") {
		t.Errorf("changelog section missing:\n%s", readFile(t, root, "CHANGELOG.md"))
	}

	mustRunCurator(t, ctx, "release", "merge")
	if got := gittest.Run(t, root, "branch", "--show-current"); got != "main" {
		t.Errorf("active branch after merge = %q, want main", got)
	}
	if !strings.Contains(readFile(t, root, markerFile), "'1.5.0'") {
		t.Error("main should carry the bumped marker after merge")
	}

	mustRunCurator(t, ctx, "release", "tag")
	if got := gittest.Run(t, root, "tag", "-l", "v1.5.0"); got != "v1.5.0" {
		t.Errorf("tag v1.5.0 missing, got %q", got)
	}

	out = mustRunCurator(t, ctx, "journal", "--json")
	var entries []journal.Entry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("invalid journal JSON: %v\n%s", err, out)
	}
	if len(entries) != 3 {
		t.Fatalf("journal has %d entries, want 3", len(entries))
	}
	wantActions := []string{journal.ActionTag, journal.ActionMerge, journal.ActionCreate}
	for i, want := range wantActions {
		if entries[i].Action != want {
			t.Errorf("entry %d action = %q, want %q", i, entries[i].Action, want)
		}
	}
}

// TestRelease_CreateJSONWithDir tests --json output and the --dir flag.
//
// Scenario: User runs `curator -C <root> release create v2.0.0 -b rel/2.0 --json` from elsewhere
// Expected: Normalized version, custom branch, result as JSON
func TestRelease_CreateJSONWithDir(t *testing.T) {
	t.Parallel()

	root := setupProject(t)
	ctx := testContext(t, t.TempDir())

	out := mustRunCurator(t, ctx, "-C", root, "release", "create", "v2.0.0", "-b", "rel/2.0", "--json")

	var res release.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if res.Version != "2.0.0" || res.Previous != "1.4.0" || res.Branch != "rel/2.0" {
		t.Errorf("result = %+v", res)
	}
	if got := gittest.Run(t, root, "branch", "--show-current"); got != "rel/2.0" {
		t.Errorf("active branch = %q, want rel/2.0", got)
	}
}

// TestRelease_CreateJSONWithHooks tests that hook output stays out of --json output.
//
// Scenario: User runs `curator release create 1.5.0 --json` with a create hook that echoes
// Expected: Hook runs, stdout holds only the JSON result
func TestRelease_CreateJSONWithHooks(t *testing.T) {
	t.Parallel()

	root := setupProject(t)
	ctx := testContext(t, root, func(cfg *config.Config) {
		cfg.Hooks = config.HooksConfig{Hooks: map[string]config.Hook{
			"announce": {Command: "echo released {version} && touch announced", On: []string{"create"}},
		}}
	})

	out := mustRunCurator(t, ctx, "release", "create", "1.5.0", "--json")

	var res release.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("stdout is not a single JSON document: %v\n%s", err, out)
	}
	if res.Version != "1.5.0" || res.HooksFailed != 0 {
		t.Errorf("result = %+v", res)
	}
	if strings.Contains(out, "Running hook") || strings.Contains(out, "released 1.5.0") {
		t.Errorf("hook output leaked into stdout:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(root, "announced")); err != nil {
		t.Errorf("hook did not run: %v", err)
	}
}

// TestRelease_CreateRequiresVersion tests that a version is required off a terminal.
//
// Scenario: User runs `curator release create` with stdin not a TTY
// Expected: Error, no branch created
func TestRelease_CreateRequiresVersion(t *testing.T) {
	t.Parallel()

	root := setupProject(t)
	ctx := testContext(t, root)

	if _, err := runCurator(t, ctx, "release", "create"); err == nil {
		t.Fatal("expected error without version")
	}
	if got := gittest.Run(t, root, "branch", "--list", "release-*"); got != "" {
		t.Errorf("no release branch expected, got %q", got)
	}
}

// TestRelease_CreateExistingBranch tests creating the same release twice.
//
// Scenario: User runs `curator release create 1.5.0` twice
// Expected: Second run fails with ErrBranchExists
func TestRelease_CreateExistingBranch(t *testing.T) {
	t.Parallel()

	root := setupProject(t)
	ctx := testContext(t, root)

	mustRunCurator(t, ctx, "release", "create", "1.5.0")
	gittest.Run(t, root, "checkout", "main")

	_, err := runCurator(t, ctx, "release", "create", "1.5.0")
	if !errors.Is(err, git.ErrBranchExists) {
		t.Fatalf("expected ErrBranchExists, got %v", err)
	}
}

// TestRelease_TagRequiresMain tests tagging from a release branch.
//
// Scenario: User runs `curator release tag` on release-1.5.0
// Expected: ErrNotOnMain, no tag
func TestRelease_TagRequiresMain(t *testing.T) {
	t.Parallel()

	root := setupProject(t)
	ctx := testContext(t, root)

	mustRunCurator(t, ctx, "release", "create", "1.5.0")

	_, err := runCurator(t, ctx, "release", "tag")
	if !errors.Is(err, release.ErrNotOnMain) {
		t.Fatalf("expected ErrNotOnMain, got %v", err)
	}
	if got := gittest.Run(t, root, "tag", "-l"); got != "" {
		t.Errorf("no tags expected, got %q", got)
	}
}

// TestRelease_MergeFromMainNeedsBranch tests merging without a branch while on main.
//
// Scenario: User runs `curator release merge` on main with stdin not a TTY
// Expected: ErrBranchRequired
func TestRelease_MergeFromMainNeedsBranch(t *testing.T) {
	t.Parallel()

	root := setupProject(t)
	ctx := testContext(t, root)

	_, err := runCurator(t, ctx, "release", "merge")
	if !errors.Is(err, release.ErrBranchRequired) {
		t.Fatalf("expected ErrBranchRequired, got %v", err)
	}
}

// TestRelease_MergeNamedBranchNoFF tests merging a named branch with --no-ff.
//
// Scenario: User runs `curator release merge release-1.5.0 --no-ff -m "Ship it"` on main
// Expected: Merge commit with the given message
func TestRelease_MergeNamedBranchNoFF(t *testing.T) {
	t.Parallel()

	root := setupProject(t)
	ctx := testContext(t, root)

	mustRunCurator(t, ctx, "release", "create", "1.5.0")
	gittest.Run(t, root, "checkout", "main")

	mustRunCurator(t, ctx, "release", "merge", "release-1.5.0", "--no-ff", "-m", "Ship it")
	if got := gittest.Run(t, root, "log", "-1", "--format=%s"); got != "Ship it" {
		t.Errorf("merge commit subject = %q, want %q", got, "Ship it")
	}
	if got := gittest.Run(t, root, "rev-list", "--parents", "-n", "1", "HEAD"); len(strings.Fields(got)) != 3 {
		t.Errorf("expected a merge commit with two parents, got %q", got)
	}
}
