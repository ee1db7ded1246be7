//go:build integration

package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raphi011/curator/internal/changelog"
	"github.com/raphi011/curator/internal/config"
	"github.com/raphi011/curator/internal/git/gittest"
	"github.com/raphi011/curator/internal/layout"
	"github.com/raphi011/curator/internal/release"
	"github.com/raphi011/curator/internal/version"
)

// TestStatus_JSON tests the status snapshot.
//
// Scenario: User runs `curator status --json`
// Expected: Active main, the discovered layout and version 1.4.0
func TestStatus_JSON(t *testing.T) {
	t.Parallel()

	root := setupProject(t)
	gittest.Run(t, root, "tag", "-a", "v1.4.0", "-m", "Release v1.4.0")
	ctx := testContext(t, root)

	out := mustRunCurator(t, ctx, "status", "--json")

	var snap release.Snapshot
	if err := json.Unmarshal([]byte(out), &snap); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if snap.Active != "main" || snap.Main != "main" {
		t.Errorf("active/main = %q/%q", snap.Active, snap.Main)
	}
	if snap.Version != "1.4.0" {
		t.Errorf("version = %q, want 1.4.0", snap.Version)
	}
	if snap.Layout == nil || snap.Layout.Module != "widgets" || snap.Layout.Namespace != "acme" {
		t.Errorf("layout = %+v", snap.Layout)
	}
	if len(snap.Tags) != 1 || snap.Tags[0] != "v1.4.0" {
		t.Errorf("tags = %v", snap.Tags)
	}
}

// TestStatus_NoSourceDir tests status on a repository without a package.
//
// Scenario: User runs `curator` (no TTY) in a plain repository
// Expected: Status rendered with the layout problem in the VERSION row
func TestStatus_NoSourceDir(t *testing.T) {
	t.Parallel()

	root := gittest.NewRepo(t)
	ctx := testContext(t, root)

	out := mustRunCurator(t, ctx)
	if !strings.Contains(out, "VERSION") || !strings.Contains(out, "main") {
		t.Errorf("unexpected status output:\n%s", out)
	}
	if !strings.Contains(out, layout.ErrNoSourceDir.Error()) {
		t.Errorf("expected source dir error in output:\n%s", out)
	}
}

// TestDiscover tests layout discovery without a namespace.
//
// Scenario: User runs `curator discover --json` on src/widgets
// Expected: Module widgets, empty namespace
func TestDiscover(t *testing.T) {
	t.Parallel()

	root := gittest.NewProject(t, gittest.Project{Module: "widgets", Version: "0.1.0"})
	ctx := testContext(t, root)

	out := mustRunCurator(t, ctx, "discover", "--json")

	var l layout.Layout
	if err := json.Unmarshal([]byte(out), &l); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if l.Module != "widgets" || l.Namespace != "" || l.SourceDir != "src" {
		t.Errorf("layout = %+v", l)
	}
}

// TestVersion tests showing and setting the version marker.
//
// Scenario: User runs `curator version`, `version --next`, `version set v1.4.1`
// Expected: 1.4.0, 1.4.1, marker rewritten without a commit
func TestVersion(t *testing.T) {
	t.Parallel()

	root := setupProject(t)
	ctx := testContext(t, root)

	if got := mustRunCurator(t, ctx, "version"); got != "1.4.0\n" {
		t.Errorf("version = %q, want 1.4.0", got)
	}
	if got := mustRunCurator(t, ctx, "version", "--next"); got != "1.4.1\n" {
		t.Errorf("version --next = %q, want 1.4.1", got)
	}

	out := mustRunCurator(t, ctx, "version", "set", "v1.4.1")
	if !strings.HasPrefix(out, "1.4.0 -> 1.4.1") {
		t.Errorf("unexpected set output: %q", out)
	}
	if !strings.Contains(readFile(t, root, markerFile), "__version__ = '1.4.1'") {
		t.Errorf("marker not rewritten:\n%s", readFile(t, root, markerFile))
	}
	if got := gittest.Run(t, root, "status", "--porcelain"); !strings.Contains(got, "__init__.py") {
		t.Errorf("expected uncommitted marker change, status %q", got)
	}
}

// TestVersion_SetInvalid tests rejecting a malformed version.
//
// Scenario: User runs `curator version set banana`
// Expected: ErrInvalidVersion, marker untouched
func TestVersion_SetInvalid(t *testing.T) {
	t.Parallel()

	root := setupProject(t)
	ctx := testContext(t, root)

	_, err := runCurator(t, ctx, "version", "set", "banana")
	if !errors.Is(err, version.ErrInvalidVersion) {
		t.Fatalf("expected ErrInvalidVersion, got %v", err)
	}
	if !strings.Contains(readFile(t, root, markerFile), "'1.4.0'") {
		t.Error("marker should be untouched")
	}
}

// TestChangelog tests adding and listing changelog sections.
//
// Scenario: User runs `curator changelog add`, `changelog add 1.5.0`, `changelog list`
// Expected: Sections 1.4.0 and 1.5.0, a duplicate is refused
func TestChangelog(t *testing.T) {
	t.Parallel()

	root := setupProject(t)
	ctx := testContext(t, root)

	mustRunCurator(t, ctx, "changelog", "add")
	mustRunCurator(t, ctx, "changelog", "add", "1.5.0")

	if got := mustRunCurator(t, ctx, "changelog", "list"); got != "1.4.0\n1.5.0\n" {
		t.Errorf("changelog list = %q", got)
	}

	_, err := runCurator(t, ctx, "changelog", "add", "1.5.0")
	if err == nil {
		t.Fatal("expected duplicate section error")
	}
}

// TestChangelog_Missing tests adding to a project without a changelog.
//
// Scenario: User runs `curator changelog add` without CHANGELOG.md
// Expected: ErrNoChangelog unless create_missing is set
func TestChangelog_Missing(t *testing.T) {
	t.Parallel()

	root := gittest.NewProject(t, gittest.Project{Module: "widgets", Version: "0.1.0"})

	_, err := runCurator(t, testContext(t, root), "changelog", "add")
	if !errors.Is(err, changelog.ErrNoChangelog) {
		t.Fatalf("expected ErrNoChangelog, got %v", err)
	}

	ctx := testContext(t, root, func(cfg *config.Config) { cfg.Changelog.CreateMissing = true })
	mustRunCurator(t, ctx, "changelog", "add")
	if !strings.Contains(readFile(t, root, "CHANGELOG.md"), "## 0.1.0") {
		t.Error("expected created changelog with a 0.1.0 section")
	}
}

// TestHook_Run tests running a configured hook with placeholders.
//
// Scenario: User runs `curator hook stamp -a note=hi`
// Expected: Hook runs in the repo root with {version} and {note} substituted
func TestHook_Run(t *testing.T) {
	t.Parallel()

	root := setupProject(t)
	ctx := testContext(t, root, func(cfg *config.Config) {
		cfg.Hooks = config.HooksConfig{Hooks: map[string]config.Hook{
			"stamp": {Command: "echo {version} {trigger} {note} > stamp.txt", Description: "Write stamp"},
		}}
	})

	out := mustRunCurator(t, ctx, "hook", "stamp", "-a", "note=hi")
	if !strings.Contains(out, "Running hook 'stamp'") || !strings.Contains(out, "Write stamp") {
		t.Errorf("hook progress missing from output: %q", out)
	}

	if got := strings.TrimSpace(readFile(t, root, "stamp.txt")); got != "1.4.0 run hi" {
		t.Errorf("stamp = %q, want %q", got, "1.4.0 run hi")
	}
}

// TestHook_Unknown tests running a hook that is not configured.
//
// Scenario: User runs `curator hook nope`
// Expected: Error naming the missing hook
func TestHook_Unknown(t *testing.T) {
	t.Parallel()

	root := setupProject(t)
	ctx := testContext(t, root)

	_, err := runCurator(t, ctx, "hook", "nope")
	if err == nil || !strings.Contains(err.Error(), "nope") {
		t.Fatalf("expected unknown hook error, got %v", err)
	}
}

// TestHook_RunsOnRelease tests a hook bound to the create trigger.
//
// Scenario: User runs `curator release create 1.5.0` with a create hook configured
// Expected: Hook sees {branch}; --no-hook skips it
func TestHook_RunsOnRelease(t *testing.T) {
	t.Parallel()

	root := setupProject(t)
	out := filepath.Join(gittest.ResolvePath(t, t.TempDir()), "branch.txt")
	ctx := testContext(t, root, func(cfg *config.Config) {
		cfg.Hooks = config.HooksConfig{Hooks: map[string]config.Hook{
			"record": {Command: "echo {branch} > " + out, On: []string{"create"}},
		}}
	})

	mustRunCurator(t, ctx, "release", "create", "1.5.0")
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("hook did not run: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != "release-1.5.0" {
		t.Errorf("hook saw branch %q", got)
	}

	os.Remove(out)
	gittest.Run(t, root, "checkout", "main")
	mustRunCurator(t, ctx, "release", "create", "1.6.0", "--no-hook")
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("--no-hook should skip the hook")
	}
}

// TestConfig_ShowMergesLocal tests that config show merges .curator.toml.
//
// Scenario: User runs `curator config show` in a repo overriding main_branch
// Expected: TOML output with the local main branch
func TestConfig_ShowMergesLocal(t *testing.T) {
	t.Parallel()

	root := setupProject(t)
	gittest.WriteFile(t, root, config.LocalConfigFileName, "main_branch = \"trunk\"\n")
	ctx := testContext(t, root)

	out := mustRunCurator(t, ctx, "config", "show")
	if !strings.Contains(out, `main_branch = "trunk"`) {
		t.Errorf("expected local main branch in:\n%s", out)
	}
	if !strings.Contains(out, `source_dir = "src"`) {
		t.Errorf("expected project section in:\n%s", out)
	}
}

// TestConfig_InitLocal tests writing the per-repo config.
//
// Scenario: User runs `curator config init --local` twice
// Expected: .curator.toml created, second run refused without -f
func TestConfig_InitLocal(t *testing.T) {
	t.Parallel()

	root := setupProject(t)
	ctx := testContext(t, root)

	mustRunCurator(t, ctx, "config", "init", "--local")
	if _, err := os.Stat(filepath.Join(root, config.LocalConfigFileName)); err != nil {
		t.Fatalf("local config not written: %v", err)
	}
	if _, err := runCurator(t, ctx, "config", "init", "--local"); err == nil {
		t.Error("expected error when local config exists")
	}
	mustRunCurator(t, ctx, "config", "init", "--local", "-f")
}

// TestGather tests collecting tree and sources without sphinx.
//
// Scenario: User runs `curator gather` where no docs source exists
// Expected: tree.txt and src.md written, journal records the run
func TestGather(t *testing.T) {
	t.Parallel()

	root := setupProject(t)
	ctx := testContext(t, root, func(cfg *config.Config) {
		cfg.Gather.SphinxCommand = "curator-test-no-sphinx"
	})

	out := mustRunCurator(t, ctx, "gather", "--json")

	var res struct {
		OutputDir string   `json:"output_dir"`
		Files     []string `json:"files"`
		Sources   int      `json:"sources"`
		Warnings  []string `json:"warnings"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if res.OutputDir != filepath.Join(root, config.DefaultGatherDir) {
		t.Errorf("output dir = %q", res.OutputDir)
	}
	if res.Sources != 1 {
		t.Errorf("sources = %d, want 1", res.Sources)
	}
	if len(res.Warnings) == 0 {
		t.Error("expected a warning about the skipped docs")
	}

	tree := readFile(t, root, filepath.Join(config.DefaultGatherDir, "tree.txt"))
	if !strings.Contains(tree, "__init__.py") || strings.Contains(tree, config.DefaultGatherDir) {
		t.Errorf("unexpected tree:\n%s", tree)
	}
	if src := readFile(t, root, filepath.Join(config.DefaultGatherDir, "src.md")); !strings.Contains(src, "__version__") {
		t.Errorf("src.md should hold the module source:\n%s", src)
	}

	journalOut := mustRunCurator(t, ctx, "journal", "--json")
	if !strings.Contains(journalOut, `"gather"`) {
		t.Errorf("expected a gather journal entry:\n%s", journalOut)
	}
}
