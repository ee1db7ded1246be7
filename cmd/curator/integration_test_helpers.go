//go:build integration

package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raphi011/curator/internal/config"
	"github.com/raphi011/curator/internal/git/gittest"
	"github.com/raphi011/curator/internal/log"
	"github.com/raphi011/curator/internal/output"
)

// testContext returns a context with a default config whose journal and log
// live in a temp dir, started from workDir.
func testContext(t *testing.T, workDir string, configure ...func(*config.Config)) context.Context {
	t.Helper()

	state := gittest.ResolvePath(t, t.TempDir())
	cfg := config.Default()
	cfg.JournalPath = filepath.Join(state, "journal.json")
	cfg.LogFile = filepath.Join(state, "curator.log")
	cfg.Theme.Name = "none"
	for _, fn := range configure {
		fn(&cfg)
	}

	ctx := context.Background()
	ctx = config.WithConfig(ctx, &cfg)
	ctx = config.WithWorkDir(ctx, workDir)
	ctx = log.WithLogger(ctx, log.New(io.Discard, false, true))
	return ctx
}

// runCurator executes the command line args against a fresh command tree
// and returns what was written to stdout.
func runCurator(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	ctx = output.WithPrinter(ctx, &out)

	root := newRootCmd()
	root.SetArgs(append([]string{"--quiet"}, args...))
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(ctx)
	return out.String(), err
}

// mustRunCurator is runCurator failing the test on error.
func mustRunCurator(t *testing.T, ctx context.Context, args ...string) string {
	t.Helper()
	out, err := runCurator(t, ctx, args...)
	if err != nil {
		t.Fatalf("curator %s: %v", strings.Join(args, " "), err)
	}
	return out
}

// setupProject creates a committed project with src/acme/widgets at 1.4.0
// and a changelog.
func setupProject(t *testing.T) string {
	t.Helper()
	return gittest.NewProject(t, gittest.Project{Namespace: "acme", Module: "widgets", Version: "1.4.0", Changelog: true})
}

// readFile returns the content of root/rel.
func readFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, rel))
	if err != nil {
		t.Fatalf("failed to read %s: %v", rel, err)
	}
	return string(data)
}

const markerFile = "src/acme/widgets/__init__.py"
