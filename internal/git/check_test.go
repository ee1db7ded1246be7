package git

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/raphi011/curator/internal/git/gittest"
)

func TestCheckGit_Available(t *testing.T) {
	t.Parallel()
	// git must be available in CI and dev environments
	if err := CheckGit(); err != nil {
		t.Fatalf("CheckGit() = %v, want nil (git should be in PATH)", err)
	}
}

func TestShowToplevel(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := gittest.NewRepo(t)
	gittest.WriteFile(t, repo, "src/pkg/__init__.py", "")

	got, err := ShowToplevel(ctx, filepath.Join(repo, "src", "pkg"))
	if err != nil {
		t.Fatalf("ShowToplevel() error = %v", err)
	}
	if got != repo {
		t.Errorf("ShowToplevel() = %q, want %q", got, repo)
	}

	if _, err := ShowToplevel(ctx, gittest.ResolvePath(t, t.TempDir())); !errors.Is(err, ErrNotRepository) {
		t.Errorf("ShowToplevel(outside) error = %v, want ErrNotRepository", err)
	}
}

func TestInit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := gittest.ResolvePath(t, t.TempDir())

	if err := Init(ctx, dir, "main"); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if got := gittest.Run(t, dir, "symbolic-ref", "--short", "HEAD"); got != "main" {
		t.Errorf("HEAD = %q, want main", got)
	}
}
