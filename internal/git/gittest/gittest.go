// Package gittest builds throwaway git repositories for tests.
package gittest

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// ResolvePath resolves symlinks in a path.
// This is needed on macOS where /var is a symlink to /private/var.
func ResolvePath(t testing.TB, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatalf("failed to resolve path %s: %v", path, err)
	}
	return resolved
}

// Run runs git with args in dir and returns trimmed stdout.
func Run(t testing.TB, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		var stderr string
		if exitErr, ok := err.(*exec.ExitError); ok {
			stderr = string(exitErr.Stderr)
		}
		t.Fatalf("git %v failed: %v\n%s", args, err, stderr)
	}
	return strings.TrimSpace(string(out))
}

// NewEmptyRepo creates a repository on an unborn main branch.
func NewEmptyRepo(t testing.TB) string {
	t.Helper()
	repoPath := filepath.Join(ResolvePath(t, t.TempDir()), "repo")
	if err := os.MkdirAll(repoPath, 0755); err != nil {
		t.Fatalf("failed to create repo dir: %v", err)
	}

	Run(t, repoPath, "init", "-b", "main")
	for _, args := range [][]string{
		{"config", "user.email", "test@test.com"},
		{"config", "user.name", "Test User"},
		{"config", "commit.gpgsign", "false"},
		{"config", "tag.gpgsign", "false"},
	} {
		Run(t, repoPath, args...)
	}
	return repoPath
}

// NewRepo creates a repository on main with one commit adding README.md.
func NewRepo(t testing.TB) string {
	t.Helper()
	repoPath := NewEmptyRepo(t)
	CommitFile(t, repoPath, "README.md", "# test\n", "Initial commit")
	return repoPath
}

// WriteFile writes content to root/rel, creating parent directories.
func WriteFile(t testing.TB, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", rel, err)
	}
	return path
}

// CommitFile writes rel and commits it with msg.
func CommitFile(t testing.TB, root, rel, content, msg string) {
	t.Helper()
	WriteFile(t, root, rel, content)
	Run(t, root, "add", rel)
	Run(t, root, "commit", "-m", msg)
}

// Project describes the python-style layout NewProject commits.
type Project struct {
	Namespace string // optional directory between src/ and the module
	Module    string
	Version   string
	Changelog bool // commit a CHANGELOG.md
}

// NewProject creates a repository holding src/[namespace/]module/__init__.py
// with a __version__ marker, committed on main.
func NewProject(t testing.TB, p Project) string {
	t.Helper()
	root := NewRepo(t)

	rel := filepath.Join("src", p.Namespace, p.Module, "__init__.py")
	WriteFile(t, root, rel, "\"\"\"Test package.\"\"\"\n\n__version__ = '"+p.Version+"'\n")
	if p.Changelog {
		WriteFile(t, root, "CHANGELOG.md", "# Changelog\n")
	}
	Run(t, root, "add", "--all")
	Run(t, root, "commit", "-m", "Add package")
	return root
}
