// Package gather collects a project's layout, sources and rendered
// documentation into one output directory (".clerk" by default) so they can
// be read or shared as a handful of plain files.
package gather

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/raphi011/curator/internal/log"
)

// Output file names inside the output directory.
const (
	TreeFile     = "tree.txt"
	SourceFile   = "src.md"
	DocsDir      = "docs"
	DocsIndex    = "index.html"
	DocsMarkdown = "docs.md"
)

// Lister lists the files of a work tree, honoring .gitignore.
type Lister interface {
	Root() string
	ListFiles(ctx context.Context) ([]string, error)
}

// Options configure a gather run. Relative paths are resolved against the
// repository root.
type Options struct {
	OutputDir     string
	SourceDir     string
	DocsSource    string
	SphinxCommand string
	Extensions    []string
}

// Result lists what was written.
type Result struct {
	OutputDir string   `json:"output_dir"`
	Files     []string `json:"files"`
	Sources   int      `json:"sources"`
	Warnings  []string `json:"warnings,omitempty"`
}

// Run writes the tree listing, builds and prunes the docs, gathers sources
// and converts the docs to markdown. A missing docs source or sphinx
// command skips the docs steps with a warning; any other failure stops.
func Run(ctx context.Context, repo Lister, opts Options) (Result, error) {
	l := log.FromContext(ctx)
	root := repo.Root()
	outDir := resolve(root, opts.OutputDir)
	res := Result{OutputDir: outDir}

	if err := os.MkdirAll(filepath.Join(outDir, DocsDir), 0o755); err != nil {
		return res, fmt.Errorf("create output directory: %w", err)
	}

	files, err := repo.ListFiles(ctx)
	if err != nil {
		return res, err
	}
	treePath := filepath.Join(outDir, TreeFile)
	if err := os.WriteFile(treePath, []byte(RenderTree(root, excludeDir(files, rel(root, outDir)))), 0o644); err != nil {
		return res, fmt.Errorf("write tree: %w", err)
	}
	res.Files = append(res.Files, treePath)
	l.Debug("wrote tree", "path", treePath, "files", len(files))

	docsOut := filepath.Join(outDir, DocsDir)
	built, warning, err := BuildDocs(ctx, opts.SphinxCommand, resolve(root, opts.DocsSource), docsOut)
	if err != nil {
		return res, err
	}
	if warning != "" {
		res.Warnings = append(res.Warnings, warning)
		l.Warn("skipping docs", "reason", warning)
	}
	if built {
		if err := PruneDocs(docsOut); err != nil {
			return res, err
		}
	}

	srcPath := filepath.Join(outDir, SourceFile)
	n, err := GatherSources(root, opts.SourceDir, opts.Extensions, srcPath)
	if err != nil {
		return res, err
	}
	res.Sources = n
	res.Files = append(res.Files, srcPath)
	l.Debug("gathered sources", "path", srcPath, "count", n)

	if built {
		mdPath := filepath.Join(docsOut, DocsMarkdown)
		if err := ConvertDocs(filepath.Join(docsOut, DocsIndex), mdPath); err != nil {
			return res, err
		}
		res.Files = append(res.Files, filepath.Join(docsOut, DocsIndex), mdPath)
	}

	return res, nil
}

func resolve(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// rel returns path relative to root in slash form, or "" when outside it.
func rel(root, path string) string {
	r, err := filepath.Rel(root, path)
	if err != nil || r == "." || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return ""
	}
	return filepath.ToSlash(r)
}

// excludeDir drops files below dir.
func excludeDir(files []string, dir string) []string {
	if dir == "" {
		return files
	}
	prefix := dir + "/"
	var out []string
	for _, f := range files {
		if strings.HasPrefix(f, prefix) {
			continue
		}
		out = append(out, f)
	}
	return out
}
