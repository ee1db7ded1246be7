// Package layout discovers the installable module of a project laid out as
// <root>/<source dir>/[<namespace>/]<module>/, where the module directory
// carries the file holding the version marker.
package layout

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	// ErrNoSourceDir is returned when the source directory does not exist.
	ErrNoSourceDir = errors.New("source directory not found")

	// ErrEmptySourceDir is returned when the source directory has no package directories.
	ErrEmptySourceDir = errors.New("source directory contains no packages")

	// ErrNoModule is returned when no module directory holding the marker file is found.
	ErrNoModule = errors.New("no module found")
)

// Options name the conventional directories and files.
type Options struct {
	SourceDir  string // relative to the root, e.g. "src"
	MarkerFile string // e.g. "__init__.py"
}

// Layout is a discovered project layout. Namespace is empty when the module
// sits directly under the source directory.
type Layout struct {
	Root      string `json:"root"`
	SourceDir string `json:"source_dir"`
	Namespace string `json:"namespace,omitempty"`
	Module    string `json:"module"`
}

// ModuleDir returns the absolute module directory.
func (l Layout) ModuleDir() string {
	return filepath.Join(l.Root, l.SourceDir, l.Namespace, l.Module)
}

// MarkerPath returns the absolute path of the marker file inside the module.
func (l Layout) MarkerPath(markerFile string) string {
	return filepath.Join(l.ModuleDir(), markerFile)
}

// ImportPath returns the dotted import path, e.g. "acme.widgets".
func (l Layout) ImportPath() string {
	if l.Namespace == "" {
		return l.Module
	}
	return l.Namespace + "." + l.Module
}

// Discover finds the module under root.
//
// Children of the source directory are considered in name order. If the
// first one holds the marker file it is the module; otherwise it is taken as
// a namespace and its first child directory is the module.
func Discover(root string, opts Options) (Layout, error) {
	srcDir := filepath.Join(root, opts.SourceDir)
	info, err := os.Stat(srcDir)
	if err != nil || !info.IsDir() {
		return Layout{}, fmt.Errorf("%w: %s", ErrNoSourceDir, srcDir)
	}

	children, err := packageDirs(srcDir)
	if err != nil {
		return Layout{}, err
	}
	if len(children) == 0 {
		return Layout{}, fmt.Errorf("%w: %s", ErrEmptySourceDir, srcDir)
	}

	l := Layout{Root: root, SourceDir: opts.SourceDir}
	first := children[0]

	if hasFile(filepath.Join(srcDir, first), opts.MarkerFile) {
		l.Module = first
		return l, nil
	}

	l.Namespace = first
	nested, err := packageDirs(filepath.Join(srcDir, first))
	if err != nil {
		return Layout{}, err
	}
	if len(nested) == 0 {
		return Layout{}, fmt.Errorf("%w: %s has no %s and no sub-package", ErrNoModule, filepath.Join(srcDir, first), opts.MarkerFile)
	}

	l.Module = nested[0]
	if !hasFile(l.ModuleDir(), opts.MarkerFile) {
		return Layout{}, fmt.Errorf("%w: %s has no %s", ErrNoModule, l.ModuleDir(), opts.MarkerFile)
	}
	return l, nil
}

// packageDirs lists candidate package directories of dir in name order.
func packageDirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() || skipDir(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// skipDir reports whether a directory can never be a package.
func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") ||
		name == "__pycache__" ||
		strings.HasSuffix(name, ".egg-info") ||
		strings.HasSuffix(name, ".dist-info")
}

func hasFile(dir, name string) bool {
	info, err := os.Stat(filepath.Join(dir, name))
	return err == nil && !info.IsDir()
}
