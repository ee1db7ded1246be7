package gather

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/raphi011/curator/internal/layout"
)

const initFile = "__init__.py"

// GatherSources writes every file under root/sourceDir with one of exts into
// out as markdown: a "## <path>" heading per file followed by a fenced
// block. Package __init__.py files come first. Returns the file count.
func GatherSources(root, sourceDir string, exts []string, out string) (int, error) {
	dir := resolve(root, sourceDir)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return 0, fmt.Errorf("%w: %s", layout.ErrNoSourceDir, dir)
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if hasExt(d.Name(), exts) {
			r, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			files = append(files, filepath.ToSlash(r))
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("walk %s: %w", dir, err)
	}

	sort.Slice(files, func(i, j int) bool {
		ii, ji := isInit(files[i]), isInit(files[j])
		if ii != ji {
			return ii
		}
		return files[i] < files[j]
	})

	var b strings.Builder
	for _, f := range files {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(f)))
		if err != nil {
			return 0, err
		}
		fmt.Fprintf(&b, "## %s\n\n```%s\n%s\n```\n\n", f, fenceLang(f), data)
	}

	if err := os.WriteFile(out, []byte(b.String()), 0o644); err != nil {
		return 0, fmt.Errorf("write sources: %w", err)
	}
	return len(files), nil
}

func isInit(path string) bool {
	return strings.HasSuffix(path, initFile)
}

func hasExt(name string, exts []string) bool {
	ext := filepath.Ext(name)
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// skipDir reports directories never holding project sources
func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "__pycache__" || strings.HasSuffix(name, ".egg-info")
}

func fenceLang(path string) string {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "text"
	}
	return ext
}
