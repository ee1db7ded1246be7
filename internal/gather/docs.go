package gather

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"

	"github.com/raphi011/curator/internal/cmd"
)

// BuildDocs renders src into a single-page HTML build in dest.
// Returns built=false and a warning when the source or command is missing.
func BuildDocs(ctx context.Context, command, src, dest string) (bool, string, error) {
	if command == "" {
		return false, "no sphinx command configured", nil
	}
	if info, err := os.Stat(src); err != nil || !info.IsDir() {
		return false, fmt.Sprintf("docs source %s not found", src), nil
	}
	if _, err := exec.LookPath(command); err != nil {
		return false, fmt.Sprintf("%s not found in PATH", command), nil
	}

	if err := cmd.RunContext(ctx, "", command, "-b", "singlehtml", "-D", "html_permalinks=0", src, dest); err != nil {
		return false, "", fmt.Errorf("%s failed: %w", command, err)
	}
	return true, "", nil
}

// PruneDocs removes every regular file in dir except index.html.
// Subdirectories such as _static are kept.
func PruneDocs(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read docs output: %w", err)
	}
	for _, e := range entries {
		if !e.Type().IsRegular() || e.Name() == DocsIndex {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

// ConvertDocs extracts div.document from the HTML file, drops the
// permalink anchors and writes it as ATX-style markdown.
func ConvertDocs(htmlPath, mdPath string) error {
	f, err := os.Open(htmlPath)
	if err != nil {
		return fmt.Errorf("open docs: %w", err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", htmlPath, err)
	}
	doc.Find("a.headerlink").Remove()

	body := doc.Find("div.document").First()
	if body.Length() == 0 {
		return fmt.Errorf("no div.document in %s", htmlPath)
	}

	conv := md.NewConverter("", true, &md.Options{HeadingStyle: "atx"})
	if err := os.WriteFile(mdPath, []byte(conv.Convert(body)+"\n"), 0o644); err != nil {
		return fmt.Errorf("write docs markdown: %w", err)
	}
	return nil
}
