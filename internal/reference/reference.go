// Package reference writes reStructuredText reference pages for GitHub
// repositories into a documentation tree.
package reference

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"

	"github.com/raphi011/curator/internal/github"
	"github.com/raphi011/curator/internal/log"
)

const (
	IndexFile = "index.rst"
	NotesFile = "notes.rst"
)

// Client fetches repository data. *github.CLI implements it.
type Client interface {
	Repo(ctx context.Context, spec string) (github.Repo, error)
	LatestRelease(ctx context.Context, spec string) (string, error)
	Readme(ctx context.Context, spec string) (github.Readme, error)
}

var _ Client = (*github.CLI)(nil)

// Options configures Save.
type Options struct {
	OutputDir string // parent of the per-repository directory
	Overwrite bool   // replace an existing notes.rst
}

// Result lists what Save wrote.
type Result struct {
	Slug     string
	Dir      string
	Files    []string
	Warnings []string
}

// Page is everything rendered into index.rst.
type Page struct {
	Slug          string
	Repo          github.Repo
	LatestRelease string
	ReadmeName    string
}

// Save fetches spec ("owner/name") and writes its reference pages.
func Save(ctx context.Context, client Client, spec string, opts Options) (Result, error) {
	if err := github.ValidateSpec(spec); err != nil {
		return Result{}, err
	}
	l := log.FromContext(ctx)

	repo, err := client.Repo(ctx, spec)
	if err != nil {
		return Result{}, err
	}
	if repo.NameWithOwner == "" {
		repo.NameWithOwner = spec
	}

	var res Result
	page := Page{Repo: repo, Slug: slug.Make(repo.NameWithOwner)}

	if page.LatestRelease, err = client.LatestRelease(ctx, spec); err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("latest release: %v", err))
	}

	readme, err := client.Readme(ctx, spec)
	switch {
	case errors.Is(err, github.ErrNoReadme):
		res.Warnings = append(res.Warnings, "repository has no README")
	case err != nil:
		res.Warnings = append(res.Warnings, fmt.Sprintf("readme: %v", err))
	default:
		page.ReadmeName = readme.Name
	}

	res.Slug = page.Slug
	res.Dir = filepath.Join(opts.OutputDir, page.Slug)
	if err := os.MkdirAll(res.Dir, 0755); err != nil {
		return Result{}, fmt.Errorf("failed to create %s: %w", res.Dir, err)
	}

	write := func(name, content string) error {
		path := filepath.Join(res.Dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		res.Files = append(res.Files, path)
		return nil
	}

	if err := write(IndexFile, RenderIndex(page)); err != nil {
		return Result{}, err
	}

	notesPath := filepath.Join(res.Dir, NotesFile)
	if _, statErr := os.Stat(notesPath); statErr == nil && !opts.Overwrite {
		l.Debug("keeping existing notes", "path", notesPath)
	} else if err := write(NotesFile, "notes\n-----\n\n"); err != nil {
		return Result{}, err
	}

	if page.ReadmeName != "" {
		if err := write(page.ReadmeName, RenderReadme(readme)); err != nil {
			return Result{}, err
		}
	}

	return res, nil
}

// RenderIndex renders the index.rst page.
func RenderIndex(p Page) string {
	r := p.Repo
	title := r.NameWithOwner

	var b strings.Builder
	fmt.Fprintf(&b, ".. _%s:\n\n", p.Slug)
	fmt.Fprintf(&b, "%s\n%s\n\n", title, strings.Repeat("=", len(title)))

	field := func(name, value string) {
		fmt.Fprintf(&b, ":%s: %s\n", name, value)
	}
	field("description", r.Description)
	field("url", r.URL)
	field("sshUrl", r.SSHURL)
	field("homepage", r.HomepageURL)
	if r.CreatedAt.IsZero() {
		field("created_at", "")
	} else {
		field("created_at", r.CreatedAt.Format("2006-01-02"))
	}
	field("language", r.Language())
	field("stars", fmt.Sprint(r.StargazerCount))
	field("license", r.License())
	field("latest_release", p.LatestRelease)

	b.WriteString("\n.. toctree::\n   :maxdepth: 1\n\n")
	if p.ReadmeName != "" {
		fmt.Fprintf(&b, "   %s\n", p.ReadmeName)
	}
	b.WriteString("\n.. include:: notes.rst\n")
	return b.String()
}

// RenderReadme prefixes the README with a heading in its own markup.
func RenderReadme(r github.Readme) string {
	if strings.EqualFold(filepath.Ext(r.Name), ".rst") {
		return fmt.Sprintf("%s\n%s\n\n%s", r.Name, strings.Repeat("-", len(r.Name)), r.Content)
	}
	return fmt.Sprintf("# %s\n\n%s", r.Name, r.Content)
}
