// Package changelog appends release sections to a markdown changelog.
package changelog

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"
)

var (
	// ErrNoChangelog is returned when the changelog file does not exist.
	ErrNoChangelog = errors.New("changelog not found")

	// ErrDuplicateSection is returned when a section for the version already exists.
	ErrDuplicateSection = errors.New("changelog already has a section for this version")
)

// DefaultHeading starts a changelog created from scratch.
const DefaultHeading = "# Changelog\n"

// heading matches "## 1.2.0", "### [1.2.0] - 2024-01-01" and "## v1.2.0".
// Level one is the document title and subsections like "### Added" carry
// no version.
var heading = regexp.MustCompile(`^#{2,6}\s+\[?v?(\d[^\]\s]*)\]?`)

// Entry is one release section.
type Entry struct {
	Version string
	Date    time.Time
}

// Options controls how sections are rendered and written.
type Options struct {
	Template      string // placeholders {version} and {date}
	CreateMissing bool
}

// Render expands the template for e.
func Render(template string, e Entry) string {
	return strings.NewReplacer(
		"{version}", e.Version,
		"{date}", e.Date.Format(time.DateOnly),
	).Replace(template)
}

// Append adds the rendered section for e to the end of the changelog at path.
// A missing file is an error unless opts.CreateMissing is set.
func Append(path string, e Entry, opts Options) error {
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("stat changelog: %w", err)
		}
		if !opts.CreateMissing {
			return fmt.Errorf("%w: %s", ErrNoChangelog, path)
		}
		if err := os.WriteFile(path, []byte(DefaultHeading), 0644); err != nil {
			return fmt.Errorf("create changelog: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("open changelog: %w", err)
	}
	if _, err := f.WriteString(Render(opts.Template, e)); err != nil {
		f.Close()
		return fmt.Errorf("write changelog: %w", err)
	}
	return f.Close()
}

// Versions returns the versions of all section headings in file order.
// A missing file yields ErrNoChangelog.
func Versions(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoChangelog, path)
		}
		return nil, fmt.Errorf("read changelog: %w", err)
	}
	return sectionVersions(string(data)), nil
}

func sectionVersions(text string) []string {
	var versions []string
	for line := range strings.Lines(text) {
		if m := heading.FindStringSubmatch(strings.TrimRight(line, "\r\n")); m != nil {
			versions = append(versions, m[1])
		}
	}
	return versions
}

// CheckTemplate verifies that template renders a section heading Versions
// reads back as the version, so duplicate sections can be detected.
func CheckTemplate(template string) error {
	const sample = "0.0.0"
	versions := sectionVersions(Render(template, Entry{Version: sample, Date: time.Now()}))
	if len(versions) == 0 || versions[0] != sample {
		return errors.New(`must render a "## {version}" heading`)
	}
	return nil
}

// HasSection reports whether the changelog already has a section for version.
// A missing file has no sections.
func HasSection(path, version string) (bool, error) {
	versions, err := Versions(path)
	if errors.Is(err, ErrNoChangelog) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	want := strings.TrimPrefix(version, "v")
	for _, v := range versions {
		if v == want {
			return true, nil
		}
	}
	return false, nil
}
