package changelog

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

var release = Entry{Version: "1.2.0", Date: time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)}

const placeholder = "\n## {version}\n\n- Placeholder for changes\n"

func TestRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		template string
		want     string
	}{
		{placeholder, "\n## 1.2.0\n\n- Placeholder for changes\n"},
		{"\n## [{version}] - {date}\n", "\n## [1.2.0] - 2024-03-09\n"},
		{"no placeholders\n", "no placeholders\n"},
	}
	for _, tt := range tests {
		if got := Render(tt.template, release); got != tt.want {
			t.Errorf("Render(%q) = %q, want %q", tt.template, got, tt.want)
		}
	}
}

func TestAppend(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "CHANGELOG.md")
	if err := os.WriteFile(path, []byte("# Changelog\n\n## 1.1.0\n\n- Fixed things\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Append(path, release, Options{Template: placeholder}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "# Changelog\n\n## 1.1.0\n\n- Fixed things\n\n## 1.2.0\n\n- Placeholder for changes\n"
	if got := string(data); got != want {
		t.Errorf("changelog = %q, want %q", got, want)
	}
}

func TestAppend_Missing(t *testing.T) {
	t.Parallel()

	t.Run("error by default", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "CHANGELOG.md")
		err := Append(path, release, Options{Template: placeholder})
		if !errors.Is(err, ErrNoChangelog) {
			t.Fatalf("Append() error = %v, want ErrNoChangelog", err)
		}
		if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
			t.Error("Append() should not create the file")
		}
	})

	t.Run("created when allowed", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "CHANGELOG.md")
		if err := Append(path, release, Options{Template: placeholder, CreateMissing: true}); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
		data, _ := os.ReadFile(path)
		want := "# Changelog\n\n## 1.2.0\n\n- Placeholder for changes\n"
		if string(data) != want {
			t.Errorf("changelog = %q, want %q", data, want)
		}
	})
}

func TestVersions(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "CHANGELOG.md")
	content := "# Changelog\n\n## [2.0.0] - 2024-05-01\n\n### Added\n\n## v1.1.0\n\n## 1.0.0\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := Versions(path)
	if err != nil {
		t.Fatalf("Versions() error = %v", err)
	}
	if want := []string{"2.0.0", "1.1.0", "1.0.0"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Versions() = %v, want %v", got, want)
	}

	for version, want := range map[string]bool{"1.1.0": true, "v2.0.0": true, "3.0.0": false} {
		if has, err := HasSection(path, version); err != nil || has != want {
			t.Errorf("HasSection(%q) = %v, %v; want %v", version, has, err, want)
		}
	}
}

func TestHasSection_MissingFile(t *testing.T) {
	t.Parallel()
	has, err := HasSection(filepath.Join(t.TempDir(), "nope.md"), "1.0.0")
	if err != nil || has {
		t.Errorf("HasSection(missing) = %v, %v; want false, nil", has, err)
	}
}

func TestHasSection_DeeperHeadings(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "CHANGELOG.md")
	if err := os.WriteFile(path, []byte(DefaultHeading), 0644); err != nil {
		t.Fatal(err)
	}
	opts := Options{Template: "\n### {version} ({date})\n\n- Placeholder for changes\n"}
	if err := Append(path, release, opts); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	has, err := HasSection(path, "1.2.0")
	if err != nil || !has {
		t.Errorf("HasSection(1.2.0) = %v, %v; want true, nil", has, err)
	}
}

func TestHasSection_LongLine(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "CHANGELOG.md")
	badge := "![build](data:image/png;base64," + strings.Repeat("A", 70*1024) + ")"
	content := "# Changelog\n\n" + badge + "\n\n## 1.1.0\n\n- Fixed things\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	has, err := HasSection(path, "1.1.0")
	if err != nil || !has {
		t.Errorf("HasSection(1.1.0) = %v, %v; want true, nil", has, err)
	}
}

func TestCheckTemplate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		template string
		wantErr  bool
	}{
		{placeholder, false},
		{"\n### [{version}] - {date}\n", false},
		{"\n## v{version}\n", false},
		{"\n## next\n", true},
		{"\nRelease {version}\n", true},
		{"\n# {version}\n", true},
		{"\n## Release {version}\n", true},
	}
	for _, tt := range tests {
		if err := CheckTemplate(tt.template); (err != nil) != tt.wantErr {
			t.Errorf("CheckTemplate(%q) error = %v, wantErr %v", tt.template, err, tt.wantErr)
		}
	}
}
