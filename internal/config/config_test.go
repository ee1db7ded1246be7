package config

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.MainBranch != "main" {
		t.Errorf("MainBranch = %q, want %q", cfg.MainBranch, "main")
	}
	if cfg.Changelog.Template != "\n## {version}\n\n- Placeholder for changes\n" {
		t.Errorf("Changelog.Template = %q", cfg.Changelog.Template)
	}
	if !cfg.Merge.NoFF {
		t.Error("Merge.NoFF should default to true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestParse_EmptyKeepsDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil) error = %v", err)
	}
	want := Default()
	if !reflect.DeepEqual(cfg.Project, want.Project) || cfg.Release != want.Release || cfg.Merge != want.Merge {
		t.Errorf("Parse(nil) = %+v, want defaults", cfg)
	}
}

func TestParse_Overrides(t *testing.T) {
	content := `
main_branch = "trunk"

[project]
source_dir = "lib"

[release]
branch_format = "release/{version}"

[changelog]
template = """
### {version} ({date})
"""
create_missing = true

[merge]
no_ff = false
`
	cfg, err := Parse([]byte(content))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.MainBranch != "trunk" {
		t.Errorf("MainBranch = %q, want trunk", cfg.MainBranch)
	}
	if cfg.Project.SourceDir != "lib" {
		t.Errorf("SourceDir = %q, want lib", cfg.Project.SourceDir)
	}
	if cfg.Project.MarkerFile != DefaultMarkerFile {
		t.Errorf("MarkerFile = %q, want default kept", cfg.Project.MarkerFile)
	}
	if got := cfg.BranchName("2.0.0"); got != "release/2.0.0" {
		t.Errorf("BranchName() = %q, want release/2.0.0", got)
	}
	if cfg.Changelog.Template != "### {version} ({date})\n" {
		t.Errorf("Template = %q", cfg.Changelog.Template)
	}
	if !cfg.Changelog.CreateMissing {
		t.Error("CreateMissing should be true")
	}
	if cfg.Merge.NoFF {
		t.Error("NoFF should be false when set explicitly")
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad toml", "main_branch = ", "failed to parse"},
		{"branch format without version", "[release]\nbranch_format = \"release\"", "release.branch_format"},
		{"template without version", "[changelog]\ntemplate = \"## next\"", "changelog.template"},
		{"template without section heading", "[changelog]\ntemplate = \"Release {version}\"", "changelog.template"},
		{"relative journal path", "journal_path = \"journal.json\"", "journal_path must be absolute"},
		{"bad extension", "[gather]\nextensions = [\"py\"]", "gather.extensions[0]"},
		{"unknown hook trigger", "[hooks.x]\ncommand = \"true\"\non = [\"push\"]", "hooks.x.on"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseHooksConfig(t *testing.T) {
	disabled := false
	tests := []struct {
		name     string
		raw      map[string]any
		expected HooksConfig
	}{
		{
			name: "full hooks config",
			raw: map[string]any{
				"push": map[string]any{
					"command":     "git push -u origin {branch}",
					"description": "Publish branch",
					"on":          []any{"create", "merge"},
				},
				"notify": map[string]any{
					"command": "notify-send {version}",
				},
			},
			expected: HooksConfig{
				Hooks: map[string]Hook{
					"push": {
						Command:     "git push -u origin {branch}",
						Description: "Publish branch",
						On:          []string{"create", "merge"},
					},
					"notify": {Command: "notify-send {version}"},
				},
			},
		},
		{
			name: "disabled hook",
			raw: map[string]any{
				"push": map[string]any{"enabled": false},
			},
			expected: HooksConfig{
				Hooks: map[string]Hook{"push": {Enabled: &disabled}},
			},
		},
		{
			name:     "nil input",
			raw:      nil,
			expected: HooksConfig{Hooks: map[string]Hook{}},
		},
		{
			name:     "non-table entries ignored",
			raw:      map[string]any{"stray": "value"},
			expected: HooksConfig{Hooks: map[string]Hook{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseHooksConfig(tt.raw)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("parseHooksConfig() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestLoad_FromEnvPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("main_branch = \"develop\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfigPath, path)
	t.Setenv(EnvMainBranch, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.MainBranch != "develop" {
		t.Errorf("MainBranch = %q, want develop", cfg.MainBranch)
	}
}

func TestLoad_EnvMainBranchWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("main_branch = \"develop\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfigPath, path)
	t.Setenv(EnvMainBranch, "master")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.MainBranch != "master" {
		t.Errorf("MainBranch = %q, want master", cfg.MainBranch)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv(EnvConfigPath, filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv(EnvMainBranch, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.MainBranch != DefaultMainBranch {
		t.Errorf("MainBranch = %q, want default", cfg.MainBranch)
	}
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	t.Setenv(EnvConfigPath, path)

	got, err := Init(false)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if got != path {
		t.Errorf("Init() path = %q, want %q", got, path)
	}

	// The written template must parse back to the defaults
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile(template) error = %v", err)
	}
	if cfg.Changelog.Template != DefaultChangelogTemplate {
		t.Errorf("template round trip = %q, want %q", cfg.Changelog.Template, DefaultChangelogTemplate)
	}

	if _, err := Init(false); err == nil {
		t.Error("Init() on existing file should fail without force")
	}
	if _, err := Init(true); err != nil {
		t.Errorf("Init(force) error = %v", err)
	}
}

func TestExpand(t *testing.T) {
	got := Expand("Merge {branch} into {main} {unknown}", map[string]string{"branch": "release-1.0", "main": "main"})
	if want := "Merge release-1.0 into main {unknown}"; got != want {
		t.Errorf("Expand() = %q, want %q", got, want)
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"", false},
		{"~/journal.json", false},
		{"/var/lib/curator.json", false},
		{"journal.json", true},
		{"../journal.json", true},
	}
	for _, tt := range tests {
		if err := ValidatePath(tt.path, "journal_path"); (err != nil) != tt.wantErr {
			t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
	}
}

func TestContext(t *testing.T) {
	if got := FromContext(context.Background()); got.MainBranch != DefaultMainBranch {
		t.Errorf("FromContext(empty) = %+v, want defaults", got)
	}

	cfg := Default()
	cfg.MainBranch = "trunk"
	ctx := WithWorkDir(WithConfig(context.Background(), &cfg), "/work")
	if FromContext(ctx) != &cfg {
		t.Error("FromContext did not return the stored config")
	}
	if WorkDirFromContext(ctx) != "/work" {
		t.Errorf("WorkDirFromContext = %q", WorkDirFromContext(ctx))
	}
}
