package hooks

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/raphi011/curator/internal/config"
)

func TestSubstitutePlaceholders(t *testing.T) {
	hc := Context{
		Root:    "/home/user/widgets",
		Branch:  "release-1.2.0",
		Version: "1.2.0",
		Tag:     "v1.2.0",
		Main:    "main",
		Trigger: TriggerTag,
	}

	tests := []struct {
		name     string
		command  string
		expected string
	}{
		{
			name:     "single placeholder",
			command:  "git push origin {branch}",
			expected: "git push origin 'release-1.2.0'",
		},
		{
			name:     "all placeholders",
			command:  "{root} {branch} {version} {tag} {main} {trigger}",
			expected: "'/home/user/widgets' 'release-1.2.0' '1.2.0' 'v1.2.0' 'main' 'tag'",
		},
		{
			name:     "no placeholders",
			command:  "echo hello",
			expected: "echo hello",
		},
		{
			name:     "repeated placeholder",
			command:  "{tag} and {tag}",
			expected: "'v1.2.0' and 'v1.2.0'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SubstitutePlaceholders(tt.command, hc); got != tt.expected {
				t.Errorf("SubstitutePlaceholders(%q) = %q, want %q", tt.command, got, tt.expected)
			}
		})
	}
}

func TestSubstitutePlaceholders_ShellEscaping(t *testing.T) {
	hc := Context{Branch: "it's; rm -rf /", Env: map[string]string{"msg": "$(whoami)"}}

	if got := SubstitutePlaceholders("echo {branch}", hc); got != `echo 'it'\''s; rm -rf /'` {
		t.Errorf("branch not escaped: %q", got)
	}
	if got := SubstitutePlaceholders("echo {msg}", hc); got != `echo '$(whoami)'` {
		t.Errorf("env not escaped: %q", got)
	}
}

func TestSubstitutePlaceholders_Env(t *testing.T) {
	hc := Context{Env: map[string]string{"channel": "releases", "note": "a b"}}

	tests := []struct {
		command  string
		expected string
	}{
		{"notify {channel}", "notify 'releases'"},
		{`notify "{note:raw}"`, `notify "a b"`},
		{"notify {missing:-general}", "notify 'general'"},
		{"notify {missing}", "notify ''"},
		{"notify {missing:raw}", "notify "},
	}
	for _, tt := range tests {
		if got := SubstitutePlaceholders(tt.command, hc); got != tt.expected {
			t.Errorf("SubstitutePlaceholders(%q) = %q, want %q", tt.command, got, tt.expected)
		}
	}
}

func TestSelect(t *testing.T) {
	cfg := config.HooksConfig{Hooks: map[string]config.Hook{
		"push":    {Command: "git push", On: []string{"create"}},
		"publish": {Command: "git push --tags", On: []string{"tag"}},
		"notify":  {Command: "notify", On: []string{"all"}},
		"manual":  {Command: "make docs"},
	}}

	tests := []struct {
		name     string
		hookName string
		noHook   bool
		trigger  Trigger
		want     []string
		wantErr  bool
	}{
		{name: "create", trigger: TriggerCreate, want: []string{"notify", "push"}},
		{name: "tag", trigger: TriggerTag, want: []string{"notify", "publish"}},
		{name: "merge only all", trigger: TriggerMerge, want: []string{"notify"}},
		{name: "explicit ignores on", hookName: "manual", trigger: TriggerMerge, want: []string{"manual"}},
		{name: "no-hook", noHook: true, trigger: TriggerCreate},
		{name: "unknown", hookName: "deploy", trigger: TriggerCreate, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches, err := Select(cfg, tt.hookName, tt.noHook, tt.trigger)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Select() error = %v, wantErr %v", err, tt.wantErr)
			}
			var got []string
			for _, m := range matches {
				got = append(got, m.Name)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Select() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRunner_Run(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	r := Runner{Out: &out, Err: &out}

	m := Match{Name: "mark", Hook: config.Hook{Command: "echo {version} > marker.txt", Description: "Wrote marker"}}
	if err := r.Run(context.Background(), m, Context{Root: dir, Version: "2.0.0"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "marker.txt"))
	if err != nil {
		t.Fatalf("hook did not run in root: %v", err)
	}
	if strings.TrimSpace(string(data)) != "2.0.0" {
		t.Errorf("marker = %q", data)
	}
	if !strings.Contains(out.String(), "Running hook 'mark'") || !strings.Contains(out.String(), "Wrote marker") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunner_DryRun(t *testing.T) {
	var out bytes.Buffer
	r := Runner{Out: &out}
	m := Match{Name: "push", Hook: config.Hook{Command: "git push origin {branch}"}}

	if err := r.Run(context.Background(), m, Context{Branch: "release-1.0.0", DryRun: true}); err != nil {
		t.Fatal(err)
	}
	if want := "[dry-run] push: git push origin 'release-1.0.0'\n"; out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestRunner_Failures(t *testing.T) {
	var out bytes.Buffer
	r := Runner{Out: &out, Err: &out}
	matches := []Match{
		{Name: "a-fails", Hook: config.Hook{Command: "exit 3"}},
		{Name: "b-ok", Hook: config.Hook{Command: "true"}},
	}
	hc := Context{Root: t.TempDir(), Trigger: TriggerMerge}

	if err := r.RunAll(context.Background(), matches, hc); err == nil || !strings.Contains(err.Error(), `"a-fails"`) {
		t.Errorf("RunAll() error = %v, want failure naming a-fails", err)
	}
	if failed := r.RunAllNonFatal(context.Background(), matches, hc); failed != 1 {
		t.Errorf("RunAllNonFatal() failed = %d, want 1", failed)
	}
}

func TestParseEnv(t *testing.T) {
	got, err := ParseEnv([]string{"a=1", "b=x=y", "c="})
	if err != nil {
		t.Fatalf("ParseEnv() error = %v", err)
	}
	want := map[string]string{"a": "1", "b": "x=y", "c": ""}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseEnv() = %v, want %v", got, want)
	}

	for _, bad := range []string{"novalue", "=x"} {
		if _, err := ParseEnv([]string{bad}); err == nil {
			t.Errorf("ParseEnv(%q) should fail", bad)
		}
	}
}
