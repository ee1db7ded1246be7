package styles

import (
	"bytes"
	"strings"
	"testing"

	"charm.land/lipgloss/v2"

	"github.com/raphi011/curator/internal/config"
)

func dark() bool  { return true }
func light() bool { return false }

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     config.ThemeConfig
		isDark  func() bool
		primary string
	}{
		{"default", config.ThemeConfig{}, dark, "62"},
		{"default has no light variant", config.ThemeConfig{}, light, "62"},
		{"nord auto dark", config.ThemeConfig{Name: "nord"}, dark, "#88c0d0"},
		{"nord auto light", config.ThemeConfig{Name: "nord"}, light, "#5e81ac"},
		{"gruvbox forced light", config.ThemeConfig{Name: "gruvbox", Mode: "light"}, dark, "#076678"},
		{"catppuccin forced dark", config.ThemeConfig{Name: "catppuccin", Mode: "dark"}, light, "#89b4fa"},
		{"dracula forced light falls back", config.ThemeConfig{Name: "dracula", Mode: "light"}, dark, "#bd93f9"},
		{"override", config.ThemeConfig{Name: "dracula", Primary: "#123456"}, dark, "#123456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var warn bytes.Buffer
			got := Resolve(tt.cfg, tt.isDark, &warn)
			if got.Primary != lipgloss.Color(tt.primary) {
				t.Errorf("Primary = %v, want %v", got.Primary, lipgloss.Color(tt.primary))
			}
			if warn.Len() != 0 {
				t.Errorf("unexpected warning: %s", warn.String())
			}
		})
	}
}

func TestResolveWarnings(t *testing.T) {
	t.Parallel()

	var warn bytes.Buffer
	got := Resolve(config.ThemeConfig{Name: "solarized", Mode: "dim"}, dark, &warn)

	if got.Primary != DefaultTheme.Primary {
		t.Errorf("unknown theme should fall back to default, got %v", got.Primary)
	}
	for _, want := range []string{`unknown theme "solarized"`, `unknown theme mode "dim"`} {
		if !strings.Contains(warn.String(), want) {
			t.Errorf("warnings %q missing %q", warn.String(), want)
		}
	}
}

func TestResolveNone(t *testing.T) {
	t.Parallel()

	got := Resolve(config.ThemeConfig{Name: "none"}, light, &bytes.Buffer{})
	if _, ok := got.Accent.(lipgloss.NoColor); !ok {
		t.Errorf("Accent = %T, want lipgloss.NoColor", got.Accent)
	}
}

func TestSetNerdfont(t *testing.T) {
	SetNerdfont(true)
	if CurrentSymbols().Tag != "\uf412" {
		t.Errorf("nerdfont tag symbol = %q", CurrentSymbols().Tag)
	}
	SetNerdfont(false)
	if CurrentSymbols().Active != "*" {
		t.Errorf("plain active symbol = %q", CurrentSymbols().Active)
	}
	if BranchMarker(false) != " " {
		t.Errorf("BranchMarker(false) = %q", BranchMarker(false))
	}
}
