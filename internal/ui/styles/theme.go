package styles

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/raphi011/curator/internal/config"
)

// Theme defines the color palette for UI components
type Theme struct {
	Primary color.Color // borders, titles
	Accent  color.Color // selected items, active branch
	Success color.Color // success notifications
	Error   color.Color // error notifications
	Muted   color.Color // hints, inactive text
	Normal  color.Color // standard text
	Info    color.Color // informational text
	Warning color.Color // warnings, version downgrades
}

// palette lists colors in Theme field order.
func palette(primary, accent, success, errc, muted, normal, info, warning string) Theme {
	return Theme{
		Primary: lipgloss.Color(primary),
		Accent:  lipgloss.Color(accent),
		Success: lipgloss.Color(success),
		Error:   lipgloss.Color(errc),
		Muted:   lipgloss.Color(muted),
		Normal:  lipgloss.Color(normal),
		Info:    lipgloss.Color(info),
		Warning: lipgloss.Color(warning),
	}
}

var (
	DefaultTheme         = palette("62", "212", "82", "196", "240", "252", "244", "214")
	DraculaTheme         = palette("#bd93f9", "#ff79c6", "#50fa7b", "#ff5555", "#6272a4", "#f8f8f2", "#8be9fd", "#ffb86c")
	NordTheme            = palette("#88c0d0", "#b48ead", "#a3be8c", "#bf616a", "#4c566a", "#eceff4", "#81a1c1", "#ebcb8b")
	NordLightTheme       = palette("#5e81ac", "#b48ead", "#a3be8c", "#bf616a", "#9a9a9a", "#2e3440", "#81a1c1", "#d08770")
	GruvboxTheme         = palette("#83a598", "#d3869b", "#b8bb26", "#fb4934", "#665c54", "#ebdbb2", "#8ec07c", "#fabd2f")
	GruvboxLightTheme    = palette("#076678", "#8f3f71", "#79740e", "#9d0006", "#928374", "#3c3836", "#427b58", "#b57614")
	CatppuccinMochaTheme = palette("#89b4fa", "#f5c2e7", "#a6e3a1", "#f38ba8", "#6c7086", "#cdd6f4", "#94e2d5", "#fab387")
	CatppuccinLatteTheme = palette("#1e66f5", "#ea76cb", "#40a02b", "#d20f39", "#9ca0b0", "#4c4f69", "#179299", "#fe640b")

	// NoneTheme keeps bold/italic/underline but uses terminal default colors.
	NoneTheme = Theme{
		Primary: lipgloss.NoColor{},
		Accent:  lipgloss.NoColor{},
		Success: lipgloss.NoColor{},
		Error:   lipgloss.NoColor{},
		Muted:   lipgloss.NoColor{},
		Normal:  lipgloss.NoColor{},
		Info:    lipgloss.NoColor{},
		Warning: lipgloss.NoColor{},
	}
)

// variants holds the dark and light version of a theme; either may be nil.
type variants struct {
	dark, light *Theme
}

var presets = map[string]variants{
	"default":    {dark: &DefaultTheme},
	"dracula":    {dark: &DraculaTheme},
	"nord":       {dark: &NordTheme, light: &NordLightTheme},
	"gruvbox":    {dark: &GruvboxTheme, light: &GruvboxLightTheme},
	"catppuccin": {dark: &CatppuccinMochaTheme, light: &CatppuccinLatteTheme},
	"none":       {dark: &NoneTheme, light: &NoneTheme},
}

var currentTheme = DefaultTheme

// Current returns the active theme.
func Current() Theme {
	return currentTheme
}

// Init activates the theme described by cfg. Call it after loading the
// config and before rendering anything.
func Init(cfg config.ThemeConfig) {
	isDark := func() bool { return lipgloss.HasDarkBackground(os.Stdin, os.Stderr) }
	theme := Resolve(cfg, isDark, os.Stderr)
	currentTheme = theme
	applyTheme(theme)
	SetNerdfont(cfg.Nerdfont)
}

// Resolve picks the preset variant for cfg and applies color overrides.
// isDark is only consulted in auto mode. Problems with the config are
// reported to warn.
func Resolve(cfg config.ThemeConfig, isDark func() bool, warn io.Writer) Theme {
	family, ok := presets[cfg.Name]
	if !ok {
		if cfg.Name != "" {
			fmt.Fprintf(warn, "Warning: unknown theme %q, using default (available: %s)\n",
				cfg.Name, strings.Join(config.ValidThemeNames, ", "))
		}
		family = presets["default"]
	}

	var chosen *Theme
	switch cfg.Mode {
	case "light":
		chosen = family.light
	case "dark":
		chosen = family.dark
	default:
		if cfg.Mode != "" && cfg.Mode != "auto" {
			fmt.Fprintf(warn, "Warning: unknown theme mode %q, using auto (available: %s)\n",
				cfg.Mode, strings.Join(config.ValidThemeModes, ", "))
		}
		if isDark() {
			chosen = family.dark
		} else {
			chosen = family.light
		}
	}
	if chosen == nil {
		chosen = family.dark
	}
	if chosen == nil {
		chosen = family.light
	}

	theme := *chosen
	override := func(dst *color.Color, value string) {
		if value != "" {
			*dst = lipgloss.Color(value)
		}
	}
	override(&theme.Primary, cfg.Primary)
	override(&theme.Accent, cfg.Accent)
	override(&theme.Success, cfg.Success)
	override(&theme.Error, cfg.Error)
	override(&theme.Muted, cfg.Muted)
	override(&theme.Normal, cfg.Normal)
	override(&theme.Info, cfg.Info)
	override(&theme.Warning, cfg.Warning)
	return theme
}

// applyTheme rebuilds the package-level colors and styles from t.
func applyTheme(t Theme) {
	Primary, Accent, Success, Error = t.Primary, t.Accent, t.Success, t.Error
	Muted, Normal, Info, Warning = t.Muted, t.Normal, t.Info, t.Warning

	PrimaryStyle = lipgloss.NewStyle().Foreground(t.Primary)
	AccentStyle = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(t.Success)
	ErrorStyle = lipgloss.NewStyle().Foreground(t.Error)
	MutedStyle = lipgloss.NewStyle().Foreground(t.Muted)
	NormalStyle = lipgloss.NewStyle().Foreground(t.Normal)
	InfoStyle = lipgloss.NewStyle().Foreground(t.Info).Italic(true)
	WarningStyle = lipgloss.NewStyle().Foreground(t.Warning)
	HighlightStyle = lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Underline(true)

	LabelStyle = lipgloss.NewStyle().Foreground(t.Primary).Bold(true).Width(10)
	TitleStyle = lipgloss.NewStyle().Foreground(t.Accent).Bold(true).MarginBottom(1)
	RoundedBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2)
}

// PresetNames returns the available theme names.
func PresetNames() []string {
	return config.ValidThemeNames
}
