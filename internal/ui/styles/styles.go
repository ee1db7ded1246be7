// Package styles provides the shared colors, styles and symbols used by
// the dashboard, forms and command output.
package styles

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Colors of the active theme. Init replaces them.
var (
	Primary color.Color = DefaultTheme.Primary
	Accent  color.Color = DefaultTheme.Accent
	Success color.Color = DefaultTheme.Success
	Error   color.Color = DefaultTheme.Error
	Muted   color.Color = DefaultTheme.Muted
	Normal  color.Color = DefaultTheme.Normal
	Info    color.Color = DefaultTheme.Info
	Warning color.Color = DefaultTheme.Warning
)

// Styles derived from the active theme. applyTheme rebuilds them.
var (
	Bold   = lipgloss.NewStyle().Bold(true)
	Italic = lipgloss.NewStyle().Italic(true)

	PrimaryStyle   lipgloss.Style
	AccentStyle    lipgloss.Style
	SuccessStyle   lipgloss.Style
	ErrorStyle     lipgloss.Style
	MutedStyle     lipgloss.Style
	NormalStyle    lipgloss.Style
	InfoStyle      lipgloss.Style
	WarningStyle   lipgloss.Style
	HighlightStyle lipgloss.Style

	// LabelStyle renders the field names of the dashboard ("CWD", "TAGS").
	LabelStyle lipgloss.Style

	// TitleStyle renders panel titles.
	TitleStyle lipgloss.Style

	// RoundedBorder frames panels and forms.
	RoundedBorder lipgloss.Style
)

func init() {
	applyTheme(DefaultTheme)
}
