package form

import (
	"charm.land/lipgloss/v2"

	"github.com/raphi011/curator/internal/ui/styles"
)

// Styles are functions so theme changes after package init apply.

func borderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		BorderLeft(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Primary).
		PaddingLeft(2).
		PaddingRight(2)
}

func titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(styles.Primary)
}

func labelStyle(focused bool) lipgloss.Style {
	if focused {
		return lipgloss.NewStyle().Bold(true).Foreground(styles.Accent)
	}
	return lipgloss.NewStyle().Foreground(styles.Normal)
}

func optionStyle(selected bool) lipgloss.Style {
	if selected {
		return lipgloss.NewStyle().Bold(true).Foreground(styles.Accent)
	}
	return lipgloss.NewStyle().Foreground(styles.Normal)
}

func matchStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(styles.Accent).Bold(true).Underline(true)
}

func helpStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(styles.Muted).MarginTop(1)
}

func errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(styles.Error)
}
