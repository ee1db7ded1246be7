// Package static renders non-interactive terminal output such as the
// status overview and the journal listing.
package static

import (
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/raphi011/curator/internal/ui/styles"
)

// RenderTable renders rows under bold headers without borders.
// It returns "" when there are no rows.
func RenderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).PaddingRight(2)
			}
			return lipgloss.NewStyle().PaddingRight(2)
		})

	return t.String() + "\n"
}

// Field is one labelled value of a field list.
type Field struct {
	Label string
	Value string
}

// RenderFields renders label/value pairs with aligned values. Multi-line
// values are indented under the first line.
func RenderFields(fields []Field) string {
	width := 0
	for _, f := range fields {
		width = max(width, lipgloss.Width(f.Label))
	}
	label := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).Width(width + 2)
	indent := strings.Repeat(" ", width+2)

	var b strings.Builder
	for _, f := range fields {
		lines := strings.Split(f.Value, "\n")
		b.WriteString(label.Render(f.Label) + lines[0] + "\n")
		for _, l := range lines[1:] {
			b.WriteString(indent + l + "\n")
		}
	}
	return b.String()
}
