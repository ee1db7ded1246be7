package dashboard

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/raphi011/curator/internal/ui/static"
	"github.com/raphi011/curator/internal/ui/styles"
)

const maxTags = 8

func (m *Model) View() tea.View {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("curator") + "\n")
	b.WriteString(m.renderState() + "\n")

	switch {
	case m.form != nil:
		b.WriteString(m.form.View() + "\n")
	case m.busy != "":
		b.WriteString(m.spinner.View() + " " + m.busy + "…\n")
	}

	if m.notice.text != "" {
		b.WriteString("\n" + m.renderNotice() + "\n")
	}

	if m.form == nil {
		b.WriteString("\n" + m.renderHelp())
	}

	v := tea.NewView(b.String())
	v.AltScreen = true
	return v
}

func (m *Model) renderState() string {
	if !m.loaded {
		return styles.MutedStyle.Render("Loading repository…")
	}
	if m.loadErr != nil {
		return static.RenderFields([]static.Field{
			{Label: "CWD", Value: m.cwd},
			{Label: "ERROR", Value: styles.ErrorStyle.Render(m.loadErr.Error())},
		})
	}

	s := m.snap
	sym := styles.CurrentSymbols()

	var branches []string
	for _, br := range s.Branches {
		name := br.Name
		if br.Name == s.Active {
			name = styles.AccentStyle.Render(name)
		}
		branches = append(branches, styles.BranchMarker(br.Name == s.Active)+" "+name)
	}

	tags := styles.MutedStyle.Render("none")
	if len(s.Tags) > 0 {
		shown := s.Tags
		if len(shown) > maxTags {
			shown = shown[len(shown)-maxTags:]
		}
		tags = sym.Tag + " " + strings.Join(shown, ", ")
		if len(s.Tags) > maxTags {
			tags = "… " + tags
		}
	}

	ver := s.Version
	if ver == "" {
		ver = styles.WarningStyle.Render(s.VersionError)
	}

	active := s.Active
	if active == "" {
		active = styles.MutedStyle.Render("(detached)")
	}

	desc := s.Description
	if desc == "" {
		desc = styles.MutedStyle.Render("-")
	}

	return static.RenderFields([]static.Field{
		{Label: "CWD", Value: m.cwd},
		{Label: "DESC", Value: desc},
		{Label: "BRANCHES", Value: strings.Join(branches, "\n")},
		{Label: "ACTIVE", Value: active},
		{Label: "TAGS", Value: tags},
		{Label: "VERSION", Value: ver},
	})
}

func (m *Model) renderNotice() string {
	sym := styles.CurrentSymbols()
	if m.notice.isErr {
		return styles.ErrorStyle.Render(sym.Failure + " " + m.notice.text)
	}
	return styles.SuccessStyle.Render(sym.Success + " " + m.notice.text)
}

func (m *Model) renderHelp() string {
	keys := []struct{ key, desc string }{
		{"c", "create"},
		{"m", "merge"},
		{"t", "tag"},
		{"r", "refresh"},
		{"y", "copy version"},
		{"q", "quit"},
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		style := styles.NormalStyle
		if (m.busy != "" && k.key != "q") || (k.key == "t" && !m.snap.OnMain()) {
			style = styles.MutedStyle
		}
		parts = append(parts, styles.PrimaryStyle.Render(k.key)+" "+style.Render(k.desc))
	}
	return strings.Join(parts, styles.MutedStyle.Render(" • "))
}
