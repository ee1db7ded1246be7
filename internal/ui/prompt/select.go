package prompt

import (
	"os"

	"charm.land/bubbles/v2/list"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/raphi011/curator/internal/ui/styles"
)

type option string

func (o option) Title() string       { return string(o) }
func (o option) Description() string { return "" }
func (o option) FilterValue() string { return string(o) }

type selectModel struct {
	list      list.Model
	selected  string
	done      bool
	cancelled bool
}

func (m selectModel) Init() tea.Cmd {
	return nil
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		// while filtering, enter and esc belong to the filter input
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(option); ok {
				m.selected = string(item)
			}
			m.done = true
			return m, tea.Quit
		case "ctrl+c", "esc", "q":
			m.cancelled = true
			m.done = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m selectModel) View() tea.View {
	if m.done {
		return tea.NewView("")
	}
	return tea.NewView(m.list.View())
}

func newSelectModel(title string, options []string) selectModel {
	items := make([]list.Item, len(options))
	for i, o := range options {
		items[i] = option(o)
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().Foreground(styles.Accent).Bold(true).PaddingLeft(1)

	l := list.New(items, delegate, 60, min(len(options)+6, 20))
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(len(options) > 5)
	l.DisableQuitKeybindings()

	return selectModel{list: l}
}

// Select lets the user pick one of options. An empty list is treated as
// a cancellation.
func Select(title string, options []string) (string, error) {
	if len(options) == 0 {
		return "", ErrCancelled
	}
	p := tea.NewProgram(newSelectModel(title, options), tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	m := final.(selectModel)
	if m.cancelled || m.selected == "" {
		return "", ErrCancelled
	}
	return m.selected, nil
}
