package prompt

import (
	"fmt"
	"os"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/raphi011/curator/internal/ui/styles"
)

type textInputModel struct {
	input     textinput.Model
	prompt    string
	validate  func(string) error
	err       error
	done      bool
	cancelled bool
}

func (m textInputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m textInputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "enter":
			if m.validate != nil {
				if m.err = m.validate(strings.TrimSpace(m.input.Value())); m.err != nil {
					return m, nil
				}
			}
			m.done = true
			return m, tea.Quit
		case "ctrl+c", "esc":
			m.cancelled = true
			m.done = true
			return m, tea.Quit
		}
	}
	m.err = nil
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m textInputModel) View() tea.View {
	if m.done {
		return tea.NewView("")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s", styles.Bold.Render(m.prompt), m.input.View())
	if m.err != nil {
		fmt.Fprintf(&b, "\n%s", styles.ErrorStyle.Render(m.err.Error()))
	}
	return tea.NewView(b.String())
}

func newTextInput(placeholder, value string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.SetValue(value)
	ti.CharLimit = 156
	ti.SetWidth(50)
	ti.Focus()
	return ti
}

// TextInput reads one line. validate, when set, keeps the prompt open
// until it accepts the trimmed value.
func TextInput(prompt, placeholder string, validate func(string) error) (string, error) {
	model := textInputModel{
		input:    newTextInput(placeholder, ""),
		prompt:   prompt,
		validate: validate,
	}
	p := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	m := final.(textInputModel)
	if m.cancelled {
		return "", ErrCancelled
	}
	return strings.TrimSpace(m.input.Value()), nil
}
