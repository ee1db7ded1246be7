package form

import (
	"errors"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// ErrRequired is reported by required fields left empty.
var ErrRequired = errors.New("value cannot be empty")

// TextField is a single-line text input.
type TextField struct {
	key      string
	label    string
	input    textinput.Model
	required bool
	noSpaces bool
	validate func(string) error
	err      error
}

// NewTextField creates a text field. placeholder is shown while empty.
func NewTextField(key, label, placeholder string) *TextField {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 200
	ti.SetWidth(40)
	return &TextField{key: key, label: label, input: ti}
}

// Required makes an empty value invalid.
func (f *TextField) Required() *TextField {
	f.required = true
	return f
}

// NoSpaces drops typed spaces, for versions, branch and tag names.
func (f *TextField) NoSpaces() *TextField {
	f.noSpaces = true
	return f
}

// WithValidator checks non-empty values before the form moves on.
func (f *TextField) WithValidator(fn func(string) error) *TextField {
	f.validate = fn
	return f
}

// SetValue pre-fills the input.
func (f *TextField) SetValue(v string) {
	f.input.SetValue(v)
	f.input.CursorEnd()
}

func (f *TextField) Key() string   { return f.key }
func (f *TextField) Label() string { return f.label }

func (f *TextField) Focus() tea.Cmd {
	return f.input.Focus()
}

func (f *TextField) Blur() {
	f.input.Blur()
}

func (f *TextField) Update(msg tea.KeyPressMsg) (tea.Cmd, Move) {
	switch msg.String() {
	case "enter", "tab", "down":
		if f.err = f.Validate(); f.err != nil {
			return nil, Stay
		}
		return nil, Next
	case "shift+tab", "up":
		return nil, Prev
	case "space":
		if f.noSpaces {
			return nil, Stay
		}
	}

	f.err = nil
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	if f.noSpaces && strings.Contains(f.input.Value(), " ") {
		f.input.SetValue(strings.ReplaceAll(f.input.Value(), " ", ""))
	}
	return cmd, Stay
}

func (f *TextField) View(focused bool) string {
	var b strings.Builder
	b.WriteString(labelStyle(focused).Render(f.label) + "\n")
	b.WriteString(f.input.View())
	if f.err != nil {
		b.WriteString("\n" + errorStyle().Render(f.err.Error()))
	}
	return b.String()
}

func (f *TextField) Help() string {
	return "type text • tab/enter next • shift+tab back • esc cancel"
}

func (f *TextField) Value() string {
	return strings.TrimSpace(f.input.Value())
}

func (f *TextField) Validate() error {
	v := f.Value()
	if v == "" {
		if f.required {
			return ErrRequired
		}
		return nil
	}
	if f.validate != nil {
		return f.validate(v)
	}
	return nil
}
