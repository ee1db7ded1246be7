package form

import (
	"fmt"
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/colorprofile"

	"github.com/raphi011/curator/internal/ui/prompt"
)

// State is the lifecycle of a form.
type State int

const (
	Editing State = iota
	Submitted
	Cancelled
)

// Form is a vertical list of fields followed by a confirm row. It is a
// component: the owner forwards messages to Update and checks State.
type Form struct {
	id     string
	title  string
	submit string
	fields []Field
	focus  int // len(fields) is the confirm row
	state  State
}

// New creates a form. submit labels the confirm row.
func New(id, title, submit string, fields ...Field) *Form {
	if submit == "" {
		submit = "Submit"
	}
	return &Form{id: id, title: title, submit: submit, fields: fields}
}

func (f *Form) ID() string      { return f.id }
func (f *Form) Title() string   { return f.title }
func (f *Form) State() State    { return f.state }
func (f *Form) Fields() []Field { return f.fields }
func (f *Form) onConfirm() bool { return f.focus >= len(f.fields) }

// Init focuses the first field.
func (f *Form) Init() tea.Cmd {
	f.focus = 0
	if len(f.fields) == 0 {
		return nil
	}
	return f.fields[0].Focus()
}

// Update handles a message while the form is editing.
func (f *Form) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok || f.state != Editing {
		return nil
	}

	switch key.String() {
	case "esc", "ctrl+c":
		f.state = Cancelled
		return nil
	}

	if f.onConfirm() {
		switch key.String() {
		case "enter":
			for i, field := range f.fields {
				if field.Validate() != nil {
					return f.moveTo(i)
				}
			}
			f.state = Submitted
		case "shift+tab", "up", "left":
			return f.moveTo(len(f.fields) - 1)
		}
		return nil
	}

	cmd, move := f.fields[f.focus].Update(key)
	switch move {
	case Next:
		return tea.Batch(cmd, f.moveTo(f.focus+1))
	case Prev:
		if f.focus > 0 {
			return tea.Batch(cmd, f.moveTo(f.focus-1))
		}
	}
	return cmd
}

func (f *Form) moveTo(i int) tea.Cmd {
	if i < 0 {
		i = 0
	}
	if !f.onConfirm() {
		f.fields[f.focus].Blur()
	}
	f.focus = min(i, len(f.fields))
	if f.onConfirm() {
		return nil
	}
	return f.fields[f.focus].Focus()
}

// Values returns the field values by key.
func (f *Form) Values() map[string]string {
	values := make(map[string]string, len(f.fields))
	for _, field := range f.fields {
		values[field.Key()] = field.Value()
	}
	return values
}

// View renders the form.
func (f *Form) View() string {
	var b strings.Builder
	b.WriteString(titleStyle().Render(f.title) + "\n\n")

	for i, field := range f.fields {
		b.WriteString(field.View(i == f.focus) + "\n\n")
	}

	button := fmt.Sprintf("[ %s ]", f.submit)
	b.WriteString(optionStyle(f.onConfirm()).Render(button) + "\n")

	help := "enter confirm • shift+tab back • esc cancel"
	if !f.onConfirm() {
		help = f.fields[f.focus].Help()
	}
	b.WriteString(helpStyle().Render(help))

	return borderStyle().Render(b.String())
}

// standalone runs a form as its own program.
type standalone struct {
	form *Form
}

func (s standalone) Init() tea.Cmd {
	return s.form.Init()
}

func (s standalone) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := s.form.Update(msg)
	if s.form.State() != Editing {
		return s, tea.Quit
	}
	return s, cmd
}

func (s standalone) View() tea.View {
	if s.form.State() != Editing {
		return tea.NewView("")
	}
	return tea.NewView(s.form.View() + "\n")
}

// Run shows f on stderr until it is submitted or cancelled and returns
// its values. Cancelling returns prompt.ErrCancelled.
func Run(f *Form) (map[string]string, error) {
	p := tea.NewProgram(standalone{form: f},
		tea.WithOutput(os.Stderr),
		tea.WithColorProfile(colorprofile.Detect(os.Stderr, os.Environ())),
	)
	if _, err := p.Run(); err != nil {
		return nil, err
	}
	if f.State() != Submitted {
		return nil, prompt.ErrCancelled
	}
	return f.Values(), nil
}
