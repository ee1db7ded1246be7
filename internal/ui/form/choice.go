package form

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	tea "charm.land/bubbletea/v2"
	"github.com/sahilm/fuzzy"
)

const maxVisibleOptions = 8

// ErrNoMatch is reported when the filter hides every option.
var ErrNoMatch = errors.New("no matching option")

// ChoiceField picks one option from a list narrowed by fuzzy filtering.
type ChoiceField struct {
	key      string
	label    string
	options  []string
	filtered []fuzzy.Match
	cursor   int
	filter   string
	required bool
	err      error
}

// NewChoiceField creates a choice field over options.
func NewChoiceField(key, label string, options []string) *ChoiceField {
	f := &ChoiceField{key: key, label: label, options: options}
	f.applyFilter()
	return f
}

// Required makes an empty option list invalid.
func (f *ChoiceField) Required() *ChoiceField {
	f.required = true
	return f
}

// Select moves the cursor to option, if present.
func (f *ChoiceField) Select(option string) {
	for i, m := range f.filtered {
		if m.Str == option {
			f.cursor = i
			return
		}
	}
}

func (f *ChoiceField) Key() string   { return f.key }
func (f *ChoiceField) Label() string { return f.label }

func (f *ChoiceField) Focus() tea.Cmd { return nil }
func (f *ChoiceField) Blur()          {}

func (f *ChoiceField) Update(msg tea.KeyPressMsg) (tea.Cmd, Move) {
	switch msg.String() {
	case "up", "ctrl+p":
		if f.cursor > 0 {
			f.cursor--
		}
	case "down", "ctrl+n":
		if f.cursor < len(f.filtered)-1 {
			f.cursor++
		}
	case "enter", "tab":
		if f.err = f.Validate(); f.err != nil {
			return nil, Stay
		}
		return nil, Next
	case "shift+tab":
		return nil, Prev
	case "backspace":
		if f.filter != "" {
			r := []rune(f.filter)
			f.filter = string(r[:len(r)-1])
			f.applyFilter()
		}
	default:
		if text := printable(msg.Text); text != "" {
			f.filter += text
			f.applyFilter()
		}
	}
	return nil, Stay
}

// printable drops whitespace and control runes from typed text.
func printable(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsPrint(r) && !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (f *ChoiceField) applyFilter() {
	f.err = nil
	if f.filter == "" {
		f.filtered = make([]fuzzy.Match, len(f.options))
		for i, o := range f.options {
			f.filtered[i] = fuzzy.Match{Str: o, Index: i}
		}
	} else {
		f.filtered = fuzzy.Find(f.filter, f.options)
	}
	if f.cursor >= len(f.filtered) {
		f.cursor = max(0, len(f.filtered)-1)
	}
}

func (f *ChoiceField) View(focused bool) string {
	var b strings.Builder
	b.WriteString(labelStyle(focused).Render(f.label))
	if f.filter != "" {
		b.WriteString("  " + matchStyle().Render(f.filter))
	}
	b.WriteString("\n")

	if len(f.options) == 0 {
		b.WriteString(optionStyle(false).Render("  (none available)"))
	}

	start := 0
	if f.cursor >= maxVisibleOptions {
		start = f.cursor - maxVisibleOptions + 1
	}
	end := min(start+maxVisibleOptions, len(f.filtered))
	for i := start; i < end; i++ {
		selected := focused && i == f.cursor
		prefix := "  "
		if i == f.cursor {
			prefix = "> "
		}
		b.WriteString(prefix + highlight(f.filtered[i], selected) + "\n")
	}
	if end < len(f.filtered) {
		b.WriteString(optionStyle(false).Render(fmt.Sprintf("  … %d more", len(f.filtered)-end)) + "\n")
	}
	if f.err != nil {
		b.WriteString(errorStyle().Render(f.err.Error()))
	}
	return strings.TrimRight(b.String(), "\n")
}

// highlight renders m.Str with the fuzzy-matched runes emphasised.
func highlight(m fuzzy.Match, selected bool) string {
	matched := make(map[int]bool, len(m.MatchedIndexes))
	for _, i := range m.MatchedIndexes {
		matched[i] = true
	}
	var b strings.Builder
	for i, r := range []rune(m.Str) {
		if matched[i] {
			b.WriteString(matchStyle().Render(string(r)))
		} else {
			b.WriteString(optionStyle(selected).Render(string(r)))
		}
	}
	return b.String()
}

func (f *ChoiceField) Help() string {
	return "↑/↓ select • type to filter • tab/enter next • esc cancel"
}

func (f *ChoiceField) Value() string {
	if f.cursor < len(f.filtered) {
		return f.filtered[f.cursor].Str
	}
	return ""
}

func (f *ChoiceField) Validate() error {
	if len(f.filtered) > 0 {
		return nil
	}
	if len(f.options) == 0 && !f.required {
		return nil
	}
	if f.filter != "" {
		return ErrNoMatch
	}
	return ErrRequired
}
