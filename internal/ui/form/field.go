// Package form renders the small input forms the dashboard opens for
// release actions. Forms are described by YAML blueprints embedded in
// the binary and are built into bubbletea components at runtime.
package form

import tea "charm.land/bubbletea/v2"

// Move tells the form where focus goes after a key press.
type Move int

const (
	Stay Move = iota
	Next
	Prev
)

// Field is one input of a form.
type Field interface {
	Key() string
	Label() string

	Focus() tea.Cmd
	Blur()

	// Update handles a key press while the field is focused.
	Update(msg tea.KeyPressMsg) (tea.Cmd, Move)

	View(focused bool) string
	Help() string

	// Value is the submitted value, "" when left empty.
	Value() string

	// Validate reports why the current value cannot be submitted.
	Validate() error
}
