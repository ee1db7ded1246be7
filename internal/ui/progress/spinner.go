// Package progress shows a spinner on stderr while a slow step runs,
// such as a Sphinx build or a GitHub request.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/mattn/go-isatty"

	"github.com/raphi011/curator/internal/ui/styles"
)

type messageUpdate string

// Spinner is a bubbletea spinner run in the background. On a non-terminal
// stderr it stays silent.
type Spinner struct {
	mu      sync.Mutex
	out     io.Writer
	program *tea.Program
	msgs    chan string
	done    chan struct{}
	running bool
	message string
}

type spinnerModel struct {
	spinner spinner.Model
	message string
	msgs    chan string
}

func (m spinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m spinnerModel) next() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-m.msgs
		if !ok {
			return tea.Quit()
		}
		return messageUpdate(msg)
	}
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messageUpdate:
		m.message = string(msg)
		return m, m.next()
	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m spinnerModel) View() tea.View {
	if m.message == "" {
		return tea.NewView("")
	}
	return tea.NewView(fmt.Sprintf("%s %s", m.spinner.View(), m.message))
}

// NewSpinner creates a spinner showing message.
func NewSpinner(message string) *Spinner {
	return &Spinner{out: os.Stderr, message: message}
}

func (s *Spinner) enabled() bool {
	f, ok := s.out.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// Start begins the animation.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running || !s.enabled() {
		return
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.PrimaryStyle

	s.msgs = make(chan string, 10)
	s.done = make(chan struct{})
	s.program = tea.NewProgram(spinnerModel{spinner: sp, message: s.message, msgs: s.msgs},
		tea.WithoutSignalHandler(), tea.WithInput(nil), tea.WithOutput(s.out))
	s.running = true

	go func() {
		_, _ = s.program.Run()
		close(s.done)
	}()
}

// Update replaces the message; dropped when the spinner is busy.
func (s *Spinner) Update(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
	if !s.running {
		return
	}
	select {
	case s.msgs <- message:
	default:
	}
}

// Stop ends the animation and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.msgs)
	s.mu.Unlock()

	s.program.Quit()
	select {
	case <-s.done:
	case <-time.After(500 * time.Millisecond):
	}
	fmt.Fprint(s.out, "\r\033[K")
}
