// Package dashboard is the interactive front-end: it shows the state of
// the repository and runs release actions from forms.
package dashboard

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/colorprofile"

	"github.com/raphi011/curator/internal/config"
	"github.com/raphi011/curator/internal/git"
	"github.com/raphi011/curator/internal/log"
	"github.com/raphi011/curator/internal/release"
	"github.com/raphi011/curator/internal/ui/form"
	"github.com/raphi011/curator/internal/version"
)

const defaultNoticeTTL = 6 * time.Second

// Actions is the part of *release.Service the dashboard drives.
type Actions interface {
	Snapshot() (release.Snapshot, error)
	Config() *config.Config
	CreateReleaseBranch(ctx context.Context, opts release.CreateOptions) (release.Result, error)
	MergeToMain(ctx context.Context, opts release.MergeOptions) (release.Result, error)
	TagRelease(ctx context.Context, opts release.TagOptions) (release.Result, error)
}

var _ Actions = (*release.Service)(nil)

// Options tunes a dashboard. Zero values use the defaults.
type Options struct {
	Clipboard func(string) error // defaults to the system clipboard
	NoticeTTL time.Duration      // how long notifications stay
}

type snapshotMsg struct {
	snap release.Snapshot
	err  error
}

type resultMsg struct {
	action string
	res    release.Result
	err    error
}

type clearNoticeMsg struct {
	id int
}

type notice struct {
	id    int
	text  string
	isErr bool
}

// Model is the dashboard's bubbletea model.
type Model struct {
	ctx     context.Context
	actions Actions
	cwd     string
	opts    Options

	snap    release.Snapshot
	loadErr error
	loaded  bool

	form    *form.Form
	busy    string
	spinner spinner.Model
	notice  notice
	width   int
}

// New creates a dashboard for the repository at cwd.
func New(ctx context.Context, actions Actions, cwd string, opts Options) *Model {
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	if opts.NoticeTTL == 0 {
		opts.NoticeTTL = defaultNoticeTTL
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return &Model{ctx: ctx, actions: actions, cwd: cwd, opts: opts, spinner: sp}
}

// Run shows the dashboard until the user quits.
func Run(ctx context.Context, actions Actions, cwd string) error {
	p := tea.NewProgram(New(ctx, actions, cwd, Options{}),
		tea.WithContext(ctx),
		tea.WithColorProfile(colorprofile.Detect(os.Stdout, os.Environ())),
	)
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return m.load()
}

func (m *Model) load() tea.Cmd {
	return func() tea.Msg {
		snap, err := m.actions.Snapshot()
		return snapshotMsg{snap: snap, err: err}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case snapshotMsg:
		m.loaded = true
		m.loadErr = msg.err
		if msg.err == nil {
			m.snap = msg.snap
		}
		return m, nil

	case resultMsg:
		m.busy = ""
		return m, tea.Batch(m.finished(msg), m.load())

	case clearNoticeMsg:
		if msg.id == m.notice.id {
			m.notice = notice{id: m.notice.id}
		}
		return m, nil

	case spinner.TickMsg:
		if m.busy == "" {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyPressMsg:
		if m.form != nil {
			return m, m.updateForm(msg)
		}
		return m, m.handleKey(msg)
	}

	if m.form != nil {
		return m, m.form.Update(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c":
		return tea.Quit
	}
	if m.busy != "" {
		return nil
	}

	switch msg.String() {
	case "r":
		return m.load()
	case "y":
		return m.copyVersion()
	case "c":
		return m.openForm(form.CreateReleaseBranch)
	case "m":
		if len(m.snap.ReleaseBranches()) == 0 {
			return m.notify("No release branches to merge", true)
		}
		return m.openForm(form.MergeReleaseBranch)
	case "t":
		if !m.snap.OnMain() {
			return m.notify(fmt.Sprintf("Switch to %s to tag a release", m.snap.Main), true)
		}
		return m.openForm(form.CreateTag)
	}
	return nil
}

func (m *Model) copyVersion() tea.Cmd {
	if m.snap.Version == "" {
		return m.notify("No version to copy", true)
	}
	if err := m.opts.Clipboard(m.snap.Version); err != nil {
		return m.notify(fmt.Sprintf("Copy failed: %v", err), true)
	}
	return m.notify(fmt.Sprintf("Copied %s to the clipboard", m.snap.Version), false)
}

// FormEnv supplies blueprint placeholders, option sources and validators
// from a repository snapshot.
func FormEnv(snap release.Snapshot, cfg *config.Config) form.Env {
	return form.Env{
		Vars: map[string]string{
			"version":       snap.Version,
			"next_version":  version.Next(snap.Version),
			"branch_format": cfg.Release.BranchFormat,
			"active":        snap.Active,
			"main":          snap.Main,
			"merge_message": cfg.Merge.Message,
			"tag":           cfg.TagName(snap.Version),
		},
		Options: map[string][]string{
			"release_branches": snap.ReleaseBranches(),
		},
		Validators: map[string]func(string) error{
			"version": version.Validate,
			"ref":     git.ValidateRefName,
		},
	}
}

func (m *Model) openForm(id string) tea.Cmd {
	f, err := form.Open(id, FormEnv(m.snap, m.actions.Config()))
	if err != nil {
		return m.notify(err.Error(), true)
	}
	m.form = f
	return f.Init()
}

func (m *Model) updateForm(msg tea.KeyPressMsg) tea.Cmd {
	cmd := m.form.Update(msg)
	switch m.form.State() {
	case form.Cancelled:
		m.form = nil
		return nil
	case form.Submitted:
		f := m.form
		m.form = nil
		return m.submit(f.ID(), f.Values())
	}
	return cmd
}

func (m *Model) submit(id string, values map[string]string) tea.Cmd {
	ctx := m.ctx
	var run func() (release.Result, error)

	switch id {
	case form.CreateReleaseBranch:
		m.busy = fmt.Sprintf("Creating release branch for %s", values["version"])
		opts := release.CreateOptions{Version: values["version"], Branch: values["branch"]}
		run = func() (release.Result, error) { return m.actions.CreateReleaseBranch(ctx, opts) }
	case form.MergeReleaseBranch:
		m.busy = fmt.Sprintf("Merging %s", values["branch"])
		opts := release.MergeOptions{Branch: values["branch"], Message: values["message"]}
		run = func() (release.Result, error) { return m.actions.MergeToMain(ctx, opts) }
	case form.CreateTag:
		m.busy = fmt.Sprintf("Tagging %s", values["name"])
		opts := release.TagOptions{Name: values["name"], Message: values["message"]}
		run = func() (release.Result, error) { return m.actions.TagRelease(ctx, opts) }
	default:
		return m.notify(fmt.Sprintf("unknown form %q", id), true)
	}

	log.FromContext(ctx).Debug("dashboard action", "form", id, "values", values)
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		res, err := run()
		return resultMsg{action: id, res: res, err: err}
	})
}

func (m *Model) finished(msg resultMsg) tea.Cmd {
	l := log.FromContext(m.ctx)
	if msg.err != nil {
		l.Warn("dashboard action failed", "form", msg.action, "error", msg.err)
		return m.notify(msg.err.Error(), true)
	}
	l.Info("dashboard action finished", "form", msg.action, "message", msg.res.Message)

	text := msg.res.Message
	for _, w := range msg.res.Warnings {
		text += "\nwarning: " + w
	}
	if msg.res.HooksFailed > 0 {
		text += fmt.Sprintf("\n%d hook(s) failed, see the log", msg.res.HooksFailed)
	}
	return m.notify(text, false)
}

func (m *Model) notify(text string, isErr bool) tea.Cmd {
	id := m.notice.id + 1
	m.notice = notice{id: id, text: strings.TrimSpace(text), isErr: isErr}
	return tea.Tick(m.opts.NoticeTTL, func(time.Time) tea.Msg {
		return clearNoticeMsg{id: id}
	})
}
