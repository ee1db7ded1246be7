package release

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/raphi011/curator/internal/changelog"
	"github.com/raphi011/curator/internal/config"
	"github.com/raphi011/curator/internal/git"
	"github.com/raphi011/curator/internal/hooks"
	"github.com/raphi011/curator/internal/journal"
	"github.com/raphi011/curator/internal/layout"
	"github.com/raphi011/curator/internal/log"
	"github.com/raphi011/curator/internal/version"
)

var (
	// ErrRepositoryRequired is returned by NewService without a repository.
	ErrRepositoryRequired = errors.New("repository not configured")

	// ErrNotOnMain is returned when tagging from a branch other than main.
	ErrNotOnMain = errors.New("must be on the main branch to tag a release")

	// ErrBranchRequired is returned when no release branch was given or can be inferred.
	ErrBranchRequired = errors.New("release branch must be provided")

	// ErrMergeIntoSelf is returned when the branch to merge is main itself.
	ErrMergeIntoSelf = errors.New("cannot merge the main branch into itself")
)

// Dependencies enumerates the collaborators of a Service.
type Dependencies struct {
	Repository  Repository
	Config      *config.Config
	Hooks       HookRunner // nil runs hooks on the process' stdio
	JournalPath string     // empty disables the journal
	Now         func() time.Time
}

// HookOptions select the hooks that run after an action.
type HookOptions struct {
	Name   string            // run only this hook
	Skip   bool              // run no hooks
	Env    map[string]string // values for custom placeholders
	DryRun bool              // print hook commands instead of running them
}

// CreateOptions configure CreateReleaseBranch.
type CreateOptions struct {
	Version string
	Branch  string // defaults to release.branch_format
	Hooks   HookOptions
}

// MergeOptions configure MergeToMain.
type MergeOptions struct {
	Branch  string // defaults to the active branch
	Message string // defaults to merge.message
	NoFF    *bool  // defaults to merge.no_ff
	Hooks   HookOptions
}

// TagOptions configure TagRelease.
type TagOptions struct {
	Name    string // defaults to release.tag_format applied to the current version
	Message string // defaults to "Release <name>"
	Hooks   HookOptions
}

// Result describes a completed action.
type Result struct {
	Action      string   `json:"action"`
	Root        string   `json:"root"`
	Branch      string   `json:"branch,omitempty"`
	Main        string   `json:"main,omitempty"`
	Version     string   `json:"version,omitempty"`
	Previous    string   `json:"previous,omitempty"`
	Tag         string   `json:"tag,omitempty"`
	Message     string   `json:"message"`
	Warnings    []string `json:"warnings,omitempty"`
	HooksFailed int      `json:"hooks_failed,omitempty"`
}

// Service runs release actions against one repository.
type Service struct {
	repo        Repository
	cfg         *config.Config
	hooks       HookRunner
	journalPath string
	now         func() time.Time
}

// NewService constructs a Service from deps.
func NewService(deps Dependencies) (*Service, error) {
	if deps.Repository == nil {
		return nil, ErrRepositoryRequired
	}
	cfg := deps.Config
	if cfg == nil {
		d := config.Default()
		cfg = &d
	}
	runner := deps.Hooks
	if runner == nil {
		runner = hooks.Runner{}
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo:        deps.Repository,
		cfg:         cfg,
		hooks:       runner,
		journalPath: deps.JournalPath,
		now:         now,
	}, nil
}

// Root returns the repository root.
func (s *Service) Root() string {
	return s.repo.Root()
}

// Config returns the effective configuration.
func (s *Service) Config() *config.Config {
	return s.cfg
}

// Discover finds the project layout under the repository root.
func (s *Service) Discover() (layout.Layout, error) {
	return layout.Discover(s.repo.Root(), layout.Options{
		SourceDir:  s.cfg.Project.SourceDir,
		MarkerFile: s.cfg.Project.MarkerFile,
	})
}

// MarkerPath returns the file holding the version marker.
func (s *Service) MarkerPath() (string, error) {
	l, err := s.Discover()
	if err != nil {
		return "", err
	}
	return l.MarkerPath(s.cfg.Project.MarkerFile), nil
}

// ChangelogPath returns the absolute changelog path.
func (s *Service) ChangelogPath() string {
	if filepath.IsAbs(s.cfg.Changelog.File) {
		return s.cfg.Changelog.File
	}
	return filepath.Join(s.repo.Root(), s.cfg.Changelog.File)
}

// CurrentVersion reads the version marker of the discovered module.
func (s *Service) CurrentVersion() (string, error) {
	path, err := s.MarkerPath()
	if err != nil {
		return "", err
	}
	return version.Read(path, s.cfg.Project.VersionVariable)
}

// SetVersion rewrites the version marker without touching git.
func (s *Service) SetVersion(v string) (string, error) {
	v = version.Normalize(v)
	if err := version.Validate(v); err != nil {
		return "", err
	}
	path, err := s.MarkerPath()
	if err != nil {
		return "", err
	}
	if err := version.Write(path, s.cfg.Project.VersionVariable, v); err != nil {
		return "", err
	}
	return path, nil
}

// AppendChangelog adds the section for v without touching git.
func (s *Service) AppendChangelog(v string) (string, error) {
	v = version.Normalize(v)
	if err := version.Validate(v); err != nil {
		return "", err
	}
	path := s.ChangelogPath()
	if err := s.checkChangelog(path, v); err != nil {
		return "", err
	}
	if err := changelog.Append(path, changelog.Entry{Version: v, Date: s.now()}, s.changelogOptions()); err != nil {
		return "", err
	}
	return path, nil
}

// CreateReleaseBranch branches off HEAD and commits the version bump and
// changelog section as the first commit of the new branch.
func (s *Service) CreateReleaseBranch(ctx context.Context, opts CreateOptions) (Result, error) {
	l := log.FromContext(ctx)

	v := version.Normalize(opts.Version)
	if err := version.Validate(v); err != nil {
		return Result{}, err
	}
	branch := strings.TrimSpace(opts.Branch)
	if branch == "" {
		branch = s.cfg.BranchName(v)
	}
	if err := git.ValidateRefName(branch); err != nil {
		return Result{}, err
	}

	markerPath, err := s.MarkerPath()
	if err != nil {
		return Result{}, err
	}
	current, err := version.Read(markerPath, s.cfg.Project.VersionVariable)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Action:   journal.ActionCreate,
		Root:     s.repo.Root(),
		Branch:   branch,
		Main:     s.cfg.MainBranch,
		Version:  v,
		Previous: current,
	}
	if version.Valid(current) && version.Compare(v, current) <= 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("version %s is not greater than the current version %s", v, current))
	}

	exists, err := s.repo.BranchExists(branch)
	if err != nil {
		return Result{}, err
	}
	if exists {
		return Result{}, fmt.Errorf("%w: %s", git.ErrBranchExists, branch)
	}

	dirty, err := s.repo.IsDirty(ctx)
	if err != nil {
		return Result{}, err
	}
	if dirty {
		res.Warnings = append(res.Warnings, "work tree has uncommitted changes; only the version marker and changelog are committed")
	}

	changelogPath := s.ChangelogPath()
	if err := s.checkChangelog(changelogPath, v); err != nil {
		return Result{}, err
	}

	l.Debug("creating release branch", "branch", branch, "version", v, "previous", current)
	if err := s.repo.CreateBranch(ctx, branch); err != nil {
		return Result{}, err
	}
	if err := version.Write(markerPath, s.cfg.Project.VersionVariable, v); err != nil {
		return Result{}, err
	}
	if err := changelog.Append(changelogPath, changelog.Entry{Version: v, Date: s.now()}, s.changelogOptions()); err != nil {
		return Result{}, err
	}

	if err := s.repo.Add(ctx, s.relative(markerPath), s.relative(changelogPath)); err != nil {
		return Result{}, err
	}
	msg := config.Expand(s.cfg.Release.CommitMessage, map[string]string{"version": v, "branch": branch})
	if err := s.repo.Commit(ctx, msg); err != nil {
		return Result{}, err
	}

	res.Message = fmt.Sprintf("Release branch %s created and initialized for release %s", branch, v)
	s.finish(ctx, &res, hooks.TriggerCreate, opts.Hooks)
	return res, nil
}

// MergeToMain checks out main and merges the release branch into it.
func (s *Service) MergeToMain(ctx context.Context, opts MergeOptions) (Result, error) {
	main := s.cfg.MainBranch

	branch := strings.TrimSpace(opts.Branch)
	if branch == "" {
		active, err := s.repo.ActiveBranch()
		if err != nil {
			return Result{}, err
		}
		if active == main || active == git.Detached {
			return Result{}, ErrBranchRequired
		}
		branch = active
	}
	if branch == main {
		return Result{}, fmt.Errorf("%w: %s", ErrMergeIntoSelf, main)
	}

	for _, name := range []string{branch, main} {
		exists, err := s.repo.BranchExists(name)
		if err != nil {
			return Result{}, err
		}
		if !exists {
			return Result{}, fmt.Errorf("%w: %s", git.ErrBranchNotFound, name)
		}
	}

	message := opts.Message
	if message == "" {
		message = config.Expand(s.cfg.Merge.Message, map[string]string{"branch": branch, "main": main})
	}
	noFF := s.cfg.Merge.NoFF
	if opts.NoFF != nil {
		noFF = *opts.NoFF
	}

	log.FromContext(ctx).Debug("merging release branch", "branch", branch, "main", main, "no_ff", noFF)
	if err := s.repo.Checkout(ctx, main); err != nil {
		return Result{}, err
	}
	if err := s.repo.Merge(ctx, branch, message, noFF); err != nil {
		return Result{}, err
	}

	res := Result{
		Action:  journal.ActionMerge,
		Root:    s.repo.Root(),
		Branch:  branch,
		Main:    main,
		Message: fmt.Sprintf("Merged %s to %s", branch, main),
	}
	if v, err := s.CurrentVersion(); err == nil {
		res.Version = v
	}
	s.finish(ctx, &res, hooks.TriggerMerge, opts.Hooks)
	return res, nil
}

// TagRelease creates an annotated tag on main.
func (s *Service) TagRelease(ctx context.Context, opts TagOptions) (Result, error) {
	main := s.cfg.MainBranch

	active, err := s.repo.ActiveBranch()
	if err != nil {
		return Result{}, err
	}
	if active != main {
		return Result{}, fmt.Errorf("%w (on %s, main is %s)", ErrNotOnMain, active, main)
	}

	current, versionErr := s.CurrentVersion()
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		if versionErr != nil {
			return Result{}, fmt.Errorf("tag name not given and version unknown: %w", versionErr)
		}
		name = s.cfg.TagName(current)
	}

	exists, err := s.repo.TagExists(name)
	if err != nil {
		return Result{}, err
	}
	if exists {
		return Result{}, fmt.Errorf("%w: %s", git.ErrTagExists, name)
	}

	message := opts.Message
	if message == "" {
		message = "Release " + name
	}

	log.FromContext(ctx).Debug("tagging release", "tag", name, "main", main)
	if err := s.repo.CreateTag(ctx, name, message); err != nil {
		return Result{}, err
	}

	res := Result{
		Action:  journal.ActionTag,
		Root:    s.repo.Root(),
		Main:    main,
		Tag:     name,
		Version: current,
		Message: fmt.Sprintf("Created tag %s", name),
	}
	s.finish(ctx, &res, hooks.TriggerTag, opts.Hooks)
	return res, nil
}

// checkChangelog refuses a missing changelog (unless it may be created)
// and a duplicate section for v.
func (s *Service) checkChangelog(path, v string) error {
	has, err := changelog.HasSection(path, v)
	if err != nil {
		return err
	}
	if has {
		return fmt.Errorf("%w: %s in %s", changelog.ErrDuplicateSection, v, path)
	}
	if !s.cfg.Changelog.CreateMissing && !fileExists(path) {
		return fmt.Errorf("%w: %s", changelog.ErrNoChangelog, path)
	}
	return nil
}

func (s *Service) changelogOptions() changelog.Options {
	return changelog.Options{
		Template:      s.cfg.Changelog.Template,
		CreateMissing: s.cfg.Changelog.CreateMissing,
	}
}

// relative returns path relative to the repository root when possible.
func (s *Service) relative(path string) string {
	rel, err := filepath.Rel(s.repo.Root(), path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// finish runs the hooks for trigger and records res in the journal.
// Neither can fail the action.
func (s *Service) finish(ctx context.Context, res *Result, trigger hooks.Trigger, opts HookOptions) {
	l := log.FromContext(ctx)

	matches, err := hooks.Select(s.cfg.Hooks, opts.Name, opts.Skip, trigger)
	if err != nil {
		res.Warnings = append(res.Warnings, err.Error())
	} else if len(matches) > 0 {
		res.HooksFailed = s.hooks.RunAllNonFatal(ctx, matches, hooks.Context{
			Root:    res.Root,
			Branch:  res.Branch,
			Version: res.Version,
			Tag:     res.Tag,
			Main:    res.Main,
			Trigger: trigger,
			Env:     opts.Env,
			DryRun:  opts.DryRun,
		})
	}

	if s.journalPath == "" {
		return
	}
	err = journal.Record(s.journalPath, journal.Entry{
		Time:    s.now(),
		Action:  res.Action,
		Root:    res.Root,
		Branch:  res.Branch,
		Version: res.Version,
		Tag:     res.Tag,
		Message: res.Message,
	})
	if err != nil {
		l.Warn("failed to record journal entry", "path", s.journalPath, "error", err)
	}
}
