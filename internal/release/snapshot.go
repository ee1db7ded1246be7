package release

import (
	"os"

	"github.com/raphi011/curator/internal/git"
	"github.com/raphi011/curator/internal/layout"
	"github.com/raphi011/curator/internal/version"
)

// Snapshot is the repository state shown by status and the dashboard.
// Layout and version problems are kept as text so a partially set up
// project can still be displayed.
type Snapshot struct {
	Root         string         `json:"root"`
	Description  string         `json:"description,omitempty"`
	Main         string         `json:"main"`
	Active       string         `json:"active"`
	Head         git.Commit     `json:"head"`
	Branches     []git.Branch   `json:"branches"`
	Tags         []string       `json:"tags"`
	Layout       *layout.Layout `json:"layout,omitempty"`
	Version      string         `json:"version,omitempty"`
	VersionError string         `json:"version_error,omitempty"`
}

// OnMain reports whether the active branch is main.
func (s Snapshot) OnMain() bool {
	return s.Active == s.Main
}

// ReleaseBranches returns the non-main branches, the candidates for a merge.
func (s Snapshot) ReleaseBranches() []string {
	var names []string
	for _, b := range s.Branches {
		if b.Name != s.Main {
			names = append(names, b.Name)
		}
	}
	return names
}

// Snapshot reads the current repository state.
func (s *Service) Snapshot() (Snapshot, error) {
	snap := Snapshot{
		Root:        s.repo.Root(),
		Description: s.repo.Description(),
		Main:        s.cfg.MainBranch,
	}

	var err error
	if snap.Active, err = s.repo.ActiveBranch(); err != nil {
		return Snapshot{}, err
	}
	if snap.Head, err = s.repo.HeadCommit(); err != nil {
		return Snapshot{}, err
	}
	if snap.Branches, err = s.repo.Branches(); err != nil {
		return Snapshot{}, err
	}
	if snap.Tags, err = s.repo.Tags(); err != nil {
		return Snapshot{}, err
	}

	l, err := s.Discover()
	if err != nil {
		snap.VersionError = err.Error()
		return snap, nil
	}
	snap.Layout = &l

	v, err := version.Read(l.MarkerPath(s.cfg.Project.MarkerFile), s.cfg.Project.VersionVariable)
	if err != nil {
		snap.VersionError = err.Error()
		return snap, nil
	}
	snap.Version = v
	return snap, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
