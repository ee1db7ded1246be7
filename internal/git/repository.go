package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/filesystem"

	"github.com/raphi011/curator/internal/version"
)

// Detached is reported as the active branch when HEAD points at a commit.
const Detached = "(detached)"

var (
	// ErrNotRepository is returned when no repository encloses the path.
	ErrNotRepository = errors.New("not a git repository")

	// ErrBareRepository is returned for repositories without a work tree.
	ErrBareRepository = errors.New("bare repositories are not supported")

	// ErrBranchExists is returned when a branch to be created already exists.
	ErrBranchExists = errors.New("branch already exists")

	// ErrBranchNotFound is returned when a named branch does not exist.
	ErrBranchNotFound = errors.New("branch not found")

	// ErrTagExists is returned when a tag to be created already exists.
	ErrTagExists = errors.New("tag already exists")
)

// Branch is a local branch and whether HEAD points at it.
type Branch struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// Commit summarizes a commit for display.
type Commit struct {
	Hash    string `json:"hash"`
	Subject string `json:"subject"`
}

// Repository is an opened git repository with a work tree.
//
// Reads go through go-git; mutations shell out to the git CLI so that user
// hooks and signing configuration apply.
type Repository struct {
	repo   *gogit.Repository
	root   string
	gitDir string
}

// Open finds the repository enclosing path, searching parent directories.
func Open(path string) (*Repository, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	repo, err := gogit.PlainOpenWithOptions(abs, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		// A bare repository has no .git to detect; open the path itself.
		repo, err = gogit.PlainOpen(abs)
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotRepository, abs)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("open repository at %s: %w", abs, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		if errors.Is(err, gogit.ErrIsBareRepository) {
			return nil, fmt.Errorf("%w: %s", ErrBareRepository, abs)
		}
		return nil, fmt.Errorf("open work tree: %w", err)
	}

	r := &Repository{repo: repo, root: wt.Filesystem.Root()}
	if st, ok := repo.Storer.(*filesystem.Storage); ok {
		r.gitDir = st.Filesystem().Root()
	} else {
		r.gitDir = filepath.Join(r.root, ".git")
	}
	return r, nil
}

// Root returns the absolute work tree root.
func (r *Repository) Root() string {
	return r.root
}

// GitDir returns the repository's git directory.
func (r *Repository) GitDir() string {
	return r.gitDir
}

// Description returns the content of the repository's description file,
// or "" when it has none.
func (r *Repository) Description() string {
	data, err := os.ReadFile(filepath.Join(r.gitDir, "description"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// ActiveBranch returns the branch HEAD points at, even before the first commit.
// Returns Detached when HEAD is not symbolic.
func (r *Repository) ActiveBranch() (string, error) {
	head, err := r.repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD: %w", err)
	}
	if head.Type() != plumbing.SymbolicReference {
		return Detached, nil
	}
	return head.Target().Short(), nil
}

// Branches returns local branches sorted by name with the active one flagged.
func (r *Repository) Branches() ([]Branch, error) {
	iter, err := r.repo.Branches()
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	defer iter.Close()

	active, err := r.ActiveBranch()
	if err != nil {
		return nil, err
	}

	var branches []Branch
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		branches = append(branches, Branch{Name: name, Active: name == active})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}

	sort.Slice(branches, func(i, j int) bool { return branches[i].Name < branches[j].Name })
	return branches, nil
}

// Tags returns tag names. Tags that parse as versions come first in
// ascending precedence, followed by the rest in lexical order.
func (r *Repository) Tags() ([]string, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer iter.Close()

	var tags []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		tags = append(tags, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	SortTags(tags)
	return tags, nil
}

// SortTags orders tags in place: versions by precedence, then others by name.
func SortTags(tags []string) {
	sort.SliceStable(tags, func(i, j int) bool {
		vi, vj := version.Valid(tags[i]), version.Valid(tags[j])
		switch {
		case vi && vj:
			if c := version.Compare(tags[i], tags[j]); c != 0 {
				return c < 0
			}
			return tags[i] < tags[j]
		case vi != vj:
			return vi
		default:
			return tags[i] < tags[j]
		}
	})
}

// BranchExists reports whether a local branch named name exists.
func (r *Repository) BranchExists(name string) (bool, error) {
	return r.refExists(plumbing.NewBranchReferenceName(name))
}

// TagExists reports whether a tag named name exists.
func (r *Repository) TagExists(name string) (bool, error) {
	return r.refExists(plumbing.NewTagReferenceName(name))
}

func (r *Repository) refExists(name plumbing.ReferenceName) (bool, error) {
	_, err := r.repo.Reference(name, false)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to resolve %s: %w", name, err)
	}
	return true, nil
}

// HeadCommit returns the commit HEAD resolves to.
// Returns a zero Commit on an unborn branch.
func (r *Repository) HeadCommit() (Commit, error) {
	head, err := r.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return Commit{}, nil
	}
	if err != nil {
		return Commit{}, fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	c, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return Commit{}, fmt.Errorf("failed to read HEAD commit: %w", err)
	}
	subject, _, _ := strings.Cut(c.Message, "\n")
	return Commit{Hash: head.Hash().String()[:7], Subject: subject}, nil
}
