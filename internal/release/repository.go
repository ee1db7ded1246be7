package release

import (
	"context"

	"github.com/raphi011/curator/internal/git"
	"github.com/raphi011/curator/internal/hooks"
)

// Reader exposes repository state.
type Reader interface {
	Root() string
	Description() string
	ActiveBranch() (string, error)
	Branches() ([]git.Branch, error)
	Tags() ([]string, error)
	BranchExists(name string) (bool, error)
	TagExists(name string) (bool, error)
	HeadCommit() (git.Commit, error)
	IsDirty(ctx context.Context) (bool, error)
}

// Mutator changes repository state.
type Mutator interface {
	CreateBranch(ctx context.Context, name string) error
	Checkout(ctx context.Context, name string) error
	Add(ctx context.Context, paths ...string) error
	Commit(ctx context.Context, message string) error
	Merge(ctx context.Context, branch, message string, noFF bool) error
	CreateTag(ctx context.Context, name, message string) error
}

// Repository is everything the service needs from git.
type Repository interface {
	Reader
	Mutator
}

// HookRunner runs the hooks selected for an action.
type HookRunner interface {
	RunAllNonFatal(ctx context.Context, matches []hooks.Match, hc hooks.Context) int
}

var (
	_ Repository = (*git.Repository)(nil)
	_ HookRunner = hooks.Runner{}
)
