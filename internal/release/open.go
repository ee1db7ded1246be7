package release

import (
	"context"

	"github.com/raphi011/curator/internal/config"
	"github.com/raphi011/curator/internal/git"
)

// Open opens the repository enclosing dir and builds a Service using the
// context's config merged with the repository's .curator.toml.
func Open(ctx context.Context, dir string, runner HookRunner) (*Service, error) {
	repo, err := git.Open(dir)
	if err != nil {
		return nil, err
	}
	cfg, err := config.ForRepo(ctx, repo.Root())
	if err != nil {
		return nil, err
	}
	return NewService(Dependencies{
		Repository:  repo,
		Config:      cfg,
		Hooks:       runner,
		JournalPath: cfg.JournalPath,
	})
}
