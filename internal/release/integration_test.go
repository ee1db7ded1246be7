package release

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/raphi011/curator/internal/config"
	"github.com/raphi011/curator/internal/git"
	"github.com/raphi011/curator/internal/git/gittest"
)

func openService(t *testing.T, root string) *Service {
	t.Helper()
	repo, err := git.Open(root)
	require.NoError(t, err)
	cfg := config.Default()
	service, err := NewService(Dependencies{
		Repository:  repo,
		Config:      &cfg,
		JournalPath: filepath.Join(t.TempDir(), "journal.json"),
	})
	require.NoError(t, err)
	return service
}

func TestReleaseWorkflowOnRealRepository(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	root := gittest.NewProject(t, gittest.Project{Namespace: "acme", Module: "widgets", Version: "0.1.0", Changelog: true})
	service := openService(t, root)

	created, err := service.CreateReleaseBranch(ctx, CreateOptions{Version: "0.2.0"})
	require.NoError(t, err)
	require.Equal(t, "Release branch release-0.2.0 created and initialized for release 0.2.0", created.Message)

	require.Equal(t, "release-0.2.0", gittest.Run(t, root, "branch", "--show-current"))
	require.Equal(t, "Start release 0.2.0", gittest.Run(t, root, "log", "-1", "--format=%s"))
	require.Empty(t, gittest.Run(t, root, "status", "--porcelain"))

	changed := gittest.Run(t, root, "show", "--name-only", "--format=", "HEAD")
	require.ElementsMatch(t, []string{"CHANGELOG.md", "src/acme/widgets/__init__.py"}, strings.Split(changed, "\n"))

	merged, err := service.MergeToMain(ctx, MergeOptions{})
	require.NoError(t, err)
	require.Equal(t, "Merged release-0.2.0 to main", merged.Message)
	require.Equal(t, "main", gittest.Run(t, root, "branch", "--show-current"))
	require.Equal(t, "Merge release-0.2.0 into main", gittest.Run(t, root, "log", "-1", "--format=%s"))

	v, err := service.CurrentVersion()
	require.NoError(t, err)
	require.Equal(t, "0.2.0", v)

	tagged, err := service.TagRelease(ctx, TagOptions{})
	require.NoError(t, err)
	require.Equal(t, "v0.2.0", tagged.Tag)
	require.Equal(t, "Release v0.2.0", gittest.Run(t, root, "tag", "-l", "--format=%(contents:subject)", "v0.2.0"))

	snap, err := service.Snapshot()
	require.NoError(t, err)
	require.Equal(t, "main", snap.Active)
	require.Equal(t, []string{"v0.2.0"}, snap.Tags)
	require.Equal(t, []string{"release-0.2.0"}, snap.ReleaseBranches())
	require.Equal(t, "0.2.0", snap.Version)
}

func TestOpenMergesLocalConfig(t *testing.T) {
	t.Parallel()
	root := gittest.NewProject(t, gittest.Project{Module: "widgets", Version: "1.0.0", Changelog: true})
	gittest.CommitFile(t, root, ".curator.toml", "[release]\nbranch_format = \"rel/{version}\"\n", "Add curator config")

	defaults := config.Default()
	defaults.JournalPath = ""
	ctx := config.WithConfig(context.Background(), &defaults)

	service, err := Open(ctx, filepath.Join(root, "src", "widgets"), nil)
	require.NoError(t, err)
	require.Equal(t, "rel/1.1.0", service.Config().BranchName("1.1.0"))
	require.Equal(t, root, service.Root())
}
