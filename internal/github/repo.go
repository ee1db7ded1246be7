package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/raphi011/curator/internal/cmd"
)

// repoFields are requested from `gh repo view --json`.
const repoFields = "name,nameWithOwner,owner,description,homepageUrl,createdAt,updatedAt,stargazerCount,forkCount,primaryLanguage,licenseInfo,url,sshUrl"

// ErrNoReadme is returned when a repository has no README.
var ErrNoReadme = errors.New("repository has no README")

// Named wraps the {"name": ...} objects gh returns for languages and licenses.
type Named struct {
	Name string `json:"name"`
}

// Repo is the repository metadata returned by gh.
type Repo struct {
	Name            string    `json:"name"`
	NameWithOwner   string    `json:"nameWithOwner"`
	Owner           Owner     `json:"owner"`
	Description     string    `json:"description"`
	HomepageURL     string    `json:"homepageUrl"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	StargazerCount  int       `json:"stargazerCount"`
	ForkCount       int       `json:"forkCount"`
	PrimaryLanguage *Named    `json:"primaryLanguage"`
	LicenseInfo     *Named    `json:"licenseInfo"`
	URL             string    `json:"url"`
	SSHURL          string    `json:"sshUrl"`
}

// Owner is the account owning a repository.
type Owner struct {
	Login string `json:"login"`
}

// Language returns the primary language name, or "".
func (r Repo) Language() string {
	if r.PrimaryLanguage == nil {
		return ""
	}
	return r.PrimaryLanguage.Name
}

// License returns the license name, or "".
func (r Repo) License() string {
	if r.LicenseInfo == nil {
		return ""
	}
	return r.LicenseInfo.Name
}

// Readme is a decoded README file.
type Readme struct {
	Name    string
	Content string
}

// Runner executes gh with args and returns stdout.
type Runner func(ctx context.Context, args ...string) ([]byte, error)

// CLI talks to GitHub through the gh command.
type CLI struct {
	run Runner
}

// NewCLI returns a CLI running the gh binary from PATH.
func NewCLI() *CLI {
	return &CLI{run: func(ctx context.Context, args ...string) ([]byte, error) {
		return cmd.OutputContext(ctx, "", "gh", args...)
	}}
}

// NewCLIWithRunner returns a CLI using run instead of the gh binary.
func NewCLIWithRunner(run Runner) *CLI {
	return &CLI{run: run}
}

// ValidateSpec checks spec has the "owner/name" form.
func ValidateSpec(spec string) error {
	owner, name, ok := strings.Cut(spec, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("invalid repository %q: expected owner/name", spec)
	}
	return nil
}

// Repo fetches repository metadata.
func (c *CLI) Repo(ctx context.Context, spec string) (Repo, error) {
	var r Repo
	if err := c.runJSON(ctx, &r, "repo", "view", spec, "--json", repoFields); err != nil {
		return Repo{}, fmt.Errorf("gh repo view %s: %w", spec, err)
	}
	return r, nil
}

// LatestRelease returns the tag of the latest release, or "" when the
// repository has none.
func (c *CLI) LatestRelease(ctx context.Context, spec string) (string, error) {
	var rel struct {
		TagName string `json:"tagName"`
	}
	if err := c.runJSON(ctx, &rel, "release", "view", "--repo", spec, "--json", "tagName"); err != nil {
		if strings.Contains(err.Error(), "release not found") {
			return "", nil
		}
		return "", fmt.Errorf("gh release view %s: %w", spec, err)
	}
	return rel.TagName, nil
}

// Readme fetches the repository's README through the contents API.
func (c *CLI) Readme(ctx context.Context, spec string) (Readme, error) {
	var raw struct {
		Name     string `json:"name"`
		Content  string `json:"content"`
		Encoding string `json:"encoding"`
	}
	if err := c.runJSON(ctx, &raw, "api", "repos/"+spec+"/readme"); err != nil {
		if strings.Contains(err.Error(), "Not Found") {
			return Readme{}, ErrNoReadme
		}
		return Readme{}, fmt.Errorf("gh api readme %s: %w", spec, err)
	}

	content := raw.Content
	if raw.Encoding == "base64" {
		data, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(raw.Content, "\n", ""))
		if err != nil {
			return Readme{}, fmt.Errorf("decode README: %w", err)
		}
		content = string(data)
	}
	return Readme{Name: raw.Name, Content: content}, nil
}

func (c *CLI) runJSON(ctx context.Context, dest any, args ...string) error {
	out, err := c.run(ctx, args...)
	if err != nil {
		return err
	}
	if strings.TrimSpace(string(out)) == "" {
		return errors.New("empty response from gh")
	}
	if err := json.Unmarshal(out, dest); err != nil {
		return fmt.Errorf("failed to parse gh output: %w", err)
	}
	return nil
}
