package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/raphi011/curator/internal/changelog"
)

// Valid enum values for configuration fields.
var (
	ValidHookTriggers = []string{"create", "merge", "tag", "all"}
	ValidThemeNames   = []string{"default", "dracula", "nord", "gruvbox", "catppuccin", "none"}
	ValidThemeModes   = []string{"auto", "light", "dark"}
)

// Validate checks the effective configuration for values that would make
// release operations produce nonsense (empty names, templates without a version).
func (c *Config) Validate() error {
	required := []struct{ field, value string }{
		{"main_branch", c.MainBranch},
		{"project.source_dir", c.Project.SourceDir},
		{"project.marker_file", c.Project.MarkerFile},
		{"project.version_variable", c.Project.VersionVariable},
		{"release.commit_message", c.Release.CommitMessage},
		{"changelog.file", c.Changelog.File},
		{"merge.message", c.Merge.Message},
		{"gather.output_dir", c.Gather.OutputDir},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%s must not be empty", r.field)
		}
	}

	versioned := []struct{ field, value string }{
		{"release.branch_format", c.Release.BranchFormat},
		{"release.tag_format", c.Release.TagFormat},
		{"changelog.template", c.Changelog.Template},
	}
	for _, v := range versioned {
		if !strings.Contains(v.value, "{version}") {
			return fmt.Errorf("invalid %s %q: must contain {version}", v.field, v.value)
		}
	}

	if err := changelog.CheckTemplate(c.Changelog.Template); err != nil {
		return fmt.Errorf("invalid changelog.template %q: %w", c.Changelog.Template, err)
	}

	if err := validateExtensions(c.Gather.Extensions); err != nil {
		return err
	}
	return validateHooks(c.Hooks, "")
}

// validateHooks checks trigger names of every hook.
func validateHooks(hc HooksConfig, contextInfo string) error {
	for name, hook := range hc.Hooks {
		for _, on := range hook.On {
			if err := validateEnum(on, "hooks."+name+".on", ValidHookTriggers); err != nil {
				if contextInfo != "" {
					return fmt.Errorf("%w in %s", err, contextInfo)
				}
				return err
			}
		}
	}
	return nil
}

// validateExtensions requires every gather extension to start with a dot.
func validateExtensions(exts []string) error {
	for i, ext := range exts {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("invalid gather.extensions[%d] %q: must look like \".py\"", i, ext)
		}
	}
	return nil
}

// validateEnum checks that value (if non-empty) is one of the allowed values.
// Returns a formatted error mentioning the field name and allowed options.
func validateEnum(value, field string, allowed []string) error {
	if value == "" {
		return nil
	}
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("invalid %s %q: must be %s", field, value, formatOptions(allowed))
	}
	return nil
}

// formatOptions formats a list of allowed values for error messages.
// E.g., ["a", "b", "c"] -> `"a", "b", or "c"`
func formatOptions(opts []string) string {
	quoted := make([]string, len(opts))
	for i, o := range opts {
		quoted[i] = fmt.Sprintf("%q", o)
	}
	if len(quoted) <= 2 {
		return strings.Join(quoted, " or ")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}
