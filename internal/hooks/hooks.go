package hooks

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"sort"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/raphi011/curator/internal/config"
	"github.com/raphi011/curator/internal/log"
)

// shellQuote escapes a string for safe use in shell commands.
// e.g., "it's" becomes 'it'\''s'
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
}

// Trigger identifies which release action is running the hook
type Trigger string

const (
	TriggerCreate Trigger = "create"
	TriggerMerge  Trigger = "merge"
	TriggerTag    Trigger = "tag"
	TriggerRun    Trigger = "run" // curator hook <name>
)

// Context holds the values for placeholder substitution
type Context struct {
	Root    string            // repository root, also the working directory
	Branch  string            // release branch
	Version string            // release version
	Tag     string            // tag name (tag trigger only)
	Main    string            // main branch name
	Trigger Trigger           // action that triggered the hook
	Env     map[string]string // custom variables from --arg key=value
	DryRun  bool              // if true, print command instead of executing
}

// Match is a hook selected to run
type Match struct {
	Name string
	Hook config.Hook
}

// Select determines which hooks to run based on config and CLI flags.
// If hookName is set only that hook runs, regardless of its "on" list.
// Otherwise every hook whose "on" list contains trigger (or "all") runs, in name order.
func Select(cfg config.HooksConfig, hookName string, noHook bool, trigger Trigger) ([]Match, error) {
	if noHook {
		return nil, nil
	}

	if hookName != "" {
		hook, exists := cfg.Hooks[hookName]
		if !exists {
			return nil, fmt.Errorf("unknown hook %q", hookName)
		}
		return []Match{{Name: hookName, Hook: hook}}, nil
	}

	var matches []Match
	for name, hook := range cfg.Hooks {
		if matchesTrigger(hook, trigger) {
			matches = append(matches, Match{Name: name, Hook: hook})
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Name < matches[j].Name })
	return matches, nil
}

// matchesTrigger returns true if trigger is in the hook's "on" list.
// Hooks without "on" never match; they only run via --hook=name.
func matchesTrigger(hook config.Hook, trigger Trigger) bool {
	for _, on := range hook.On {
		if on == "all" || on == string(trigger) {
			return true
		}
	}
	return false
}

// Runner executes hooks. Zero values fall back to the process' stdio;
// the dashboard points Out and Err at buffers so output never hits the screen.
type Runner struct {
	Out io.Writer
	Err io.Writer
	In  io.Reader
}

func (r Runner) out() io.Writer {
	if r.Out != nil {
		return r.Out
	}
	return os.Stdout
}

func (r Runner) errOut() io.Writer {
	if r.Err != nil {
		return r.Err
	}
	return os.Stderr
}

// RunAll runs the matched hooks in order and stops at the first failure.
func (r Runner) RunAll(ctx context.Context, matches []Match, hc Context) error {
	for _, m := range matches {
		if err := r.Run(ctx, m, hc); err != nil {
			return fmt.Errorf("hook %q failed: %w", m.Name, err)
		}
	}
	return nil
}

// RunAllNonFatal runs every matched hook, logging failures as warnings.
// Returns the number of hooks that failed.
func (r Runner) RunAllNonFatal(ctx context.Context, matches []Match, hc Context) int {
	failed := 0
	for _, m := range matches {
		if err := r.Run(ctx, m, hc); err != nil {
			log.FromContext(ctx).Warn("hook failed", "hook", m.Name, "trigger", string(hc.Trigger), "error", err)
			fmt.Fprintf(r.errOut(), "Warning: hook %q failed: %v\n", m.Name, err)
			failed++
		}
	}
	return failed
}

// Run executes a single hook with placeholder substitution in hc.Root.
func (r Runner) Run(ctx context.Context, m Match, hc Context) error {
	command := SubstitutePlaceholders(m.Hook.Command, hc)

	if hc.DryRun {
		fmt.Fprintf(r.out(), "[dry-run] %s: %s\n", m.Name, command)
		return nil
	}

	fmt.Fprintf(r.out(), "Running hook '%s'...\n", m.Name)
	log.FromContext(ctx).Debug("running hook", "hook", m.Name, "command", command)

	shellCmd := exec.CommandContext(ctx, "sh", "-c", command)
	shellCmd.Dir = hc.Root
	shellCmd.Stdout = r.out()
	shellCmd.Stderr = r.errOut()
	shellCmd.Stdin = r.In

	if err := shellCmd.Run(); err != nil {
		return err
	}

	if m.Hook.Description != "" {
		fmt.Fprintf(r.out(), "  ✓ %s\n", m.Hook.Description)
	}
	return nil
}

// parseKeyValue splits "key=value", rejecting entries without "=" or key.
func parseKeyValue(e string) (string, string, error) {
	key, value, ok := strings.Cut(e, "=")
	if !ok {
		return "", "", fmt.Errorf("invalid arg format %q: expected KEY=VALUE", e)
	}
	if key == "" {
		return "", "", fmt.Errorf("invalid arg format %q: key cannot be empty", e)
	}
	return key, value, nil
}

// ParseEnv parses a slice of "key=value" strings into a map.
func ParseEnv(envSlice []string) (map[string]string, error) {
	result := make(map[string]string)
	for _, e := range envSlice {
		key, value, err := parseKeyValue(e)
		if err != nil {
			return nil, err
		}
		result[key] = value
	}
	return result, nil
}

// readStdinIfPiped reads all content from stdin if it's piped (not a TTY).
// Returns empty string and nil if stdin is a TTY (interactive).
func readStdinIfPiped() (string, error) {
	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return "", nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

// ParseEnvWithStdin is like ParseEnv, but a value of "-" is replaced with
// the content piped on stdin (read once, shared by all such keys).
func ParseEnvWithStdin(envSlice []string) (map[string]string, error) {
	result := make(map[string]string)
	var stdinKeys []string

	for _, e := range envSlice {
		key, value, err := parseKeyValue(e)
		if err != nil {
			return nil, err
		}
		if value == "-" {
			stdinKeys = append(stdinKeys, key)
			continue
		}
		result[key] = value
	}

	if len(stdinKeys) > 0 {
		content, err := readStdinIfPiped()
		if err != nil {
			return nil, err
		}
		if content == "" {
			return nil, fmt.Errorf("stdin not piped: KEY=- requires piped input")
		}
		for _, key := range stdinKeys {
			result[key] = content
		}
	}

	return result, nil
}

// envPlaceholderRegex matches {key}, {key:raw}, or {key:-default} patterns.
// Applied after the static replacements.
var envPlaceholderRegex = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)(?:(:raw)|:-([^}]*))?\}`)

// SubstitutePlaceholders replaces {placeholder} with shell-quoted values from hc.
//
// Static placeholders: {root}, {branch}, {version}, {tag}, {main}, {trigger}
// Custom placeholders (from hc.Env):
//   - {key}          - shell-quoted value
//   - {key:raw}      - unquoted value (for embedding in existing quotes)
//   - {key:-default} - shell-quoted value with default if key missing
func SubstitutePlaceholders(command string, hc Context) string {
	result := strings.NewReplacer(
		"{root}", shellQuote(hc.Root),
		"{branch}", shellQuote(hc.Branch),
		"{version}", shellQuote(hc.Version),
		"{tag}", shellQuote(hc.Tag),
		"{main}", shellQuote(hc.Main),
		"{trigger}", shellQuote(string(hc.Trigger)),
	).Replace(command)

	return envPlaceholderRegex.ReplaceAllStringFunc(result, func(match string) string {
		submatch := envPlaceholderRegex.FindStringSubmatch(match)
		if submatch == nil {
			return match
		}
		key := submatch[1]
		isRaw := submatch[2] == ":raw"
		defaultVal := submatch[3]

		if val, ok := hc.Env[key]; ok {
			if isRaw {
				return val
			}
			return shellQuote(val)
		}
		if isRaw {
			return defaultVal
		}
		return shellQuote(defaultVal)
	})
}
