// Package hooks runs user-defined shell commands after release actions.
//
// Hooks are defined in config and run after curator creates a release
// branch, merges it into main or tags a release. Typical uses are pushing
// the new branch, publishing the tag or kicking off a build.
//
// # Hook Selection
//
//   - Automatic: hooks whose "on" list contains the action (or "all")
//   - Manual: --hook=name runs one hook, --no-hook skips all
//
//	[hooks.publish]
//	command = "git push origin {main} {tag}"
//	on = ["tag"]
//
// # Placeholder Substitution
//
// All values are shell-quoted:
//
//   - {root}: repository root
//   - {branch}: release branch
//   - {version}: release version
//   - {tag}: tag name
//   - {main}: main branch
//   - {trigger}: create, merge or tag
//
// Custom variables via --arg key=value are available as {key},
// {key:raw} and {key:-default}. --arg key=- reads the value from stdin.
//
// Hooks run with the repository root as working directory. Failures after
// a successful release action are reported as warnings; the action itself
// is not undone.
package hooks
