// Package release sequences repository, layout, version and changelog
// operations into the release workflow.
//
// A release starts with [Service.CreateReleaseBranch], which branches off
// the current HEAD, bumps the version marker, appends a changelog section
// and commits both as the first commit of the branch. [Service.MergeToMain]
// merges the branch back and [Service.TagRelease] tags the result on main.
//
// Each step is a single call into git or the filesystem. A failing step
// stops the workflow and leaves the repository as git left it.
//
// After every successful action the configured hooks for its trigger run
// and an entry is appended to the journal. Hook failures are reported as
// warnings and never fail the action.
package release
