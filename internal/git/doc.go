// Package git provides repository access for curator.
//
// Reads (branches, tags, HEAD, description) use go-git against the
// repository's files, which works on unborn branches and needs no process
// per query. Mutations (checkout, commit, merge, tag, push) shell out to the
// git CLI so that user configuration such as hooks, signing and credential
// helpers applies exactly as it would from a terminal.
//
// # Repository State
//
//   - [Open]: find the repository enclosing a path
//   - [Repository.Branches], [Repository.ActiveBranch]: local branches
//   - [Repository.Tags]: tags, versions first in precedence order
//   - [Repository.Description]: the .git/description text
//
// # Mutations
//
//   - [Repository.CreateBranch], [Repository.Checkout]
//   - [Repository.Add], [Repository.Commit]
//   - [Repository.Merge], [Repository.CreateTag]
//
// Errors for missing or duplicate refs wrap [ErrBranchExists],
// [ErrBranchNotFound] and [ErrTagExists] so callers can use errors.Is.
package git
