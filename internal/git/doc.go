// Package git provides the git side of stack-pr.
//
// It wraps git command execution and go-git repository reads behind the
// Runner interface:
//   - Commit range export (rev-list --header) and its parser
//   - Ref queries (ancestry, merge-base, resolution, ref listing)
//   - Branch mutations (checkout, delete, rebase, amend)
//   - Remote operations (fetch, push, remote branch deletion)
//
// This package should be the only place where git commands are executed.
package git
