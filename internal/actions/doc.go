// Package actions implements the stack synchronization operations behind the
// CLI commands: submit, land, abandon and view.
//
// Each action takes a runtime.Context, rebuilds the stack from history and
// then drives the git and PR host ports strictly in sequence. Actions assume
// exclusive ownership of the repository working copy while they run: no
// other process may move branches or edit files in it.
//
// On failure submit, land and abandon check out the branch the caller was on
// (best effort) and return the original error. Nothing is rolled back.
package actions
