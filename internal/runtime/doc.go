// Package runtime provides the execution context for stack-pr commands.
//
// It bundles the git and PR host ports, the logger and the resolved settings
// that actions need, so actions take a single parameter.
package runtime
