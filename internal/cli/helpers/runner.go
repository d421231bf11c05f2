// Package helpers provides shared helper functions for CLI commands.
package helpers

import (
	"github.com/spf13/cobra"

	"stackpr.dev/stackpr/internal/runtime"
)

// Run is a helper that provides a runtime context to a command's execution
// function. A non-empty remote overrides the configured one.
func Run(cmd *cobra.Command, remote string, fn func(ctx *runtime.Context) error) error {
	ctx, err := runtime.GetContext(cmd.Context(), remote)
	if err != nil {
		return err
	}
	defer func() { _ = ctx.Close() }()
	return fn(ctx)
}
