package cli

import (
	"github.com/spf13/cobra"

	"stackpr.dev/stackpr/internal/actions"
	"stackpr.dev/stackpr/internal/cli/helpers"
	"stackpr.dev/stackpr/internal/runtime"
)

// newViewCmd creates the view command
func newViewCmd() *cobra.Command {
	var stack stackFlags

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Show the stack and the PR linked to each commit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, stack.remote, func(ctx *runtime.Context) error {
				_, err := actions.ViewAction(ctx, stack.options())
				return err
			})
		},
	}

	addStackFlags(cmd, &stack)

	return cmd
}
