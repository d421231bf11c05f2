package cli

import (
	"github.com/spf13/cobra"

	"stackpr.dev/stackpr/internal/actions"
	"stackpr.dev/stackpr/internal/cli/helpers"
	"stackpr.dev/stackpr/internal/runtime"
	"stackpr.dev/stackpr/internal/tui"
)

// newAbandonCmd creates the abandon command
func newAbandonCmd() *cobra.Command {
	var (
		stack   stackFlags
		confirm bool
	)

	cmd := &cobra.Command{
		Use:   "abandon",
		Short: "Remove stack metadata from the commits and delete their branches",
		Long: `Strip the PR and branch metadata from every commit of the stack and delete
the local and remote head branches. Pull requests on GitHub are not closed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, stack.remote, func(ctx *runtime.Context) error {
				opts := actions.AbandonOptions{StackOptions: stack.options()}
				if confirm {
					opts.Confirm = tui.Confirm
				}
				return actions.AbandonAction(ctx, opts)
			})
		},
	}

	addStackFlags(cmd, &stack)
	cmd.Flags().BoolVar(&confirm, "confirm", false, "Ask for confirmation before rewriting anything.")

	return cmd
}
