package cli

import (
	"github.com/spf13/cobra"

	"stackpr.dev/stackpr/internal/actions"
	"stackpr.dev/stackpr/internal/cli/helpers"
	"stackpr.dev/stackpr/internal/runtime"
	"stackpr.dev/stackpr/internal/tui"
)

// newLandCmd creates the land command
func newLandCmd() *cobra.Command {
	var (
		stack   stackFlags
		confirm bool
	)

	cmd := &cobra.Command{
		Use:   "land",
		Short: "Squash merge every PR of the stack into the target, oldest first",
		Long: `Verify the stack against GitHub and squash merge its PRs into the target
branch one at a time, oldest first. The remaining PRs are rebased onto the
updated target after each merge. Head branches are deleted at the end.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, stack.remote, func(ctx *runtime.Context) error {
				opts := actions.LandOptions{StackOptions: stack.options()}
				if confirm {
					opts.Confirm = tui.Confirm
				}
				return actions.LandAction(ctx, opts)
			})
		},
	}

	addStackFlags(cmd, &stack)
	cmd.Flags().BoolVar(&confirm, "confirm", false, "Ask for confirmation before merging anything.")

	return cmd
}
