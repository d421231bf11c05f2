package cli

import (
	"github.com/spf13/cobra"

	"stackpr.dev/stackpr/internal/actions"
	"stackpr.dev/stackpr/internal/cli/helpers"
	"stackpr.dev/stackpr/internal/runtime"
)

// newSubmitCmd creates the submit command
func newSubmitCmd() *cobra.Command {
	var (
		stack             stackFlags
		draft             bool
		draftBitmask      string
		reviewer          string
		keepBody          bool
		keepLocalBranches bool
	)

	cmd := &cobra.Command{
		Use:     "submit",
		Aliases: []string{"export"},
		Short:   "Create or update one PR per commit of the stack",
		Long: `Create or update one pull request per commit between base and head.

Each PR is based on the PR of the commit below it, and the bottom PR targets
the target branch. The PR and branch of every commit are recorded in its
commit message, and every PR description lists the whole stack.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, stack.remote, func(ctx *runtime.Context) error {
				opts := actions.SubmitOptions{
					StackOptions:      stack.options(),
					Draft:             draft,
					DraftBitmask:      draftBitmask,
					Reviewer:          ctx.Settings.Reviewer,
					KeepBody:          ctx.Settings.KeepBody,
					KeepLocalBranches: keepLocalBranches,
				}
				if cmd.Flags().Changed("reviewer") {
					opts.Reviewer = reviewer
				}
				if cmd.Flags().Changed("keep-body") {
					opts.KeepBody = keepBody
				}
				return actions.SubmitAction(ctx, opts)
			})
		},
	}

	addStackFlags(cmd, &stack)
	cmd.Flags().BoolVarP(&draft, "draft", "d", false, "Open new PRs as drafts.")
	cmd.Flags().StringVar(&draftBitmask, "draft-bitmask", "", "Draft state per commit, oldest first, e.g. 0010. Must have one digit per commit.")
	cmd.Flags().StringVar(&reviewer, "reviewer", "", "Comma separated reviewers for new PRs; org/team entries request team reviews (default: STACK_PR_DEFAULT_REVIEWER).")
	cmd.Flags().BoolVar(&keepBody, "keep-body", false, "Keep the current PR descriptions and only refresh the stack block above them.")
	cmd.Flags().BoolVar(&keepLocalBranches, "keep-local-branches", false, "Keep the local head branches after submitting.")
	cmd.MarkFlagsMutuallyExclusive("draft", "draft-bitmask")

	return cmd
}
