package cli

import (
	"github.com/spf13/cobra"

	"stackpr.dev/stackpr/internal/actions"
	"stackpr.dev/stackpr/internal/cli/helpers"
)

// stackFlags are the range and remote options every stack command takes
type stackFlags struct {
	remote string
	base   string
	head   string
	target string
}

func addStackFlags(cmd *cobra.Command, f *stackFlags) {
	cmd.Flags().StringVarP(&f.remote, "remote", "R", "", "Remote to push branches to and open PRs on (default: origin or the configured remote).")
	cmd.Flags().StringVarP(&f.base, "base", "B", "", "Exclude the history of this revision from the stack (default: merge-base of head and the remote target).")
	cmd.Flags().StringVarP(&f.head, "head", "H", "HEAD", "Top commit of the stack.")
	cmd.Flags().StringVarP(&f.target, "target", "T", "", "Remote branch the bottom PR merges into (default: main or the configured target).")

	_ = cmd.RegisterFlagCompletionFunc("base", helpers.CompleteBranches)
	_ = cmd.RegisterFlagCompletionFunc("head", helpers.CompleteBranches)
	_ = cmd.RegisterFlagCompletionFunc("target", helpers.CompleteBranches)
}

// options leaves unset values empty so the actions fall back to settings
func (f *stackFlags) options() actions.StackOptions {
	return actions.StackOptions{
		Remote: f.remote,
		Base:   f.base,
		Head:   f.head,
		Target: f.target,
	}
}
