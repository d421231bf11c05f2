package helpers

import (
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"stackpr.dev/stackpr/internal/git"
)

// CompleteBranches is a helper for RegisterFlagCompletionFunc that returns
// all local branch names in the repository.
func CompleteBranches(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	runner, err := git.NewRealRunner(cwd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	refs, err := runner.ListRefs(cmd.Context(), "refs/heads/")
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	branches := make([]string, 0, len(refs))
	for name := range refs {
		branches = append(branches, strings.TrimPrefix(name, "refs/heads/"))
	}
	sort.Strings(branches)
	return branches, cobra.ShellCompDirectiveNoFileComp
}
