package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "stack-pr",
		Short: "stack-pr keeps a linear stack of commits in sync with a chain of GitHub pull requests",
		Long: `stack-pr keeps a linear stack of commits in sync with a chain of GitHub pull requests.

Every commit between the base and head becomes one PR whose base is the PR
below it. The commit message records the PR and branch it belongs to, so the
stack can be updated, landed or abandoned later from any clone.`,
		Version:      version,
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate(fmt.Sprintf("stack-pr {{.Version}} (commit %s, built %s)\n", commit, date))

	rootCmd.AddCommand(newSubmitCmd())
	rootCmd.AddCommand(newLandCmd())
	rootCmd.AddCommand(newAbandonCmd())
	rootCmd.AddCommand(newViewCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}
