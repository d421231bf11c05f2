package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"stackpr.dev/stackpr/internal/config"
	"stackpr.dev/stackpr/internal/git"
)

// newConfigCmd creates the config command
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Get and set repository configuration",
		Long: fmt.Sprintf(`Get and set repository configuration values stored in .git/.stack_pr_config.

Valid keys: %s

Examples:
  stack-pr config set target develop
  stack-pr config get target`, strings.Join(config.RepoConfigKeys, ", ")),
	}

	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigSetCmd())

	return cmd
}

// newConfigGetCmd creates the config get command
func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repoRoot, err := repoRoot()
			if err != nil {
				return err
			}
			value, ok, err := config.GetRepoValue(repoRoot, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%s is not set", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
}

// newConfigSetCmd creates the config set command
func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			repoRoot, err := repoRoot()
			if err != nil {
				return err
			}
			if err := config.SetRepoValue(repoRoot, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s to %s\n", args[0], args[1])
			return nil
		},
	}
}

func repoRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	runner, err := git.NewRealRunner(cwd)
	if err != nil {
		return "", fmt.Errorf("not a git repository: %w", err)
	}
	return runner.RepoRoot(), nil
}
