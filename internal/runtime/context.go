package runtime

import (
	"context"
	"fmt"
	"os"

	"stackpr.dev/stackpr/internal/config"
	"stackpr.dev/stackpr/internal/git"
	"stackpr.dev/stackpr/internal/github"
	"stackpr.dev/stackpr/internal/output"
)

// Context provides access to the ports and output for commands.
// It embeds the command's context.Context so it can be passed to blocking calls.
type Context struct {
	context.Context

	Git      git.Runner
	GitHub   github.Client
	Splog    *output.Splog
	Settings *config.Settings
	RepoRoot string
}

// NewContext assembles a context from already constructed parts
func NewContext(ctx context.Context, runner git.Runner, host github.Client, splog *output.Splog, settings *config.Settings) *Context {
	if settings == nil {
		settings = &config.Settings{Remote: config.DefaultRemote, Target: config.DefaultTarget}
	}
	return &Context{
		Context:  ctx,
		Git:      runner,
		GitHub:   host,
		Splog:    splog,
		Settings: settings,
		RepoRoot: runner.RepoRoot(),
	}
}

// GetContext creates the context for the repository containing the working
// directory. A non-empty remote overrides the configured one when locating
// the GitHub repository.
func GetContext(ctx context.Context, remote string) (*Context, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	runner, err := git.NewRealRunner(cwd)
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}

	settings, err := config.Load(runner.RepoRoot())
	if err != nil {
		return nil, err
	}
	if remote != "" {
		settings.Remote = remote
	}

	splog, err := output.NewSplogWithConfig(os.Stdout, output.GetLogFilePath(settings.LogToFile))
	if err != nil {
		return nil, err
	}

	remoteURL, err := runner.RemoteURL(ctx, settings.Remote)
	if err != nil {
		return nil, fmt.Errorf("failed to get URL of remote %s: %w", settings.Remote, err)
	}
	host, err := github.NewClient(ctx, remoteURL, settings.GitHubHost)
	if err != nil {
		return nil, err
	}

	return NewContext(ctx, runner, host, splog, settings), nil
}

// Close releases the log file
func (c *Context) Close() error {
	if c.Splog == nil {
		return nil
	}
	return c.Splog.Close()
}
