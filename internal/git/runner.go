package git

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	stackprerrors "stackpr.dev/stackpr/internal/errors"
)

// CommandRunner handles execution of git commands.
//
// Commands run without a deadline of their own: a long rebase or push is
// bounded only by the caller's context.
type CommandRunner struct {
	workingDir string
}

// NewCommandRunner creates a new CommandRunner
func NewCommandRunner(workingDir string) *CommandRunner {
	return &CommandRunner{workingDir: workingDir}
}

// Run executes a git command and returns its trimmed output
func (r *CommandRunner) Run(ctx context.Context, args ...string) (string, error) {
	return r.runInternal(ctx, "", true, args...)
}

// RunRaw executes a git command and returns its output untouched
func (r *CommandRunner) RunRaw(ctx context.Context, args ...string) (string, error) {
	return r.runInternal(ctx, "", false, args...)
}

// RunWithInput executes a git command feeding input on stdin
func (r *CommandRunner) RunWithInput(ctx context.Context, input string, args ...string) (string, error) {
	return r.runInternal(ctx, input, true, args...)
}

func (r *CommandRunner) runInternal(ctx context.Context, input string, trim bool, args ...string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	if r.workingDir != "" {
		cmd.Dir = r.workingDir
	}
	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		return "", stackprerrors.NewExternalCommandError("git", args, exitCode, stdout.String(), stderr.String(), err)
	}
	if trim {
		return strings.TrimSpace(stdout.String()), nil
	}
	return stdout.String(), nil
}

// RebaseOptions describes a single `git rebase --onto` invocation
type RebaseOptions struct {
	// Onto is the new base for the replayed commits
	Onto string
	// Upstream excludes its history from the replayed range
	Upstream string
	// Branch is checked out before replaying; empty means the current HEAD
	Branch string
	// KeepDates sets the committer date of every replayed commit to its author date
	KeepDates bool
}

// Runner defines the git operations used by stack-pr.
// This allows the orchestrator to run against real git and recording fakes.
type Runner interface {
	// Repository
	RepoRoot() string
	RemoteURL(ctx context.Context, remote string) (string, error)
	UncommittedChanges(ctx context.Context) ([]string, error)

	// Commit and revision information
	CommitHeaders(ctx context.Context, base, head string) ([]CommitHeader, error)
	IsAncestor(ctx context.Context, ancestor, descendant string) (bool, error)
	MergeBase(ctx context.Context, rev1, rev2 string) (string, error)
	ResolveRef(ctx context.Context, rev string) (string, error)
	ListRefs(ctx context.Context, prefix string) (map[string]string, error)

	// Branch management
	CurrentBranch(ctx context.Context) (string, error)
	BranchExists(ctx context.Context, name string) (bool, error)
	Checkout(ctx context.Context, rev string) error
	CheckoutBranchAt(ctx context.Context, branch, rev string) error
	DeleteBranches(ctx context.Context, names ...string) error

	// History rewriting
	Rebase(ctx context.Context, opts RebaseOptions) error
	AmendMessage(ctx context.Context, message string) error

	// Remote operations
	Fetch(ctx context.Context, remote string, prune bool) error
	Push(ctx context.Context, remote string, force bool, refspecs ...string) error
	DeleteRemoteBranches(ctx context.Context, remote string, names ...string) error
}

// NewRealRunner returns the Runner backed by the git binary and go-git,
// operating on the repository containing dir.
func NewRealRunner(dir string) (Runner, error) {
	cmd := NewCommandRunner(dir)
	root, err := cmd.Run(context.Background(), "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, err
	}
	return &realRunner{cmd: NewCommandRunner(root), root: root}, nil
}

// realRunner implements Runner with git commands for mutations and go-git for reads
type realRunner struct {
	cmd  *CommandRunner
	root string
}

func (r *realRunner) RepoRoot() string {
	return r.root
}
