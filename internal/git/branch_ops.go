package git

import (
	"context"
	"fmt"
	"strings"

	stackprerrors "stackpr.dev/stackpr/internal/errors"
)

// UncommittedChanges lists tracked files with staged or unstaged changes.
// Untracked files are ignored.
func (r *realRunner) UncommittedChanges(ctx context.Context) ([]string, error) {
	output, err := r.cmd.RunRaw(ctx, "status", "--porcelain", "--untracked-files=no")
	if err != nil {
		return nil, err
	}
	var files []string
	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "??") {
			continue
		}
		files = append(files, strings.TrimSpace(line))
	}
	return files, nil
}

// Checkout checks out a branch or, for a commit hash, detaches HEAD at it
func (r *realRunner) Checkout(ctx context.Context, rev string) error {
	_, err := r.cmd.Run(ctx, "checkout", rev)
	return err
}

// CheckoutBranchAt creates or resets branch to rev and checks it out
func (r *realRunner) CheckoutBranchAt(ctx context.Context, branch, rev string) error {
	_, err := r.cmd.Run(ctx, "checkout", "-B", branch, rev)
	return err
}

// DeleteBranches force deletes local branches
func (r *realRunner) DeleteBranches(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	_, err := r.cmd.Run(ctx, append([]string{"branch", "-D"}, names...)...)
	return err
}

// Rebase replays commits in (Upstream, Branch] onto Onto. A failed rebase is
// aborted so the working copy is left without a rebase in progress.
func (r *realRunner) Rebase(ctx context.Context, opts RebaseOptions) error {
	args := []string{"rebase"}
	if opts.KeepDates {
		args = append(args, "--committer-date-is-author-date")
	}
	args = append(args, "--onto", opts.Onto, opts.Upstream)
	if opts.Branch != "" {
		args = append(args, opts.Branch)
	}
	if _, err := r.cmd.Run(ctx, args...); err != nil {
		_, _ = r.cmd.Run(ctx, "rebase", "--abort")
		return stackprerrors.NewRebaseConflictError(opts.Branch, opts.Onto, err)
	}
	return nil
}

// AmendMessage replaces the message of the HEAD commit
func (r *realRunner) AmendMessage(ctx context.Context, message string) error {
	_, err := r.cmd.RunWithInput(ctx, message, "commit", "--amend", "--allow-empty", "--no-verify", "-F", "-")
	return err
}

// Fetch updates remote-tracking refs
func (r *realRunner) Fetch(ctx context.Context, remote string, prune bool) error {
	args := []string{"fetch"}
	if prune {
		args = append(args, "--prune")
	}
	_, err := r.cmd.Run(ctx, append(args, remote)...)
	return err
}

// Push pushes refspecs to remote in a single invocation
func (r *realRunner) Push(ctx context.Context, remote string, force bool, refspecs ...string) error {
	if len(refspecs) == 0 {
		return nil
	}
	args := []string{"push"}
	if force {
		args = append(args, "-f")
	}
	args = append(args, remote)
	_, err := r.cmd.Run(ctx, append(args, refspecs...)...)
	return err
}

// DeleteRemoteBranches deletes branches on remote
func (r *realRunner) DeleteRemoteBranches(ctx context.Context, remote string, names ...string) error {
	refspecs := make([]string, 0, len(names))
	for _, name := range names {
		refspecs = append(refspecs, ":"+name)
	}
	if err := r.Push(ctx, remote, true, refspecs...); err != nil {
		return fmt.Errorf("failed to delete remote branches %s: %w", strings.Join(names, ", "), err)
	}
	return nil
}
