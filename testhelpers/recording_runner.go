package testhelpers

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"stackpr.dev/stackpr/internal/git"
)

// RecordingRunner wraps a git.Runner and records every mutating call.
// Reads are passed through unrecorded.
type RecordingRunner struct {
	git.Runner

	// FailWhen, when set, is consulted before each mutating call; a non-nil
	// result is returned instead of running the call.
	FailWhen func(call string) error

	mu    sync.Mutex
	calls []string
}

// NewRecordingRunner wraps runner
func NewRecordingRunner(runner git.Runner) *RecordingRunner {
	return &RecordingRunner{Runner: runner}
}

// Calls returns the mutating calls recorded so far
func (r *RecordingRunner) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// CallsWithPrefix returns the recorded calls starting with prefix
func (r *RecordingRunner) CallsWithPrefix(prefix string) []string {
	var matched []string
	for _, call := range r.Calls() {
		if strings.HasPrefix(call, prefix) {
			matched = append(matched, call)
		}
	}
	return matched
}

func (r *RecordingRunner) record(format string, args ...any) error {
	call := fmt.Sprintf(format, args...)
	r.mu.Lock()
	r.calls = append(r.calls, call)
	r.mu.Unlock()
	if r.FailWhen != nil {
		return r.FailWhen(call)
	}
	return nil
}

func (r *RecordingRunner) Checkout(ctx context.Context, rev string) error {
	if err := r.record("checkout %s", rev); err != nil {
		return err
	}
	return r.Runner.Checkout(ctx, rev)
}

func (r *RecordingRunner) CheckoutBranchAt(ctx context.Context, branch, rev string) error {
	if err := r.record("checkout -B %s %s", branch, rev); err != nil {
		return err
	}
	return r.Runner.CheckoutBranchAt(ctx, branch, rev)
}

func (r *RecordingRunner) DeleteBranches(ctx context.Context, names ...string) error {
	if err := r.record("branch -D %s", strings.Join(names, " ")); err != nil {
		return err
	}
	return r.Runner.DeleteBranches(ctx, names...)
}

func (r *RecordingRunner) Rebase(ctx context.Context, opts git.RebaseOptions) error {
	flags := ""
	if opts.KeepDates {
		flags = "--committer-date-is-author-date "
	}
	if err := r.record("rebase %s--onto %s %s %s", flags, opts.Onto, opts.Upstream, opts.Branch); err != nil {
		return err
	}
	return r.Runner.Rebase(ctx, opts)
}

func (r *RecordingRunner) AmendMessage(ctx context.Context, message string) error {
	if err := r.record("commit --amend %s", firstLine(message)); err != nil {
		return err
	}
	return r.Runner.AmendMessage(ctx, message)
}

func (r *RecordingRunner) Fetch(ctx context.Context, remote string, prune bool) error {
	if err := r.record("fetch %s", remote); err != nil {
		return err
	}
	return r.Runner.Fetch(ctx, remote, prune)
}

func (r *RecordingRunner) Push(ctx context.Context, remote string, force bool, refspecs ...string) error {
	if err := r.record("push %s %s", remote, strings.Join(refspecs, " ")); err != nil {
		return err
	}
	return r.Runner.Push(ctx, remote, force, refspecs...)
}

func (r *RecordingRunner) DeleteRemoteBranches(ctx context.Context, remote string, names ...string) error {
	if err := r.record("push %s --delete %s", remote, strings.Join(names, " ")); err != nil {
		return err
	}
	return r.Runner.DeleteRemoteBranches(ctx, remote, names...)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
