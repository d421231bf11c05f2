package actions

import (
	"fmt"
	"log/slog"

	"stackpr.dev/stackpr/internal/git"
	"stackpr.dev/stackpr/internal/github"
	"stackpr.dev/stackpr/internal/output"
	"stackpr.dev/stackpr/internal/runtime"
	"stackpr.dev/stackpr/internal/stack"
)

// LandOptions contains options for the land command
type LandOptions struct {
	StackOptions

	// Confirm is asked before anything is merged; nil skips the prompt
	Confirm func(message string) (bool, error)
}

// LandAction squash merges every PR of a verified stack into the target,
// oldest first, restacking the remaining PRs after each merge.
func LandAction(ctx *runtime.Context, opts LandOptions) (err error) {
	s := newSession(ctx, "land", opts.StackOptions)
	defer s.recoverOnError(&err)

	if err := s.prepare(true); err != nil {
		return err
	}
	if len(s.st) == 0 {
		s.log.Info("No commits to land.")
		return nil
	}
	s.armed = true

	stack.SetBases(s.st, s.opts.Target)
	printStack(s.log, s.st)

	if err := stack.Verify(s.ctx, s.ctx.GitHub, s.st, true); err != nil {
		return s.stepError("verify", nil, err)
	}
	if err := confirm(opts.Confirm, fmt.Sprintf("Land %d PR(s) into %s?", len(s.st), s.opts.Target)); err != nil {
		return err
	}

	for i, e := range s.st {
		if err := s.landEntry(e); err != nil {
			return err
		}
		if rest := s.st[i+1:]; len(rest) > 0 {
			if err := s.restack(rest); err != nil {
				return err
			}
		}
	}

	if err := s.finishLand(); err != nil {
		return err
	}
	s.log.Info(output.ColorHeading("Stack landed!"))
	return nil
}

// landEntry rebases e's remote head onto the target and merges its PR
func (s *session) landEntry(e *stack.Entry) error {
	head, _ := e.Head()
	pr, _ := e.PR()
	s.log.Info("Landing %s", e.String())

	if err := s.git.Fetch(s.ctx, s.opts.Remote, true); err != nil {
		return s.stepError("fetch", e, err)
	}
	if err := s.git.CheckoutBranchAt(s.ctx, head, s.opts.remoteBranch(head)); err != nil {
		return s.stepError("checkout", e, err)
	}
	err := s.git.Rebase(s.ctx, git.RebaseOptions{
		Onto:      s.opts.remoteTarget(),
		Upstream:  head + "~1",
		Branch:    head,
		KeepDates: true,
	})
	if err != nil {
		return s.stepError("rebase", e, err)
	}
	if err := s.git.Push(s.ctx, s.opts.Remote, true, head+":"+head); err != nil {
		return s.stepError("push", e, err)
	}

	target := s.opts.Target
	if err := s.ctx.GitHub.UpdatePullRequest(s.ctx, pr, github.UpdatePROptions{Base: &target}); err != nil {
		return s.stepError("reset base", e, err)
	}

	sha, err := s.git.ResolveRef(s.ctx, head)
	if err != nil {
		return s.stepError("merge", e, err)
	}
	title, body := stack.MergeMessage(e)
	if err := s.ctx.GitHub.MergePullRequest(s.ctx, pr, github.MergePROptions{Title: title, Body: body, SHA: sha}); err != nil {
		return s.stepError("merge", e, err)
	}
	s.event("merged", e, slog.String("sha", sha))
	return nil
}

// restack replays the remaining entries from their remote heads as a chain
// on top of the updated target and retargets the new bottom PR
func (s *session) restack(rest stack.Stack) error {
	if err := s.git.Fetch(s.ctx, s.opts.Remote, true); err != nil {
		return s.stepError("fetch", nil, err)
	}

	onto := s.opts.remoteTarget()
	for _, e := range rest {
		head, _ := e.Head()
		if err := s.git.CheckoutBranchAt(s.ctx, head, s.opts.remoteBranch(head)); err != nil {
			return s.stepError("restack", e, err)
		}
		err := s.git.Rebase(s.ctx, git.RebaseOptions{
			Onto:      onto,
			Upstream:  head + "~1",
			Branch:    head,
			KeepDates: true,
		})
		if err != nil {
			return s.stepError("restack", e, err)
		}
		s.event("rebased", e, slog.String("onto", onto))
		onto = head
	}

	if err := s.pushHeads(rest); err != nil {
		return s.stepError("push", nil, err)
	}
	return s.resetBase(rest[0])
}

// finishLand returns to the caller's branch, deletes the landed heads and
// brings the target and the caller's branch up to date
func (s *session) finishLand() error {
	returnTo := s.original
	if !s.detached && s.st.ContainsHead(s.original) {
		returnTo = s.opts.Target
	}
	if err := s.git.Checkout(s.ctx, returnTo); err != nil {
		return s.stepError("restore branch", nil, err)
	}
	if err := s.deleteLocalHeads(); err != nil {
		return s.stepError("delete local branches", nil, err)
	}

	if err := s.git.Fetch(s.ctx, s.opts.Remote, true); err != nil {
		return s.stepError("fetch", nil, err)
	}
	if err := s.deleteRemoteHeads(); err != nil {
		return s.stepError("delete remote branches", nil, err)
	}

	exists, err := s.git.BranchExists(s.ctx, s.opts.Target)
	if err != nil {
		return s.stepError("update target", nil, err)
	}
	if exists {
		if err := s.updateFromTarget(s.opts.Target); err != nil {
			return err
		}
	}
	if s.detached {
		return s.stepError("restore branch", nil, s.git.Checkout(s.ctx, returnTo))
	}
	if returnTo != s.opts.Target {
		return s.updateFromTarget(returnTo)
	}
	return nil
}

// updateFromTarget rebases branch onto the remote target, dropping commits
// whose changes already landed
func (s *session) updateFromTarget(branch string) error {
	err := s.git.Rebase(s.ctx, git.RebaseOptions{
		Onto:     s.opts.remoteTarget(),
		Upstream: s.opts.remoteTarget(),
		Branch:   branch,
	})
	if err != nil {
		return s.stepError("update branch", nil, err)
	}
	s.event("updated", nil, slog.String("branch", branch))
	return nil
}
