package actions

import (
	"fmt"

	"stackpr.dev/stackpr/internal/runtime"
	"stackpr.dev/stackpr/internal/stack"
	"stackpr.dev/stackpr/internal/stackinfo"
)

// AbandonOptions contains options for the abandon command
type AbandonOptions struct {
	StackOptions

	// Confirm is asked before any commit is rewritten; nil skips the prompt
	Confirm func(message string) (bool, error)
}

// AbandonAction strips the linkage from every commit of the stack and
// deletes its head branches. PRs on the host are left as they are.
func AbandonAction(ctx *runtime.Context, opts AbandonOptions) (err error) {
	s := newSession(ctx, "abandon", opts.StackOptions)
	defer s.recoverOnError(&err)

	if err := s.prepare(true); err != nil {
		return err
	}
	if len(s.st) == 0 {
		s.log.Info("No commits to abandon.")
		return nil
	}
	s.armed = true

	if err := s.allocateHeads(); err != nil {
		return err
	}
	stack.SetBases(s.st, s.opts.Target)
	printStack(s.log, s.st)

	if err := confirm(opts.Confirm, fmt.Sprintf("Abandon %d commit(s)?", len(s.st))); err != nil {
		return err
	}

	oldTop := s.st.Top().Commit.ID
	rebaseOriginal, err := s.originalBuildsOn(oldTop)
	if err != nil {
		return s.stepError("inspect current branch", nil, err)
	}
	if err := s.initLocalBranches(); err != nil {
		return err
	}

	if err := s.stripMetadata(); err != nil {
		return err
	}

	newTop := s.st.Top().Commit.ID
	if !s.detached && s.st.ContainsHead(s.original) {
		// The caller's branch is about to be deleted
		err = s.git.Checkout(s.ctx, newTop)
	} else {
		err = s.restoreOriginal(rebaseOriginal, oldTop, newTop)
	}
	if err != nil {
		return s.stepError("restore branch", nil, err)
	}

	if err := s.deleteLocalHeads(); err != nil {
		return s.stepError("delete local branches", nil, err)
	}
	if err := s.deleteRemoteHeads(); err != nil {
		return s.stepError("delete remote branches", nil, err)
	}

	s.log.Info("Abandoned %d commit(s). The PRs stay open on the host.", len(s.st))
	return nil
}

// stripMetadata removes the linkage from every commit message, replaying
// later entries once an earlier commit was amended
func (s *session) stripMetadata() error {
	rewritten := false
	for _, e := range s.st {
		if err := s.rewriteEntry(e, rewritten); err != nil {
			return s.stepError("strip metadata", e, err)
		}
		if _, ok := stackinfo.Decode(e.Commit.Message); ok {
			message := stackinfo.Strip(e.Commit.Message)
			if err := s.git.AmendMessage(s.ctx, message); err != nil {
				return s.stepError("strip metadata", e, err)
			}
			e.Commit.Message = message
			rewritten = true
			s.event("metadata stripped", e)
		}
		if err := s.refresh(e); err != nil {
			return s.stepError("strip metadata", e, err)
		}
	}
	return nil
}
