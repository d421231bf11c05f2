package actions

import (
	"fmt"
	"log/slog"

	"stackpr.dev/stackpr/internal/github"
	"stackpr.dev/stackpr/internal/runtime"
	"stackpr.dev/stackpr/internal/stack"
	"stackpr.dev/stackpr/internal/stackinfo"
)

// SubmitOptions contains options for the submit command
type SubmitOptions struct {
	StackOptions

	// Draft opens every new PR as a draft
	Draft bool
	// DraftBitmask holds one 0/1 digit per entry, oldest first, and overrides Draft
	DraftBitmask string
	// Reviewer is a comma separated list of users and org/team slugs
	Reviewer string
	// KeepBody preserves PR body text above the cross-links block
	KeepBody bool
	// KeepLocalBranches skips deleting the local head branches afterwards
	KeepLocalBranches bool
}

// SubmitAction creates or updates one PR per commit of the stack, chains
// their bases and records the linkage in each commit message.
func SubmitAction(ctx *runtime.Context, opts SubmitOptions) (err error) {
	s := newSession(ctx, "submit", opts.StackOptions)
	defer s.recoverOnError(&err)

	if err := s.prepare(true); err != nil {
		return err
	}
	if len(s.st) == 0 {
		s.log.Info("No commits to submit.")
		return nil
	}
	if err := applyDrafts(s.st, opts.Draft, opts.DraftBitmask); err != nil {
		return err
	}
	s.armed = true

	s.log.Info("Submitting %d commit(s) to %s", len(s.st), s.opts.remoteTarget())

	if err := s.allocateHeads(); err != nil {
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

	stack.SetBases(s.st, s.opts.Target)
	printStack(s.log, s.st)

	// Retarget existing PRs before their bases get force pushed
	for _, e := range s.st {
		if err := s.resetBase(e); err != nil {
			return err
		}
	}

	if err := s.pushHeads(s.st); err != nil {
		return s.stepError("push", nil, err)
	}

	reviewers, teams := github.ParseReviewers(opts.Reviewer)
	for _, e := range s.st {
		if e.HasPR() {
			continue
		}
		if err := s.createPR(e, reviewers, teams); err != nil {
			return err
		}
	}

	if err := stack.Verify(s.ctx, s.ctx.GitHub, s.st, false); err != nil {
		return s.stepError("verify", nil, err)
	}

	if err := s.embedMetadata(); err != nil {
		return err
	}
	if err := s.pushHeads(s.st); err != nil {
		return s.stepError("push", nil, err)
	}

	for i, e := range s.st {
		if err := s.crossLink(i, e, opts.KeepBody); err != nil {
			return err
		}
	}

	if err := s.restoreOriginal(rebaseOriginal, oldTop, s.st.Top().Commit.ID); err != nil {
		return s.stepError("restore branch", nil, err)
	}
	if !opts.KeepLocalBranches {
		if err := s.deleteLocalHeads(); err != nil {
			return s.stepError("delete local branches", nil, err)
		}
	}

	s.log.Newline()
	printStack(s.log, s.st)
	s.printTipsAfterExport()
	return nil
}

// applyDrafts marks entries as drafts. A bitmask must have one digit per entry.
func applyDrafts(st stack.Stack, draft bool, bitmask string) error {
	if bitmask == "" {
		for _, e := range st {
			e.Draft = draft
		}
		return nil
	}
	if len(bitmask) != len(st) {
		return fmt.Errorf("draft bitmask %q has %d digits but the stack has %d commits", bitmask, len(bitmask), len(st))
	}
	for i, c := range bitmask {
		switch c {
		case '0':
			st[i].Draft = false
		case '1':
			st[i].Draft = true
		default:
			return fmt.Errorf("draft bitmask %q may only contain 0 and 1", bitmask)
		}
	}
	return nil
}

func (s *session) resetBase(e *stack.Entry) error {
	pr, ok := e.PR()
	if !ok {
		return nil
	}
	target := s.opts.Target
	if err := s.ctx.GitHub.UpdatePullRequest(s.ctx, pr, github.UpdatePROptions{Base: &target}); err != nil {
		return s.stepError("reset base", e, err)
	}
	s.event("base reset", e)
	return nil
}

func (s *session) createPR(e *stack.Entry, reviewers, teams []string) error {
	head, _ := e.Head()
	base, _ := e.Base()
	ref, err := s.ctx.GitHub.CreatePullRequest(s.ctx, github.CreatePROptions{
		Title: e.Commit.Title(),
		Body:  stackinfo.Strip(e.Commit.Message),
		Head:  head,
		Base:  base,
		Draft: e.Draft,
	})
	if err != nil {
		return s.stepError("create PR", e, err)
	}
	e.SetPR(ref)
	s.event("PR created", e, slog.Bool("draft", e.Draft))

	// The PR exists either way, so a rejected reviewer only warns
	if len(reviewers) > 0 || len(teams) > 0 {
		if err := s.ctx.GitHub.RequestReviewers(s.ctx, ref, reviewers, teams); err != nil {
			s.log.Warn("Failed to request reviewers for %s: %v", ref, err)
		}
	}
	return nil
}

// embedMetadata writes each entry's linkage into its commit message. Once a
// commit is amended every later entry is replayed onto its rewritten base.
func (s *session) embedMetadata() error {
	rewritten := false
	for _, e := range s.st {
		if err := s.rewriteEntry(e, rewritten); err != nil {
			return s.stepError("embed metadata", e, err)
		}

		info, _ := e.Info()
		if current, ok := stackinfo.Decode(e.Commit.Message); !ok || current != info {
			message, err := stackinfo.Encode(e.Commit.Message, info)
			if err != nil {
				return s.stepError("embed metadata", e, err)
			}
			if err := s.git.AmendMessage(s.ctx, message); err != nil {
				return s.stepError("embed metadata", e, err)
			}
			e.Commit.Message = message
			rewritten = true
			s.event("metadata embedded", e)
		}

		if err := s.refresh(e); err != nil {
			return s.stepError("embed metadata", e, err)
		}
	}
	return nil
}

func (s *session) crossLink(i int, e *stack.Entry, keepBody bool) error {
	pr, _ := e.PR()
	base, _ := e.Base()

	existing := ""
	if keepBody {
		info, err := s.ctx.GitHub.GetPullRequest(s.ctx, pr)
		if err != nil {
			return s.stepError("cross-link", e, err)
		}
		existing = info.Body
	}

	title := e.Commit.Title()
	body := stack.PRBody(s.st, i, existing, keepBody)
	err := s.ctx.GitHub.UpdatePullRequest(s.ctx, pr, github.UpdatePROptions{
		Title: &title,
		Body:  &body,
		Base:  &base,
	})
	if err != nil {
		return s.stepError("cross-link", e, err)
	}
	s.event("cross-linked", e)
	return nil
}
