package actions

import (
	"log/slog"

	stackprerrors "stackpr.dev/stackpr/internal/errors"
	"stackpr.dev/stackpr/internal/git"
	"stackpr.dev/stackpr/internal/output"
	"stackpr.dev/stackpr/internal/runtime"
	"stackpr.dev/stackpr/internal/stack"
)

// StackOptions selects the commit range and the remote branches an action works on
type StackOptions struct {
	Remote string
	// Base excludes its history from the stack; empty means merge-base(Head, Remote/Target)
	Base string
	Head string
	// Target is the branch the bottom PR merges into
	Target string
}

func (o StackOptions) withDefaults(ctx *runtime.Context) StackOptions {
	if o.Remote == "" {
		o.Remote = ctx.Settings.Remote
	}
	if o.Target == "" {
		o.Target = ctx.Settings.Target
	}
	if o.Head == "" {
		o.Head = "HEAD"
	}
	return o
}

func (o StackOptions) remoteTarget() string {
	return o.Remote + "/" + o.Target
}

func (o StackOptions) remoteBranch(branch string) string {
	return o.Remote + "/" + branch
}

// session carries the state of one action run
type session struct {
	ctx       *runtime.Context
	git       git.Runner
	log       Logger
	operation string
	opts      StackOptions

	// original is the caller's branch, or the commit hash when HEAD was detached
	original string
	detached bool
	base     string
	st       stack.Stack
	username string

	// armed enables the recovery checkout once the working copy may be touched
	armed bool
}

func newSession(ctx *runtime.Context, operation string, opts StackOptions) *session {
	return &session{
		ctx:       ctx,
		git:       ctx.Git,
		log:       ctx.Splog,
		operation: operation,
		opts:      opts.withDefaults(ctx),
	}
}

// prepare runs the shared preamble. Mutating sessions refuse a dirty working
// copy and fast-forward a stale local target; view only warns about it.
func (s *session) prepare(mutating bool) error {
	if mutating {
		files, err := s.git.UncommittedChanges(s.ctx)
		if err != nil {
			return s.stepError("check working copy", nil, err)
		}
		if len(files) > 0 {
			return &stackprerrors.RepoDirtyError{Files: files}
		}
	}

	if err := s.captureOriginal(); err != nil {
		return s.stepError("read current branch", nil, err)
	}
	if err := s.resolveBase(); err != nil {
		return s.stepError("resolve base", nil, err)
	}
	if err := s.build(); err != nil {
		return err
	}
	if len(s.st) == 0 {
		return nil
	}

	stale, err := s.staleTarget()
	if err != nil {
		return s.stepError("check target", nil, err)
	}
	if !stale {
		return nil
	}
	if !mutating {
		s.log.Warn("Local %s is behind %s and can be fast-forwarded:", s.opts.Target, s.opts.remoteTarget())
		s.log.Info("  $ git checkout %s && git rebase %s", s.opts.Target, s.opts.remoteTarget())
		return nil
	}

	s.armed = true
	return s.fastForwardTarget()
}

func (s *session) captureOriginal() error {
	branch, err := s.git.CurrentBranch(s.ctx)
	if err != nil {
		return err
	}
	if branch != "" {
		s.original = branch
		return nil
	}
	hash, err := s.git.ResolveRef(s.ctx, "HEAD")
	if err != nil {
		return err
	}
	s.original = hash
	s.detached = true
	return nil
}

func (s *session) resolveBase() error {
	if s.opts.Base != "" {
		s.base = s.opts.Base
		return nil
	}
	base, err := s.git.MergeBase(s.ctx, s.opts.Head, s.opts.remoteTarget())
	if err != nil {
		return err
	}
	s.base = base
	return nil
}

func (s *session) build() error {
	st, err := stack.Build(s.ctx, s.git, s.base, s.opts.Head)
	if err != nil {
		return err
	}
	s.st = st
	return nil
}

// staleTarget reports whether local target lags behind its remote branch
// while head already contains the remote branch
func (s *session) staleTarget() (bool, error) {
	exists, err := s.git.BranchExists(s.ctx, s.opts.Target)
	if err != nil || !exists {
		return false, err
	}
	remoteHash, err := s.git.ResolveRef(s.ctx, s.opts.remoteTarget())
	if err != nil {
		// No remote branch to compare with
		return false, nil
	}
	localHash, err := s.git.ResolveRef(s.ctx, s.opts.Target)
	if err != nil {
		return false, err
	}
	if localHash == remoteHash {
		return false, nil
	}
	behind, err := s.git.IsAncestor(s.ctx, s.opts.Target, s.opts.remoteTarget())
	if err != nil || !behind {
		return false, err
	}
	return s.git.IsAncestor(s.ctx, s.opts.remoteTarget(), s.opts.Head)
}

func (s *session) fastForwardTarget() error {
	s.log.Info("Fast-forwarding %s to %s", output.ColorBranch(s.opts.Target), output.ColorBranch(s.opts.remoteTarget()))
	err := s.git.Rebase(s.ctx, git.RebaseOptions{
		Onto:     s.opts.remoteTarget(),
		Upstream: s.opts.Target,
		Branch:   s.opts.Target,
	})
	if err != nil {
		return s.stepError("fast-forward target", nil, err)
	}
	if err := s.git.Checkout(s.ctx, s.original); err != nil {
		return s.stepError("fast-forward target", nil, err)
	}
	return s.build()
}

// recoverOnError checks out the caller's original branch when *errp is set
func (s *session) recoverOnError(errp *error) {
	if *errp == nil || !s.armed {
		return
	}
	s.log.Log(slog.LevelDebug, "recovering", slog.String("operation", s.operation), slog.String("branch", s.original))
	if err := s.git.Checkout(s.ctx, s.original); err != nil {
		s.log.Warn("Could not return to %s: %v", s.original, err)
	}
}

func (s *session) stepError(step string, e *stack.Entry, err error) error {
	if e == nil {
		return stackprerrors.NewStepError(s.operation, step, nil, err)
	}
	ref := e.Ref()
	return stackprerrors.NewStepError(s.operation, step, &ref, err)
}

// event records a structured step event for the log file
func (s *session) event(step string, e *stack.Entry, attrs ...slog.Attr) {
	attrs = append([]slog.Attr{slog.String("operation", s.operation), slog.String("step", step)}, attrs...)
	if e != nil {
		attrs = append(attrs, slog.String("commit", e.Commit.ShortID()))
		if head, ok := e.Head(); ok {
			attrs = append(attrs, slog.String("branch", head))
		}
		if pr, ok := e.PR(); ok {
			attrs = append(attrs, slog.String("pr", pr))
		}
	}
	s.log.Log(slog.LevelDebug, step, attrs...)
}

func (s *session) user() (string, error) {
	if s.username != "" {
		return s.username, nil
	}
	username, err := s.ctx.GitHub.CurrentUser(s.ctx)
	if err != nil {
		return "", err
	}
	s.username = username
	return username, nil
}

// allocateHeads fetches the remote and names every entry lacking a head
func (s *session) allocateHeads() error {
	if err := s.git.Fetch(s.ctx, s.opts.Remote, true); err != nil {
		return s.stepError("fetch", nil, err)
	}
	username, err := s.user()
	if err != nil {
		return s.stepError("read user", nil, err)
	}
	if err := stack.AllocateHeads(s.ctx, s.git, s.st, s.opts.Remote, username); err != nil {
		return s.stepError("allocate branches", nil, err)
	}
	return nil
}

// initLocalBranches points every head branch at its entry's commit
func (s *session) initLocalBranches() error {
	for _, e := range s.st {
		head, _ := e.Head()
		if err := s.git.CheckoutBranchAt(s.ctx, head, e.Commit.ID); err != nil {
			return s.stepError("create branch", e, err)
		}
		s.event("branch created", e)
	}
	return nil
}

// refresh re-reads an entry's commit id from its head branch after a rewrite
func (s *session) refresh(e *stack.Entry) error {
	head, _ := e.Head()
	id, err := s.git.ResolveRef(s.ctx, head)
	if err != nil {
		return err
	}
	e.Commit.ID = id
	return nil
}

// rewriteEntry makes e's head branch current, replaying its commit onto its
// base first when rebase is set
func (s *session) rewriteEntry(e *stack.Entry, rebase bool) error {
	head, _ := e.Head()
	if !rebase {
		return s.git.Checkout(s.ctx, head)
	}
	base, _ := e.Base()
	err := s.git.Rebase(s.ctx, git.RebaseOptions{
		Onto:      base,
		Upstream:  head + "~1",
		Branch:    head,
		KeepDates: true,
	})
	if err != nil {
		return err
	}
	s.event("rebased", e, slog.String("onto", base))
	return nil
}

// originalBuildsOn reports whether the caller's branch should be rebased
// when the stack commits below oldTop get rewritten
func (s *session) originalBuildsOn(oldTop string) (bool, error) {
	if s.detached || s.st.ContainsHead(s.original) {
		return false, nil
	}
	return s.git.IsAncestor(s.ctx, oldTop, s.original)
}

// restoreOriginal returns to the caller's branch after the stack top moved
// from oldTop to newTop
func (s *session) restoreOriginal(rebase bool, oldTop, newTop string) error {
	switch {
	case s.detached && s.original == oldTop:
		return s.git.Checkout(s.ctx, newTop)
	case rebase && oldTop != newTop:
		return s.git.Rebase(s.ctx, git.RebaseOptions{
			Onto:      newTop,
			Upstream:  oldTop,
			Branch:    s.original,
			KeepDates: true,
		})
	default:
		return s.git.Checkout(s.ctx, s.original)
	}
}

// pushHeads force pushes every head branch in one push
func (s *session) pushHeads(st stack.Stack) error {
	refspecs := make([]string, 0, len(st))
	for _, head := range st.Heads() {
		refspecs = append(refspecs, head+":"+head)
	}
	if err := s.git.Push(s.ctx, s.opts.Remote, true, refspecs...); err != nil {
		return err
	}
	s.event("pushed", nil, slog.Int("branches", len(refspecs)))
	return nil
}

// deleteLocalHeads deletes the local head branches except the checked out one
func (s *session) deleteLocalHeads() error {
	current, err := s.git.CurrentBranch(s.ctx)
	if err != nil {
		return err
	}
	var names []string
	for _, head := range s.st.Heads() {
		if head == current {
			continue
		}
		exists, err := s.git.BranchExists(s.ctx, head)
		if err != nil {
			return err
		}
		if exists {
			names = append(names, head)
		}
	}
	return s.git.DeleteBranches(s.ctx, names...)
}

// deleteRemoteHeads deletes the head branches still present on the remote.
// Remote refs must have been fetched with prune.
func (s *session) deleteRemoteHeads() error {
	prefix := "refs/remotes/" + s.opts.Remote + "/"
	refs, err := s.git.ListRefs(s.ctx, prefix)
	if err != nil {
		return err
	}
	var names []string
	for _, head := range s.st.Heads() {
		if _, ok := refs[prefix+head]; ok {
			names = append(names, head)
		}
	}
	if len(names) == 0 {
		return nil
	}
	return s.git.DeleteRemoteBranches(s.ctx, s.opts.Remote, names...)
}

// printStack prints entries top first
func printStack(log Logger, st stack.Stack) {
	log.Info(output.ColorHeading("Stack:"))
	for i := len(st) - 1; i >= 0; i-- {
		log.Info("   * %s", st[i].Styled())
	}
}

// confirm asks before a destructive action when a prompt is configured
func confirm(prompt func(string) (bool, error), message string) error {
	if prompt == nil {
		return nil
	}
	ok, err := prompt(message)
	if err != nil {
		return err
	}
	if !ok {
		return stackprerrors.ErrAborted
	}
	return nil
}
