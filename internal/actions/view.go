package actions

import (
	"stackpr.dev/stackpr/internal/runtime"
	"stackpr.dev/stackpr/internal/stack"
)

// ViewResult is what view found
type ViewResult struct {
	Stack       stack.Stack
	ReadyToLand bool
}

// ViewAction prints the stack with its linkage without changing anything.
// Heads shown for entries without one are the names submit would allocate.
func ViewAction(ctx *runtime.Context, opts StackOptions) (*ViewResult, error) {
	s := newSession(ctx, "view", opts)

	if err := s.prepare(false); err != nil {
		return nil, err
	}
	if len(s.st) == 0 {
		s.log.Info("No commits in the stack.")
		return &ViewResult{}, nil
	}

	if err := s.allocateHeads(); err != nil {
		return nil, err
	}
	stack.SetBases(s.st, s.opts.Target)
	printStack(s.log, s.st)

	ready := s.st.ReadyToLand()
	s.printTipsAfterView(ready)
	return &ViewResult{Stack: s.st, ReadyToLand: ready}, nil
}
