package stack_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"stackpr.dev/stackpr/internal/stack"
)

type fakeRefs map[string]string

func (f fakeRefs) ListRefs(_ context.Context, prefix string) (map[string]string, error) {
	refs := make(map[string]string)
	for name, hash := range f {
		if strings.HasPrefix(name, prefix) {
			refs[name] = hash
		}
	}
	return refs, nil
}

func TestAllocateHeads(t *testing.T) {
	ctx := context.Background()

	newStack := func(n int) stack.Stack {
		st := make(stack.Stack, n)
		for i := range st {
			st[i] = stack.NewEntry(commit(string(rune('a'+i)), "0", "commit"))
		}
		return st
	}

	t.Run("starts after the highest remote branch", func(t *testing.T) {
		refs := fakeRefs{
			"refs/remotes/origin/alice/stack/3":  "x",
			"refs/remotes/origin/alice/stack/10": "x",
			"refs/remotes/origin/alice/stack/x1": "x",
			"refs/remotes/origin/bob/stack/40":   "x",
			"refs/remotes/fork/alice/stack/99":   "x",
		}
		st := newStack(3)

		require.NoError(t, stack.AllocateHeads(ctx, refs, st, "origin", "alice"))
		require.Equal(t, []string{"alice/stack/11", "alice/stack/12", "alice/stack/13"}, st.Heads())
	})

	t.Run("keeps existing heads and never reuses their numbers", func(t *testing.T) {
		st := newStack(3)
		st[1].SetHead("alice/stack/7")

		require.NoError(t, stack.AllocateHeads(ctx, fakeRefs{}, st, "origin", "alice"))
		require.Equal(t, []string{"alice/stack/8", "alice/stack/7", "alice/stack/9"}, st.Heads())
	})

	t.Run("starts at one without prior branches", func(t *testing.T) {
		st := newStack(2)

		require.NoError(t, stack.AllocateHeads(ctx, fakeRefs{}, st, "origin", "alice"))
		require.Equal(t, []string{"alice/stack/1", "alice/stack/2"}, st.Heads())
	})

	t.Run("next branch number for display", func(t *testing.T) {
		n, err := stack.NextBranchNumber(ctx, fakeRefs{"refs/remotes/origin/alice/stack/4": "x"}, nil, "origin", "alice")
		require.NoError(t, err)
		require.Equal(t, 5, n)
		require.Equal(t, "alice/stack/5", stack.BranchName("alice", n))
	})
}
