package stack_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	stackprerrors "stackpr.dev/stackpr/internal/errors"
	"stackpr.dev/stackpr/internal/stack"
	"stackpr.dev/stackpr/testhelpers"
)

// linkedStack returns a two entry stack whose PRs exist on host
func linkedStack(host *testhelpers.FakePRHost) stack.Stack {
	st := stack.Stack{
		stack.NewEntry(commit("a", "0", "first")),
		stack.NewEntry(commit("b", "a", "second")),
	}
	st[0].SetPR(host.AddPR(1, "u/stack/1", "main"))
	st[0].SetHead("u/stack/1")
	st[1].SetPR(host.AddPR(2, "u/stack/2", "u/stack/1"))
	st[1].SetHead("u/stack/2")
	stack.SetBases(st, "main")
	return st
}

func TestVerify(t *testing.T) {
	ctx := context.Background()

	t.Run("passes for a consistent stack using only PR fetches", func(t *testing.T) {
		host := testhelpers.NewFakePRHost("u")
		st := linkedStack(host)

		require.NoError(t, stack.Verify(ctx, host, st, true))
		require.Len(t, host.Calls, 2)
		require.Len(t, host.CallsOf("get"), 2)
	})

	t.Run("missing metadata", func(t *testing.T) {
		host := testhelpers.NewFakePRHost("u")
		st := stack.Stack{stack.NewEntry(commit("a", "0", "first"))}

		err := stack.Verify(ctx, host, st, false)
		var missingErr *stackprerrors.MissingMetadataError
		require.True(t, errors.As(err, &missingErr))
		require.True(t, errors.Is(err, stackprerrors.ErrVerification))
		require.Empty(t, host.Calls)
	})

	t.Run("malformed link", func(t *testing.T) {
		host := testhelpers.NewFakePRHost("u")
		st := linkedStack(host)
		st[0].SetPR("https://github.com/owner/repo/pull/abc")

		err := stack.Verify(ctx, host, st, false)
		var linkErr *stackprerrors.MalformedLinkError
		require.True(t, errors.As(err, &linkErr))
		require.Empty(t, host.Calls)
	})

	t.Run("malformed host response names the absent field", func(t *testing.T) {
		for _, field := range []string{"state", "number", "baseRefName", "headRefName"} {
			host := testhelpers.NewFakePRHost("u")
			st := linkedStack(host)
			host.Omit[field] = true

			err := stack.Verify(ctx, host, st, false)
			var responseErr *stackprerrors.MalformedHostResponseError
			require.True(t, errors.As(err, &responseErr), field)
			require.Equal(t, field, responseErr.Field)
		}
	})

	t.Run("closed PR", func(t *testing.T) {
		host := testhelpers.NewFakePRHost("u")
		st := linkedStack(host)
		host.PRs[2].State = "CLOSED"

		err := stack.Verify(ctx, host, st, false)
		var notOpenErr *stackprerrors.PrNotOpenError
		require.True(t, errors.As(err, &notOpenErr))
		require.Equal(t, "CLOSED", notOpenErr.State)
	})

	t.Run("number mismatch", func(t *testing.T) {
		host := testhelpers.NewFakePRHost("u")
		st := linkedStack(host)
		host.PRs[1].Number = 9

		err := stack.Verify(ctx, host, st, false)
		var numberErr *stackprerrors.PrNumberMismatchError
		require.True(t, errors.As(err, &numberErr))
		require.Equal(t, 1, numberErr.Expected)
		require.Equal(t, 9, numberErr.Actual)
	})

	t.Run("head mismatch", func(t *testing.T) {
		host := testhelpers.NewFakePRHost("u")
		st := linkedStack(host)
		host.PRs[2].Head = "u/stack/9"

		err := stack.Verify(ctx, host, st, false)
		var headErr *stackprerrors.PrHeadMismatchError
		require.True(t, errors.As(err, &headErr))
		require.Equal(t, "u/stack/2", headErr.Expected)
	})

	t.Run("base mismatch only when checked", func(t *testing.T) {
		host := testhelpers.NewFakePRHost("u")
		st := linkedStack(host)
		host.PRs[2].Base = "main"

		require.NoError(t, stack.Verify(ctx, host, st, false))

		err := stack.Verify(ctx, host, st, true)
		var baseErr *stackprerrors.PrBaseMismatchError
		require.True(t, errors.As(err, &baseErr))
		require.Equal(t, "u/stack/1", baseErr.Expected)
		require.Equal(t, "main", baseErr.Actual)
	})

	t.Run("stops at the first failing entry", func(t *testing.T) {
		host := testhelpers.NewFakePRHost("u")
		st := linkedStack(host)
		host.PRs[1].State = "MERGED"
		host.PRs[2].State = "CLOSED"

		err := stack.Verify(ctx, host, st, false)
		var notOpenErr *stackprerrors.PrNotOpenError
		require.True(t, errors.As(err, &notOpenErr))
		require.Equal(t, "MERGED", notOpenErr.State)
		require.Len(t, host.Calls, 1)
	})
}
