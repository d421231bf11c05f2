package stack_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"stackpr.dev/stackpr/internal/stack"
	"stackpr.dev/stackpr/testhelpers"
)

func TestCrossLinks(t *testing.T) {
	host := testhelpers.NewFakePRHost("u")
	st := linkedStack(host)

	require.Equal(t, "Stacked PRs:\n * #2\n * __->__#1\n\n", stack.CrossLinks(st, 0))
	require.Equal(t, "Stacked PRs:\n * __->__#2\n * #1\n\n", stack.CrossLinks(st, 1))
}

func TestPRBody(t *testing.T) {
	host := testhelpers.NewFakePRHost("u")
	st := linkedStack(host)
	st[1].Commit.Message = "second\n\nLonger description.\n\nstack-info: PR: " + host.URL(2) + ", branch: u/stack/2"

	t.Run("uses the commit message without metadata", func(t *testing.T) {
		body := stack.PRBody(st, 1, "", false)
		require.Equal(t, "Stacked PRs:\n * __->__#2\n * #1\n\n\n--- --- ---\n\n### second\n\nLonger description.", body)
	})

	t.Run("keeps the text after the previous delimiter", func(t *testing.T) {
		existing := "Stacked PRs:\n * __->__#2\n\n\n--- --- ---\n\nHand written notes"
		body := stack.PRBody(st, 1, existing, true)
		require.Equal(t, "Stacked PRs:\n * __->__#2\n * #1\n\n\n--- --- ---\n\nHand written notes", body)
	})

	t.Run("keeps a body that never had a delimiter", func(t *testing.T) {
		body := stack.PRBody(st, 0, "Plain description", true)
		require.Equal(t, "Stacked PRs:\n * #2\n * __->__#1\n\n\n--- --- ---\n\nPlain description", body)
	})
}

func TestMergeMessage(t *testing.T) {
	host := testhelpers.NewFakePRHost("u")
	st := linkedStack(host)

	t.Run("appends the PR number and strips metadata", func(t *testing.T) {
		st[0].Commit.Message = "first\n\nDetails here\n\nstack-info: PR: " + host.URL(1) + ", branch: u/stack/1"
		title, body := stack.MergeMessage(st[0])
		require.Equal(t, "first (#1)", title)
		require.Equal(t, "Details here", body)
	})

	t.Run("empty body becomes a single space", func(t *testing.T) {
		st[1].Commit.Message = "second\n\nstack-info: PR: " + host.URL(2) + ", branch: u/stack/2"
		title, body := stack.MergeMessage(st[1])
		require.Equal(t, "second (#2)", title)
		require.Equal(t, " ", body)
	})
}
