package git_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"stackpr.dev/stackpr/internal/git"
)

const sampleRevList = "1111111111111111111111111111111111111111\n" +
	"tree aaaa\n" +
	"parent 2222222222222222222222222222222222222222\n" +
	"author Jane Doe <jane@example.com> 1700000000 +0100\n" +
	"committer Jane Doe <jane@example.com> 1700000000 +0100\n" +
	"gpgsig -----BEGIN PGP SIGNATURE-----\n" +
	" abcdef\n" +
	" -----END PGP SIGNATURE-----\n" +
	"\n" +
	"    Add feature\n" +
	"    \n" +
	"    Longer description\n" +
	"    \n" +
	"    stack-info: PR: https://github.com/owner/repo/pull/2, branch: jane/stack/2\n" +
	"\x00" +
	"2222222222222222222222222222222222222222\n" +
	"tree bbbb\n" +
	"parent 3333333333333333333333333333333333333333\n" +
	"author John Roe <john@example.com> 1700000000 -0700\n" +
	"committer John Roe <john@example.com> 1700000000 -0700\n" +
	"\n" +
	"    Base change\n" +
	"\x00"

func TestParseCommitHeaders(t *testing.T) {
	t.Run("parses records in output order", func(t *testing.T) {
		headers, err := git.ParseCommitHeaders(sampleRevList)
		require.NoError(t, err)
		require.Len(t, headers, 2)

		first := headers[0]
		require.Equal(t, "1111111111111111111111111111111111111111", first.ID)
		require.Equal(t, "aaaa", first.Tree)
		require.Equal(t, []string{"2222222222222222222222222222222222222222"}, first.Parents)
		require.Equal(t, "Jane Doe", first.AuthorName)
		require.Equal(t, "jane@example.com", first.AuthorEmail)
		require.Equal(t, "Add feature\n\nLonger description\n\nstack-info: PR: https://github.com/owner/repo/pull/2, branch: jane/stack/2", first.Message)
		require.Equal(t, "Add feature", first.Title())
		require.Equal(t, "11111111", first.ShortID())

		require.Equal(t, "Base change", headers[1].Message)
		require.Empty(t, headers[1].Body())
	})

	t.Run("empty output has no commits", func(t *testing.T) {
		headers, err := git.ParseCommitHeaders("")
		require.NoError(t, err)
		require.Empty(t, headers)
	})

	t.Run("counts parents of merge commits", func(t *testing.T) {
		raw := "4444\ntree cccc\nparent 1111\nparent 2222\nauthor A <a@example.com> 1 +0000\n\n    Merge\n\x00"
		headers, err := git.ParseCommitHeaders(raw)
		require.NoError(t, err)
		require.Len(t, headers[0].Parents, 2)
	})

	t.Run("rejects records without tree or author", func(t *testing.T) {
		for _, raw := range []string{
			"4444\nparent 1111\nauthor A <a@example.com> 1 +0000\n\n    x\n\x00",
			"4444\ntree cccc\n\n    x\n\x00",
			"4444\ntree cccc\nauthor nobody\n\n    x\n\x00",
		} {
			_, err := git.ParseCommitHeaders(raw)
			require.True(t, errors.Is(err, git.ErrMalformedCommitHeader), raw)
		}
	})
}

func TestCommitHeaderBody(t *testing.T) {
	header := git.CommitHeader{Message: "Title\n\nFirst paragraph\n\nSecond"}
	require.Equal(t, "Title", header.Title())
	require.Equal(t, "First paragraph\n\nSecond", header.Body())
}
