package actions_test

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"stackpr.dev/stackpr/internal/actions"
	stackprerrors "stackpr.dev/stackpr/internal/errors"
	"stackpr.dev/stackpr/testhelpers"
	"stackpr.dev/stackpr/testhelpers/scenario"
)

func TestSubmitAction(t *testing.T) {
	t.Run("empty stack changes nothing", func(t *testing.T) {
		s := scenario.NewScenario(t, nil)

		err := actions.SubmitAction(s.Context, actions.SubmitOptions{})
		require.NoError(t, err)

		require.Empty(t, s.Runner.Calls())
		require.Empty(t, s.Host.Calls)
	})

	t.Run("refuses a dirty working copy", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.StackSceneSetup("one"))
		s.WithUncommittedChange("dirty")

		err := actions.SubmitAction(s.Context, actions.SubmitOptions{})
		require.True(t, errors.Is(err, stackprerrors.ErrRepoDirty))

		var dirty *stackprerrors.RepoDirtyError
		require.True(t, errors.As(err, &dirty))
		require.Len(t, dirty.Files, 1)
		require.Empty(t, s.Runner.Calls())
		require.Empty(t, s.Host.Calls)
	})

	t.Run("creates chained PRs and embeds metadata", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.StackSceneSetup("one", "two", "three"))

		err := actions.SubmitAction(s.Context, actions.SubmitOptions{})
		require.NoError(t, err)

		require.Len(t, s.Host.PRs, 3)
		expected := []struct{ head, base, title string }{
			{"octocat/stack/1", "main", "one"},
			{"octocat/stack/2", "octocat/stack/1", "two"},
			{"octocat/stack/3", "octocat/stack/2", "three"},
		}
		for i, want := range expected {
			pr := s.Host.PR(i + 1)
			require.Equal(t, want.head, pr.Head)
			require.Equal(t, want.base, pr.Base)
			require.Equal(t, want.title, pr.Title)
			require.False(t, pr.Draft)
			require.Contains(t, pr.Body, fmt.Sprintf("__->__#%d", i+1))
		}

		require.Equal(t, []string{"three", "two", "one"}, s.Subjects("main", "feature"))
		require.Contains(t, s.Message("feature"), "stack-info: PR: https://github.com/owner/repo/pull/3, branch: octocat/stack/3")
		require.Contains(t, s.Message("feature~1"), "stack-info: PR: https://github.com/owner/repo/pull/2, branch: octocat/stack/2")
		require.Contains(t, s.Message("feature~2"), "stack-info: PR: https://github.com/owner/repo/pull/1, branch: octocat/stack/1")

		require.Equal(t, "feature", s.CurrentBranch())
		require.ElementsMatch(t, []string{"feature", "main"}, s.LocalBranches())
		require.ElementsMatch(t, []string{"main", "octocat/stack/1", "octocat/stack/2", "octocat/stack/3"}, s.RemoteBranches())
		require.Equal(t, s.Rev("feature"), s.Rev("origin/octocat/stack/3"))
		s.ExpectClean().ExpectOutput("Once the stack is reviewed, it is ready to land!")
	})

	t.Run("re-submitting an unchanged stack rewrites nothing", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.StackSceneSetup("one", "two"))
		require.NoError(t, actions.SubmitAction(s.Context, actions.SubmitOptions{}))
		top := s.Rev("feature")
		before := len(s.Runner.Calls())

		require.NoError(t, actions.SubmitAction(s.Context, actions.SubmitOptions{}))

		second := s.Runner.Calls()[before:]
		for _, call := range second {
			require.False(t, strings.HasPrefix(call, "commit --amend"), call)
			require.False(t, strings.HasPrefix(call, "rebase"), call)
		}
		require.Len(t, s.Host.CallsOf("create"), 2)
		require.Len(t, s.Host.PRs, 2)
		require.Equal(t, top, s.Rev("feature"))
	})

	t.Run("applies the draft bitmask per commit", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.StackSceneSetup("one", "two", "three"))

		err := actions.SubmitAction(s.Context, actions.SubmitOptions{DraftBitmask: "101"})
		require.NoError(t, err)

		require.True(t, s.Host.PR(1).Draft)
		require.False(t, s.Host.PR(2).Draft)
		require.True(t, s.Host.PR(3).Draft)
	})

	t.Run("rejects a bitmask of the wrong length", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.StackSceneSetup("one", "two", "three"))

		err := actions.SubmitAction(s.Context, actions.SubmitOptions{DraftBitmask: "10"})
		require.Error(t, err)
		require.Empty(t, s.Host.Calls)
		require.Empty(t, s.Runner.Calls())
	})

	t.Run("passes reviewers to new PRs", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.StackSceneSetup("one"))

		err := actions.SubmitAction(s.Context, actions.SubmitOptions{Reviewer: "alice,bob"})
		require.NoError(t, err)
		require.Equal(t, []string{"alice", "bob"}, s.Host.PR(1).Reviewers)
	})

	t.Run("warns when reviewers are rejected", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.StackSceneSetup("one"))
		s.Host.FailOn["reviewers"] = errors.New("reviewer not found")

		err := actions.SubmitAction(s.Context, actions.SubmitOptions{Reviewer: "nobody"})
		require.NoError(t, err)
		require.Len(t, s.Host.PRs, 1)
		s.ExpectOutput("Failed to request reviewers for https://github.com/owner/repo/pull/1: reviewer not found")
	})

	t.Run("warns when the GitHub API rejects reviewers", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.StackSceneSetup("one"))
		server := s.WithMockGitHub()
		server.ErrorResponses["POST /repos/owner/repo/pulls/1/requested_reviewers"] = http.StatusUnprocessableEntity

		err := actions.SubmitAction(s.Context, actions.SubmitOptions{Reviewer: "nobody"})
		require.NoError(t, err)
		require.Len(t, server.CreatedPRs, 1)
		require.Empty(t, server.RequestedReviewers[1])
		s.ExpectOutput("Failed to request reviewers for https://github.com/owner/repo/pull/1")
		s.ExpectOutput("422")
	})

	t.Run("keeps the PR description above the stack block", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.StackSceneSetup("one"))
		require.NoError(t, actions.SubmitAction(s.Context, actions.SubmitOptions{}))
		s.Host.PRs[1].Body = "Stacked PRs:\n * __->__#1\n\n--- --- ---\nHand written notes"

		require.NoError(t, actions.SubmitAction(s.Context, actions.SubmitOptions{KeepBody: true}))

		body := s.Host.PR(1).Body
		require.Contains(t, body, "Hand written notes")
		require.Equal(t, 1, strings.Count(body, "--- --- ---"))
	})

	t.Run("keeps local branches on request", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.StackSceneSetup("one", "two"))

		err := actions.SubmitAction(s.Context, actions.SubmitOptions{KeepLocalBranches: true})
		require.NoError(t, err)
		require.ElementsMatch(t, []string{"feature", "main", "octocat/stack/1", "octocat/stack/2"}, s.LocalBranches())
	})

	t.Run("rebases a branch built on top of the stack", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.StackSceneSetup("one", "two"))
		s.RunGit("checkout", "-b", "top").CommitChange("extra", "extra")

		err := actions.SubmitAction(s.Context, actions.SubmitOptions{
			StackOptions: actions.StackOptions{Head: "feature"},
		})
		require.NoError(t, err)

		require.Equal(t, "top", s.CurrentBranch())
		require.Equal(t, []string{"extra", "two", "one"}, s.Subjects("main", "top"))
		require.Contains(t, s.Message("top~1"), "branch: octocat/stack/2")
		require.Equal(t, s.Rev("top~1"), s.Rev("origin/octocat/stack/2"))
		require.NotEmpty(t, s.Runner.CallsWithPrefix("rebase --committer-date-is-author-date --onto octocat/stack/1 octocat/stack/2~1 octocat/stack/2"))
		replayedTop := false
		for _, call := range s.Runner.CallsWithPrefix("rebase --committer-date-is-author-date --onto ") {
			replayedTop = replayedTop || strings.HasSuffix(call, " top")
		}
		require.True(t, replayedTop)
	})

	t.Run("returns to the original branch when a step fails", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.StackSceneSetup("one", "two"))
		top := s.Rev("feature")
		s.Runner.FailWhen = func(call string) error {
			if strings.HasPrefix(call, "commit --amend") {
				return errors.New("amend refused")
			}
			return nil
		}

		err := actions.SubmitAction(s.Context, actions.SubmitOptions{})
		require.Error(t, err)

		var stepErr *stackprerrors.StepError
		require.True(t, errors.As(err, &stepErr))
		require.Equal(t, "submit", stepErr.Operation)
		require.Equal(t, "embed metadata", stepErr.Step)
		require.NotNil(t, stepErr.Entry)

		require.Equal(t, "feature", s.CurrentBranch())
		require.Equal(t, top, s.Rev("feature"))
		s.ExpectClean()
	})

	t.Run("fast-forwards a stale local target first", func(t *testing.T) {
		s := scenario.NewScenario(t, staleTargetSetup)

		err := actions.SubmitAction(s.Context, actions.SubmitOptions{})
		require.NoError(t, err)

		require.Contains(t, s.Runner.Calls(), "rebase --onto origin/main main main")
		require.Equal(t, s.Rev("origin/main"), s.Rev("main"))
		require.Equal(t, "feature", s.CurrentBranch())
		require.Len(t, s.Host.PRs, 1)
	})
}

// staleTargetSetup leaves local main one commit behind origin/main with the
// feature branch built on origin/main
func staleTargetSetup(scene *testhelpers.Scene) error {
	repo := scene.Repo
	if err := repo.CreateChangeAndCommit("upstream", "upstream"); err != nil {
		return err
	}
	if err := repo.PushBranch("origin", "main"); err != nil {
		return err
	}
	if err := repo.CreateAndCheckoutBranch("feature"); err != nil {
		return err
	}
	if err := repo.CreateChangeAndCommit("one", "one"); err != nil {
		return err
	}
	return repo.RunGitCommand("branch", "-f", "main", "main~1")
}
