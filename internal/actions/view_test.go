package actions_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"stackpr.dev/stackpr/internal/actions"
	"stackpr.dev/stackpr/testhelpers"
	"stackpr.dev/stackpr/testhelpers/scenario"
)

func TestViewAction(t *testing.T) {
	t.Run("shows the branches submit would allocate", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.StackSceneSetup("one", "two"))

		result, err := actions.ViewAction(s.Context, actions.StackOptions{})
		require.NoError(t, err)

		require.False(t, result.ReadyToLand)
		require.Len(t, result.Stack, 2)
		head, ok := result.Stack[1].Head()
		require.True(t, ok)
		require.Equal(t, "octocat/stack/2", head)

		require.Equal(t, []string{"fetch origin"}, s.Runner.Calls())
		require.Empty(t, s.Host.Calls)
		s.ExpectOutput("Stack:").
			ExpectOutput("(no PR, 'octocat/stack/2' -> 'octocat/stack/1'): two").
			ExpectOutput("This stack can't be landed yet, you need to export it first.").
			ExpectOutput("$ stack-pr export -B feature~2 -H feature")
	})

	t.Run("reports a submitted stack as ready to land", func(t *testing.T) {
		s := submittedScenario(t, "one", "two")
		s.Output.Reset()

		result, err := actions.ViewAction(s.Context, actions.StackOptions{})
		require.NoError(t, err)

		require.True(t, result.ReadyToLand)
		s.ExpectOutput("(#2, 'octocat/stack/2' -> 'octocat/stack/1'): two").
			ExpectOutput("This stack is ready to land!").
			ExpectOutput("$ stack-pr land -B feature~2 -H feature~N")
	})

	t.Run("works on a dirty working copy", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.StackSceneSetup("one"))
		s.WithUncommittedChange("dirty")

		result, err := actions.ViewAction(s.Context, actions.StackOptions{})
		require.NoError(t, err)
		require.Len(t, result.Stack, 2)
	})

	t.Run("warns about a stale target without changing it", func(t *testing.T) {
		s := scenario.NewScenario(t, staleTargetSetup)
		main := s.Rev("main")

		_, err := actions.ViewAction(s.Context, actions.StackOptions{})
		require.NoError(t, err)

		require.Equal(t, main, s.Rev("main"))
		require.Empty(t, s.Runner.CallsWithPrefix("rebase"))
		s.ExpectOutput("can be fast-forwarded")
	})

	t.Run("empty stack", func(t *testing.T) {
		s := scenario.NewScenario(t, nil)

		result, err := actions.ViewAction(s.Context, actions.StackOptions{})
		require.NoError(t, err)
		require.Empty(t, result.Stack)
		require.False(t, result.ReadyToLand)
	})
}
