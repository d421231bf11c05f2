// Package scenario provides a high-level test scenario that combines a Scene,
// a recording git runner, an in-memory PR host and a runtime Context to
// provide a terse API for action tests.
package scenario

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"stackpr.dev/stackpr/internal/git"
	"stackpr.dev/stackpr/internal/github"
	"stackpr.dev/stackpr/internal/output"
	"stackpr.dev/stackpr/internal/runtime"
	"stackpr.dev/stackpr/testhelpers"
)

// Login is the PR host user of every scenario
const Login = "octocat"

// Scenario represents a high-level test scenario
type Scenario struct {
	T       *testing.T
	Scene   *testhelpers.Scene
	Runner  *testhelpers.RecordingRunner
	Host    *testhelpers.FakePRHost
	Output  *bytes.Buffer
	Context *runtime.Context
}

// NewScenario creates a new Scenario with an optional setup function. Merges
// on the fake host are squash merged into the scene's bare remote.
func NewScenario(t *testing.T, setup testhelpers.SceneSetup) *Scenario {
	t.Helper()

	scene := testhelpers.NewScene(t, setup)
	runner, err := git.NewRealRunner(scene.Dir)
	require.NoError(t, err)
	recorder := testhelpers.NewRecordingRunner(runner)

	host := testhelpers.NewFakePRHost(Login)
	host.OnMerge = func(pr *testhelpers.FakePR, merge testhelpers.FakeMerge) error {
		return testhelpers.SquashMergeRemote(scene.RemoteDir, pr.Head, pr.Base, merge.Title+"\n\n"+merge.Body)
	}

	var buf bytes.Buffer
	splog, err := output.NewSplogWithConfig(&buf, "")
	require.NoError(t, err)

	ctx := runtime.NewContext(context.Background(), recorder, host, splog, nil)

	return &Scenario{
		T:       t,
		Scene:   scene,
		Runner:  recorder,
		Host:    host,
		Output:  &buf,
		Context: ctx,
	}
}

// WithMockGitHub replaces the in-memory host with the GitHub client talking
// to a mock API server, and returns the server's state.
func (s *Scenario) WithMockGitHub() *testhelpers.MockGitHubServerConfig {
	s.T.Helper()
	config := testhelpers.NewMockGitHubServerConfig()
	config.Login = Login
	client, owner, repo := testhelpers.NewMockGitHubClient(s.T, config)
	s.Context.GitHub = github.NewClientFromGitHub(client, owner, repo)
	return config
}

// WithUncommittedChange creates an uncommitted change to a tracked file.
func (s *Scenario) WithUncommittedChange(name string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Scene.Repo.CreateChangeAndCommit("committed content", name))
	require.NoError(s.T, s.Scene.Repo.CreateChange("unstaged content", name, true))
	return s
}

// RunGit runs a git command in the scenario's repository.
func (s *Scenario) RunGit(args ...string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Scene.Repo.RunGitCommand(args...))
	return s
}

// Checkout checks out a branch.
func (s *Scenario) Checkout(branch string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Scene.Repo.CheckoutBranch(branch))
	return s
}

// CommitChange creates a file change and commits it.
func (s *Scenario) CommitChange(name, message string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Scene.Repo.CreateChangeAndCommitMessage(message, name, message))
	return s
}

// Rev resolves a revision to its hash.
func (s *Scenario) Rev(rev string) string {
	s.T.Helper()
	hash, err := s.Scene.Repo.GetRevision(rev)
	require.NoError(s.T, err)
	return hash
}

// Message returns the full commit message of a revision.
func (s *Scenario) Message(rev string) string {
	s.T.Helper()
	message, err := s.Scene.Repo.CommitMessage(rev)
	require.NoError(s.T, err)
	return message
}

// Subjects returns the commit subjects in (base, head], newest first.
func (s *Scenario) Subjects(base, head string) []string {
	s.T.Helper()
	subjects, err := s.Scene.Repo.CommitSubjects(base, head)
	require.NoError(s.T, err)
	return subjects
}

// CurrentBranch returns the checked out branch, empty when detached.
func (s *Scenario) CurrentBranch() string {
	s.T.Helper()
	branch, err := s.Scene.Repo.CurrentBranchName()
	require.NoError(s.T, err)
	return branch
}

// LocalBranches returns the local branch names.
func (s *Scenario) LocalBranches() []string {
	s.T.Helper()
	branches, err := s.Scene.Repo.GetLocalBranches()
	require.NoError(s.T, err)
	return branches
}

// RemoteBranches returns the branches of the bare remote.
func (s *Scenario) RemoteBranches() []string {
	s.T.Helper()
	branches, err := testhelpers.RemoteBranches(s.Scene.RemoteDir)
	require.NoError(s.T, err)
	return branches
}

// ExpectClean asserts that the working copy has no changes.
func (s *Scenario) ExpectClean() *Scenario {
	s.T.Helper()
	status, err := s.Scene.Repo.Status()
	require.NoError(s.T, err)
	require.Empty(s.T, status)
	return s
}

// ExpectOutput asserts that the printed output contains text.
func (s *Scenario) ExpectOutput(text string) *Scenario {
	s.T.Helper()
	require.True(s.T, strings.Contains(s.Output.String(), text), "output does not contain %q:\n%s", text, s.Output.String())
	return s
}
