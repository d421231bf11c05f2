package github_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"stackpr.dev/stackpr/internal/github"
)

func TestParseGitHubRemoteURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected github.RepoInfo
	}{
		{"https", "https://github.com/owner/repo.git", github.RepoInfo{Hostname: "github.com", Owner: "owner", Repo: "repo"}},
		{"https without suffix", "https://github.com/owner/repo", github.RepoInfo{Hostname: "github.com", Owner: "owner", Repo: "repo"}},
		{"scp-like ssh", "git@github.com:owner/repo.git", github.RepoInfo{Hostname: "github.com", Owner: "owner", Repo: "repo"}},
		{"ssh scheme", "ssh://git@github.company.com/team/project", github.RepoInfo{Hostname: "github.company.com", Owner: "team", Repo: "project"}},
		{"enterprise https", "https://github.company.com/team/project.git\n", github.RepoInfo{Hostname: "github.company.com", Owner: "team", Repo: "project"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := github.ParseGitHubRemoteURL(tt.url)
			require.NoError(t, err)
			require.Equal(t, tt.expected, *info)
		})
	}

	t.Run("rejects URLs without owner and repo", func(t *testing.T) {
		for _, url := range []string{"https://github.com/repo", "git@github.com", "/local/path/repo.git"} {
			_, err := github.ParseGitHubRemoteURL(url)
			require.Error(t, err, url)
		}
	})
}

func TestParseReviewers(t *testing.T) {
	t.Run("splits users and teams", func(t *testing.T) {
		users, teams := github.ParseReviewers("alice, org/team ,bob,,")
		require.Equal(t, []string{"alice", "bob"}, users)
		require.Equal(t, []string{"org/team"}, teams)
	})

	t.Run("empty input", func(t *testing.T) {
		users, teams := github.ParseReviewers("")
		require.Nil(t, users)
		require.Nil(t, teams)
	})
}
