package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"stackpr.dev/stackpr/internal/config"
)

// newRepoRoot returns a directory with an empty .git dir and isolates user config
func newRepoRoot(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("STACK_PR_DEFAULT_REVIEWER", "")
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0750))
	return root
}

func TestRepoConfig(t *testing.T) {
	t.Run("returns defaults when config does not exist", func(t *testing.T) {
		root := newRepoRoot(t)

		cfg, err := config.GetRepoConfig(root)
		require.NoError(t, err)
		require.Nil(t, cfg.Remote)
		require.Nil(t, cfg.KeepBody)
	})

	t.Run("set and read back values", func(t *testing.T) {
		root := newRepoRoot(t)

		require.NoError(t, config.SetRepoValue(root, "target", "develop"))
		require.NoError(t, config.SetRepoValue(root, "keepBody", "true"))

		cfg, err := config.GetRepoConfig(root)
		require.NoError(t, err)
		require.Equal(t, "develop", *cfg.Target)
		require.True(t, *cfg.KeepBody)

		data, err := os.ReadFile(filepath.Join(root, ".git", ".stack_pr_config"))
		require.NoError(t, err)
		require.Contains(t, string(data), `"keepBody": true`)
	})

	t.Run("get reports unset keys", func(t *testing.T) {
		root := newRepoRoot(t)
		require.NoError(t, config.SetRepoValue(root, "keepBody", "no"))

		_, ok, err := config.GetRepoValue(root, "remote")
		require.NoError(t, err)
		require.False(t, ok)

		value, ok, err := config.GetRepoValue(root, "keepBody")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "false", value)

		_, _, err = config.GetRepoValue(root, "trunk")
		require.Error(t, err)
	})

	t.Run("rejects unknown keys and bad booleans", func(t *testing.T) {
		root := newRepoRoot(t)

		require.Error(t, config.SetRepoValue(root, "trunk", "main"))
		require.Error(t, config.SetRepoValue(root, "keepBody", "maybe"))
	})

	t.Run("reports malformed config", func(t *testing.T) {
		root := newRepoRoot(t)
		require.NoError(t, os.WriteFile(filepath.Join(root, ".git", ".stack_pr_config"), []byte("{"), 0600))

		_, err := config.GetRepoConfig(root)
		require.Error(t, err)
	})
}

func TestUserConfig(t *testing.T) {
	t.Run("round trips through the XDG path", func(t *testing.T) {
		xdg := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", xdg)

		require.NoError(t, config.SaveUserConfig(&config.UserConfig{Reviewer: "alice", LogToFile: true}))

		path, err := config.UserConfigPath()
		require.NoError(t, err)
		require.Equal(t, filepath.Join(xdg, "stack-pr", "config.yaml"), path)

		cfg, err := config.LoadUserConfig()
		require.NoError(t, err)
		require.Equal(t, "alice", cfg.Reviewer)
		require.True(t, cfg.LogToFile)
		require.Empty(t, cfg.GitHubHost)
	})

	t.Run("parses snake case keys", func(t *testing.T) {
		xdg := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", xdg)
		require.NoError(t, os.MkdirAll(filepath.Join(xdg, "stack-pr"), 0750))
		require.NoError(t, os.WriteFile(filepath.Join(xdg, "stack-pr", "config.yaml"), []byte("github_host: github.example.com\n"), 0600))

		cfg, err := config.LoadUserConfig()
		require.NoError(t, err)
		require.Equal(t, "github.example.com", cfg.GitHubHost)
	})
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		root := newRepoRoot(t)

		settings, err := config.Load(root)
		require.NoError(t, err)
		require.Equal(t, "origin", settings.Remote)
		require.Equal(t, "main", settings.Target)
		require.Empty(t, settings.Reviewer)
		require.False(t, settings.KeepBody)
	})

	t.Run("environment over repo over user", func(t *testing.T) {
		root := newRepoRoot(t)
		require.NoError(t, config.SaveUserConfig(&config.UserConfig{Reviewer: "user-reviewer"}))

		settings, err := config.Load(root)
		require.NoError(t, err)
		require.Equal(t, "user-reviewer", settings.Reviewer)

		require.NoError(t, config.SetRepoValue(root, "reviewer", "repo-reviewer"))
		require.NoError(t, config.SetRepoValue(root, "remote", "upstream"))
		settings, err = config.Load(root)
		require.NoError(t, err)
		require.Equal(t, "repo-reviewer", settings.Reviewer)
		require.Equal(t, "upstream", settings.Remote)

		t.Setenv("STACK_PR_DEFAULT_REVIEWER", "env-reviewer")
		settings, err = config.Load(root)
		require.NoError(t, err)
		require.Equal(t, "env-reviewer", settings.Reviewer)
	})
}
