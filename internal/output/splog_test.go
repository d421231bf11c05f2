package output_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"stackpr.dev/stackpr/internal/output"
)

func TestSplog(t *testing.T) {
	t.Run("console output has prefixes and no attributes", func(t *testing.T) {
		t.Setenv("DEBUG", "")
		var buf bytes.Buffer
		splog, err := output.NewSplogWithConfig(&buf, "")
		require.NoError(t, err)

		splog.Info("pushed %d branches", 3)
		splog.Warn("local main is behind")
		splog.Error("failed: %s", "boom")
		splog.Tip("run land")
		splog.Debug("hidden")
		splog.Log(slog.LevelInfo, "step done", slog.String("step", "push"))

		require.Equal(t, "pushed 3 branches\n⚠️  local main is behind\n❌ failed: boom\n💡 run land\nstep done\n", buf.String())
	})

	t.Run("debug messages show with DEBUG set", func(t *testing.T) {
		t.Setenv("DEBUG", "1")
		var buf bytes.Buffer
		splog, err := output.NewSplogWithConfig(&buf, "")
		require.NoError(t, err)

		splog.Debug("running %s", "git fetch")
		require.Equal(t, "running git fetch\n", buf.String())
	})

	t.Run("file log keeps structured attributes", func(t *testing.T) {
		t.Setenv("DEBUG", "")
		logPath := filepath.Join(t.TempDir(), "logs", "stack-pr.log")
		var buf bytes.Buffer
		splog, err := output.NewSplogWithConfig(&buf, logPath)
		require.NoError(t, err)

		splog.Log(slog.LevelDebug, "entry rebased", slog.String("branch", "alice/stack/2"))
		splog.Info("done")
		require.NoError(t, splog.Close())

		content, err := os.ReadFile(logPath)
		require.NoError(t, err)
		require.Contains(t, string(content), `msg="entry rebased" branch=alice/stack/2`)
		require.Contains(t, string(content), "msg=done")
		require.Equal(t, "done\n", buf.String())
	})
}

func TestGetLogFilePath(t *testing.T) {
	t.Run("environment override", func(t *testing.T) {
		t.Setenv("STACK_PR_LOG_FILE", "/tmp/custom.log")
		require.Equal(t, "/tmp/custom.log", output.GetLogFilePath(false))
	})

	t.Run("disabled without override", func(t *testing.T) {
		t.Setenv("STACK_PR_LOG_FILE", "")
		require.Empty(t, output.GetLogFilePath(false))
	})

	t.Run("default under home", func(t *testing.T) {
		t.Setenv("STACK_PR_LOG_FILE", "")
		home := t.TempDir()
		t.Setenv("HOME", home)
		require.Equal(t, filepath.Join(home, ".stack-pr", "logs", "stack-pr.log"), output.GetLogFilePath(true))
	})
}
