package output

import (
	"os"
	"path/filepath"
)

// GetLogFilePath returns the path to the log file, or "" when file logging is off.
// STACK_PR_LOG_FILE always wins; otherwise ~/.stack-pr/logs/stack-pr.log is
// used when enabled is set.
func GetLogFilePath(enabled bool) string {
	if customPath := os.Getenv("STACK_PR_LOG_FILE"); customPath != "" {
		return customPath
	}
	if !enabled {
		return ""
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "stack-pr.log"
	}

	return filepath.Join(homeDir, ".stack-pr", "logs", "stack-pr.log")
}
