// Package integration runs the stack-pr binary against real repositories.
package integration

import (
	"testing"

	"stackpr.dev/stackpr/internal/testhelper"
)

// getStackPRBinary returns the path to the pre-built stack-pr binary.
func getStackPRBinary(t *testing.T) string {
	t.Helper()
	binaryPath := testhelper.GetSharedBinaryPath()
	if binaryPath == "" {
		if err := testhelper.GetBinaryError(); err != nil {
			t.Fatalf("failed to build stack-pr binary: %v", err)
		}
		t.Fatal("stack-pr binary not built")
	}
	return binaryPath
}
