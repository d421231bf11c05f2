// Package tui provides the interactive terminal prompts of stack-pr.
package tui
