// Package errors provides sentinel errors and custom error types for stack-pr.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common conditions
var (
	// ErrAncestry indicates that the requested base is not an ancestor of head
	ErrAncestry = errors.New("base is not an ancestor of head")

	// ErrRepoDirty indicates that tracked files have uncommitted changes
	ErrRepoDirty = errors.New("repository has uncommitted changes")

	// ErrVerification is matched by every stack verification failure
	ErrVerification = errors.New("stack verification failed")

	// ErrExternalCommand indicates that git or the PR host rejected a request
	ErrExternalCommand = errors.New("external command failed")

	// ErrRebaseConflict indicates that a rebase operation encountered a conflict
	ErrRebaseConflict = errors.New("rebase conflict")

	// ErrAborted indicates that the user declined a confirmation prompt
	ErrAborted = errors.New("aborted by user")
)

// AncestryError is returned when base is not an ancestor of head
type AncestryError struct {
	Base string
	Head string
}

func (e *AncestryError) Error() string {
	return fmt.Sprintf("base %s is not an ancestor of head %s", e.Base, e.Head)
}

// Is returns true if the target error is ErrAncestry
func (e *AncestryError) Is(target error) bool {
	return target == ErrAncestry
}

// RepoDirtyError is returned when the working copy has uncommitted tracked changes
type RepoDirtyError struct {
	Files []string
}

func (e *RepoDirtyError) Error() string {
	msg := "there are uncommitted changes; commit or stash them before running stack-pr"
	if len(e.Files) > 0 {
		msg += "\n  " + strings.Join(e.Files, "\n  ")
	}
	return msg
}

// Is returns true if the target error is ErrRepoDirty
func (e *RepoDirtyError) Is(target error) bool {
	return target == ErrRepoDirty
}

// EntryRef identifies a stack entry in verification errors
type EntryRef struct {
	CommitID string
	Title    string
}

func (r EntryRef) String() string {
	id := r.CommitID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("%s %q", id, r.Title)
}

// MissingMetadataError is returned when an entry lacks its PR, head or base
type MissingMetadataError struct {
	Entry   EntryRef
	Missing []string
}

func (e *MissingMetadataError) Error() string {
	return fmt.Sprintf("commit %s is missing stack metadata (%s); run 'stack-pr submit' first",
		e.Entry, strings.Join(e.Missing, ", "))
}

// Is returns true if the target error is ErrVerification
func (e *MissingMetadataError) Is(target error) bool {
	return target == ErrVerification
}

// MalformedLinkError is returned when a PR reference carries no numeric id
type MalformedLinkError struct {
	Entry EntryRef
	PR    string
}

func (e *MalformedLinkError) Error() string {
	return fmt.Sprintf("commit %s has a malformed PR link %q", e.Entry, e.PR)
}

// Is returns true if the target error is ErrVerification
func (e *MalformedLinkError) Is(target error) bool {
	return target == ErrVerification
}

// MalformedHostResponseError is returned when the PR host omits a required field
type MalformedHostResponseError struct {
	Entry EntryRef
	PR    string
	Field string
}

func (e *MalformedHostResponseError) Error() string {
	return fmt.Sprintf("PR host response for %s (commit %s) is missing field %q", e.PR, e.Entry, e.Field)
}

// Is returns true if the target error is ErrVerification
func (e *MalformedHostResponseError) Is(target error) bool {
	return target == ErrVerification
}

// PrNotOpenError is returned when a stack PR is closed or merged
type PrNotOpenError struct {
	Entry EntryRef
	PR    string
	State string
}

func (e *PrNotOpenError) Error() string {
	return fmt.Sprintf("PR %s for commit %s is %s, expected OPEN", e.PR, e.Entry, e.State)
}

// Is returns true if the target error is ErrVerification
func (e *PrNotOpenError) Is(target error) bool {
	return target == ErrVerification
}

// PrNumberMismatchError is returned when the host reports another PR number
type PrNumberMismatchError struct {
	Entry    EntryRef
	PR       string
	Expected int
	Actual   int
}

func (e *PrNumberMismatchError) Error() string {
	return fmt.Sprintf("PR %s for commit %s reports number #%d, expected #%d", e.PR, e.Entry, e.Actual, e.Expected)
}

// Is returns true if the target error is ErrVerification
func (e *PrNumberMismatchError) Is(target error) bool {
	return target == ErrVerification
}

// PrHeadMismatchError is returned when a PR's head branch differs from the entry's head
type PrHeadMismatchError struct {
	Entry    EntryRef
	PR       string
	Expected string
	Actual   string
}

func (e *PrHeadMismatchError) Error() string {
	return fmt.Sprintf("PR %s for commit %s has head branch %q, expected %q", e.PR, e.Entry, e.Actual, e.Expected)
}

// Is returns true if the target error is ErrVerification
func (e *PrHeadMismatchError) Is(target error) bool {
	return target == ErrVerification
}

// PrBaseMismatchError is returned when a PR's base branch differs from the entry's base
type PrBaseMismatchError struct {
	Entry    EntryRef
	PR       string
	Expected string
	Actual   string
}

func (e *PrBaseMismatchError) Error() string {
	return fmt.Sprintf("PR %s for commit %s targets %q, expected %q; run 'stack-pr submit' to fix the stack",
		e.PR, e.Entry, e.Actual, e.Expected)
}

// Is returns true if the target error is ErrVerification
func (e *PrBaseMismatchError) Is(target error) bool {
	return target == ErrVerification
}

// ExternalCommandError represents a failed git invocation or PR host request
type ExternalCommandError struct {
	Command  string
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

func (e *ExternalCommandError) Error() string {
	msg := fmt.Sprintf("%s command failed", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(": %s %s", e.Command, strings.Join(e.Args, " "))
	}
	if e.ExitCode != 0 {
		msg += fmt.Sprintf(" (exit code %d)", e.ExitCode)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", strings.TrimSpace(e.Stderr))
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", strings.TrimSpace(e.Stdout))
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *ExternalCommandError) Unwrap() error {
	return e.Err
}

// Is returns true if the target error is ErrExternalCommand
func (e *ExternalCommandError) Is(target error) bool {
	return target == ErrExternalCommand
}

// NewExternalCommandError creates a new ExternalCommandError
func NewExternalCommandError(command string, args []string, exitCode int, stdout, stderr string, err error) *ExternalCommandError {
	return &ExternalCommandError{
		Command:  command,
		Args:     args,
		ExitCode: exitCode,
		Stdout:   stdout,
		Stderr:   stderr,
		Err:      err,
	}
}

// RebaseConflictError represents a rebase that could not be completed
type RebaseConflictError struct {
	Branch string
	Onto   string
	Err    error
}

func (e *RebaseConflictError) Error() string {
	target := e.Branch
	if target == "" {
		target = "HEAD"
	}
	return fmt.Sprintf("rebase of %s onto %s failed: %v", target, e.Onto, e.Err)
}

func (e *RebaseConflictError) Unwrap() error {
	return e.Err
}

// Is returns true if the target error is ErrRebaseConflict
func (e *RebaseConflictError) Is(target error) bool {
	return target == ErrRebaseConflict
}

// NewRebaseConflictError creates a new RebaseConflictError
func NewRebaseConflictError(branch, onto string, err error) *RebaseConflictError {
	return &RebaseConflictError{Branch: branch, Onto: onto, Err: err}
}

// StepError annotates a failure with the operation step and stack entry it happened on
type StepError struct {
	Operation string
	Step      string
	Entry     *EntryRef
	Err       error
}

func (e *StepError) Error() string {
	msg := fmt.Sprintf("%s failed at step %q", e.Operation, e.Step)
	if e.Entry != nil {
		msg += fmt.Sprintf(" on commit %s", e.Entry)
	}
	return msg + ": " + e.Err.Error()
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// NewStepError wraps err with the failing step; it returns nil when err is nil
func NewStepError(operation, step string, entry *EntryRef, err error) error {
	if err == nil {
		return nil
	}
	return &StepError{Operation: operation, Step: step, Entry: entry, Err: err}
}
