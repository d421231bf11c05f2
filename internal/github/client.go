// Package github provides the PR host side of stack-pr, backed by the GitHub API.
package github

import (
	"context"
)

// PR states as reported by GetPullRequest
const (
	StateOpen   = "OPEN"
	StateClosed = "CLOSED"
	StateMerged = "MERGED"
)

// PullRequestInfo contains the fields stack-pr reads from a pull request.
// This is a simplified struct to avoid coupling to the go-github library.
// Pointer fields are nil when the host response omitted them.
type PullRequestInfo struct {
	Number      *int
	State       *string
	BaseRefName *string
	HeadRefName *string
	Title       string
	Body        string
	URL         string
}

// CreatePROptions contains options for creating a pull request
type CreatePROptions struct {
	Title string
	Body  string
	Head  string
	Base  string
	Draft bool
}

// UpdatePROptions contains options for updating a pull request.
// Nil fields are left unchanged.
type UpdatePROptions struct {
	Title *string
	Body  *string
	Base  *string
}

// MergePROptions contains the squash commit title and message.
// A non-empty SHA makes the merge fail if the PR head moved.
type MergePROptions struct {
	Title string
	Body  string
	SHA   string
}

// Client is an interface for PR host interactions.
// PRs are addressed by the reference CreatePullRequest returned (their URL).
type Client interface {
	// CreatePullRequest creates a new pull request and returns its reference
	CreatePullRequest(ctx context.Context, opts CreatePROptions) (string, error)

	// RequestReviewers asks users and org/team slugs to review a pull request
	RequestReviewers(ctx context.Context, ref string, reviewers, teamReviewers []string) error

	// GetPullRequest fetches a pull request
	GetPullRequest(ctx context.Context, ref string) (*PullRequestInfo, error)

	// UpdatePullRequest updates title, body or base of a pull request
	UpdatePullRequest(ctx context.Context, ref string, opts UpdatePROptions) error

	// MergePullRequest squash-merges a pull request
	MergePullRequest(ctx context.Context, ref string, opts MergePROptions) error

	// CurrentUser returns the login of the authenticated user
	CurrentUser(ctx context.Context) (string, error)
}
