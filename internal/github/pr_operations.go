package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v62/github"

	stackprerrors "stackpr.dev/stackpr/internal/errors"
	"stackpr.dev/stackpr/internal/stackinfo"
)

// RealClient implements Client using the GitHub REST API
type RealClient struct {
	client *github.Client
	owner  string
	repo   string
}

// NewClientFromGitHub wraps an already configured go-github client
func NewClientFromGitHub(client *github.Client, owner, repo string) *RealClient {
	return &RealClient{client: client, owner: owner, repo: repo}
}

// CreatePullRequest creates a new pull request and returns its URL
func (c *RealClient) CreatePullRequest(ctx context.Context, opts CreatePROptions) (string, error) {
	pr := &github.NewPullRequest{
		Title: github.String(opts.Title),
		Head:  github.String(opts.Head),
		Base:  github.String(opts.Base),
		Draft: github.Bool(opts.Draft),
	}

	if opts.Body != "" {
		pr.Body = github.String(opts.Body)
	}

	createdPR, resp, err := c.client.PullRequests.Create(ctx, c.owner, c.repo, pr)
	if err != nil {
		return "", c.apiError(http.MethodPost, "pulls", resp, err)
	}
	if createdPR.Number == nil || createdPR.HTMLURL == nil {
		return "", fmt.Errorf("created PR for %s is missing its number or URL", opts.Head)
	}

	return *createdPR.HTMLURL, nil
}

// RequestReviewers requests reviews from users and teams on a pull request
func (c *RealClient) RequestReviewers(ctx context.Context, ref string, reviewers, teamReviewers []string) error {
	number, err := prNumber(ref)
	if err != nil {
		return err
	}
	_, resp, err := c.client.PullRequests.RequestReviewers(ctx, c.owner, c.repo, number, github.ReviewersRequest{
		Reviewers:     reviewers,
		TeamReviewers: teamReviewers,
	})
	if err != nil {
		return c.apiError(http.MethodPost, fmt.Sprintf("pulls/%d/requested_reviewers", number), resp, err)
	}
	return nil
}

// GetPullRequest fetches a pull request by reference
func (c *RealClient) GetPullRequest(ctx context.Context, ref string) (*PullRequestInfo, error) {
	number, err := prNumber(ref)
	if err != nil {
		return nil, err
	}
	pr, resp, err := c.client.PullRequests.Get(ctx, c.owner, c.repo, number)
	if err != nil {
		return nil, c.apiError(http.MethodGet, fmt.Sprintf("pulls/%d", number), resp, err)
	}
	return toPullRequestInfo(pr), nil
}

// UpdatePullRequest updates an existing pull request
func (c *RealClient) UpdatePullRequest(ctx context.Context, ref string, opts UpdatePROptions) error {
	number, err := prNumber(ref)
	if err != nil {
		return err
	}

	update := &github.PullRequest{}
	if opts.Title != nil {
		update.Title = opts.Title
	}
	if opts.Body != nil {
		update.Body = opts.Body
	}
	if opts.Base != nil {
		update.Base = &github.PullRequestBranch{
			Ref: opts.Base,
		}
	}

	_, resp, err := c.client.PullRequests.Edit(ctx, c.owner, c.repo, number, update)
	if err != nil {
		return c.apiError(http.MethodPatch, fmt.Sprintf("pulls/%d", number), resp, err)
	}
	return nil
}

// MergePullRequest squash-merges a pull request with an explicit commit title and message
func (c *RealClient) MergePullRequest(ctx context.Context, ref string, opts MergePROptions) error {
	number, err := prNumber(ref)
	if err != nil {
		return err
	}

	result, resp, err := c.client.PullRequests.Merge(ctx, c.owner, c.repo, number, opts.Body, &github.PullRequestOptions{
		CommitTitle: opts.Title,
		SHA:         opts.SHA,
		MergeMethod: "squash",
	})
	if err != nil {
		return c.apiError(http.MethodPut, fmt.Sprintf("pulls/%d/merge", number), resp, err)
	}
	if result != nil && result.Merged != nil && !*result.Merged {
		return fmt.Errorf("PR #%d was not merged: %s", number, result.GetMessage())
	}
	return nil
}

// CurrentUser returns the login of the authenticated user
func (c *RealClient) CurrentUser(ctx context.Context) (string, error) {
	user, resp, err := c.client.Users.Get(ctx, "")
	if err != nil {
		return "", c.apiError(http.MethodGet, "user", resp, err)
	}
	if user.Login == nil || *user.Login == "" {
		return "", fmt.Errorf("authenticated user has no login")
	}
	return *user.Login, nil
}

func prNumber(ref string) (int, error) {
	number, ok := stackinfo.PRNumber(ref)
	if !ok {
		return 0, fmt.Errorf("cannot determine PR number from %q", ref)
	}
	return number, nil
}

// apiError converts a go-github failure into an ExternalCommandError
func (c *RealClient) apiError(method, path string, resp *github.Response, err error) error {
	status := 0
	if resp != nil && resp.Response != nil {
		status = resp.StatusCode
	}
	message := ""
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) {
		message = ghErr.Message
		for _, e := range ghErr.Errors {
			if e.Message != "" {
				message += "; " + e.Message
			}
		}
	}
	args := []string{method, fmt.Sprintf("repos/%s/%s/%s", c.owner, c.repo, path)}
	return stackprerrors.NewExternalCommandError("github", args, status, "", message, err)
}

// toPullRequestInfo converts a github.PullRequest to PullRequestInfo
func toPullRequestInfo(pr *github.PullRequest) *PullRequestInfo {
	if pr == nil {
		return nil
	}

	info := &PullRequestInfo{
		Number: pr.Number,
	}

	if pr.State != nil {
		state := strings.ToUpper(*pr.State)
		if pr.GetMerged() || pr.MergedAt != nil {
			state = StateMerged
		}
		info.State = &state
	}
	if pr.Base != nil && pr.Base.Ref != nil {
		info.BaseRefName = pr.Base.Ref
	}
	if pr.Head != nil && pr.Head.Ref != nil {
		info.HeadRefName = pr.Head.Ref
	}
	if pr.Title != nil {
		info.Title = *pr.Title
	}
	if pr.Body != nil {
		info.Body = *pr.Body
	}
	if pr.HTMLURL != nil {
		info.URL = *pr.HTMLURL
	}

	return info
}
