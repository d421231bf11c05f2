package testhelpers

import (
	"context"
	"fmt"
	"sync"

	githubpkg "stackpr.dev/stackpr/internal/github"
	"stackpr.dev/stackpr/internal/stackinfo"
)

// FakePR is the state of a pull request held by FakePRHost
type FakePR struct {
	Number    int
	State     string
	Head      string
	Base      string
	Title     string
	Body      string
	Draft     bool
	Reviewers []string
}

// FakeMerge records a squash merge performed through FakePRHost
type FakeMerge struct {
	Number int
	Title  string
	Body   string
	SHA    string
}

// FakePRHost is an in-memory githubpkg.Client.
type FakePRHost struct {
	// Login is returned by CurrentUser
	Login string
	// PRs holds every PR by number
	PRs map[int]*FakePR
	// Merges lists merges in order
	Merges []FakeMerge
	// Calls lists every call as "<method> <ref>"
	Calls []string

	// FailOn maps a method name ("create", "reviewers", "get", "update",
	// "merge") to the error it returns instead of acting.
	FailOn map[string]error
	// OnMerge runs after a successful merge, e.g. to update a bare remote.
	OnMerge func(pr *FakePR, merge FakeMerge) error
	// Omit lists PullRequestInfo fields GetPullRequest leaves nil.
	Omit map[string]bool

	mu sync.Mutex
}

var _ githubpkg.Client = (*FakePRHost)(nil)

// NewFakePRHost creates an empty host for user login
func NewFakePRHost(login string) *FakePRHost {
	return &FakePRHost{
		Login:  login,
		PRs:    make(map[int]*FakePR),
		FailOn: make(map[string]error),
		Omit:   make(map[string]bool),
	}
}

// URL returns the reference of PR number
func (h *FakePRHost) URL(number int) string {
	return fmt.Sprintf("https://github.com/owner/repo/pull/%d", number)
}

// AddPR registers an open PR and returns its reference
func (h *FakePRHost) AddPR(number int, head, base string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.PRs[number] = &FakePR{Number: number, State: githubpkg.StateOpen, Head: head, Base: base}
	return h.URL(number)
}

// PR returns a copy of PR number, or nil
func (h *FakePRHost) PR(number int) *FakePR {
	h.mu.Lock()
	defer h.mu.Unlock()
	pr, ok := h.PRs[number]
	if !ok {
		return nil
	}
	prCopy := *pr
	return &prCopy
}

// CallsOf returns the recorded calls of one method
func (h *FakePRHost) CallsOf(method string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var calls []string
	for _, call := range h.Calls {
		if len(call) > len(method) && call[:len(method)+1] == method+" " {
			calls = append(calls, call)
		}
	}
	return calls
}

func (h *FakePRHost) lookup(ref string) (*FakePR, error) {
	n, ok := stackinfo.PRNumber(ref)
	if !ok {
		return nil, fmt.Errorf("cannot determine PR number from %q", ref)
	}
	pr, ok := h.PRs[n]
	if !ok {
		return nil, fmt.Errorf("PR %s not found", ref)
	}
	return pr, nil
}

func (h *FakePRHost) CreatePullRequest(_ context.Context, opts githubpkg.CreatePROptions) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Calls = append(h.Calls, "create "+opts.Head)
	if err := h.FailOn["create"]; err != nil {
		return "", err
	}
	number := 1
	for n := range h.PRs {
		if n >= number {
			number = n + 1
		}
	}
	h.PRs[number] = &FakePR{
		Number:    number,
		State:     githubpkg.StateOpen,
		Head:      opts.Head,
		Base:      opts.Base,
		Title:     opts.Title,
		Body:      opts.Body,
		Draft:     opts.Draft,
	}
	return h.URL(number), nil
}

func (h *FakePRHost) RequestReviewers(_ context.Context, ref string, reviewers, teamReviewers []string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Calls = append(h.Calls, "reviewers "+ref)
	if err := h.FailOn["reviewers"]; err != nil {
		return err
	}
	pr, err := h.lookup(ref)
	if err != nil {
		return err
	}
	pr.Reviewers = append(pr.Reviewers, reviewers...)
	pr.Reviewers = append(pr.Reviewers, teamReviewers...)
	return nil
}

func (h *FakePRHost) GetPullRequest(_ context.Context, ref string) (*githubpkg.PullRequestInfo, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Calls = append(h.Calls, "get "+ref)
	if err := h.FailOn["get"]; err != nil {
		return nil, err
	}
	pr, err := h.lookup(ref)
	if err != nil {
		return nil, err
	}
	number, state, base, head := pr.Number, pr.State, pr.Base, pr.Head
	info := &githubpkg.PullRequestInfo{
		Number:      &number,
		State:       &state,
		BaseRefName: &base,
		HeadRefName: &head,
		Title:       pr.Title,
		Body:        pr.Body,
		URL:         h.URL(pr.Number),
	}
	if h.Omit["number"] {
		info.Number = nil
	}
	if h.Omit["state"] {
		info.State = nil
	}
	if h.Omit["baseRefName"] {
		info.BaseRefName = nil
	}
	if h.Omit["headRefName"] {
		info.HeadRefName = nil
	}
	return info, nil
}

func (h *FakePRHost) UpdatePullRequest(_ context.Context, ref string, opts githubpkg.UpdatePROptions) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Calls = append(h.Calls, "update "+ref)
	if err := h.FailOn["update"]; err != nil {
		return err
	}
	pr, err := h.lookup(ref)
	if err != nil {
		return err
	}
	if opts.Title != nil {
		pr.Title = *opts.Title
	}
	if opts.Body != nil {
		pr.Body = *opts.Body
	}
	if opts.Base != nil {
		pr.Base = *opts.Base
	}
	return nil
}

func (h *FakePRHost) MergePullRequest(_ context.Context, ref string, opts githubpkg.MergePROptions) error {
	h.mu.Lock()
	h.Calls = append(h.Calls, "merge "+ref)
	if err := h.FailOn["merge"]; err != nil {
		h.mu.Unlock()
		return err
	}
	pr, err := h.lookup(ref)
	if err != nil {
		h.mu.Unlock()
		return err
	}
	if pr.State != githubpkg.StateOpen {
		h.mu.Unlock()
		return fmt.Errorf("PR %s is not open", ref)
	}
	pr.State = githubpkg.StateMerged
	merge := FakeMerge{Number: pr.Number, Title: opts.Title, Body: opts.Body, SHA: opts.SHA}
	h.Merges = append(h.Merges, merge)
	prCopy := *pr
	onMerge := h.OnMerge
	h.mu.Unlock()

	if onMerge != nil {
		return onMerge(&prCopy, merge)
	}
	return nil
}

func (h *FakePRHost) CurrentUser(_ context.Context) (string, error) {
	return h.Login, nil
}
