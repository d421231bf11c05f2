package testhelpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"

	"github.com/google/go-github/v62/github"
)

// MergeRecord is a squash merge received by the mock server
type MergeRecord struct {
	Number        int
	CommitTitle   string
	CommitMessage string
	MergeMethod   string
	SHA           string
}

// MockGitHubServerConfig configures the behavior of a mock GitHub server
type MockGitHubServerConfig struct {
	// PRs maps PR numbers to the current server-side state
	PRs map[int]*github.PullRequest
	// CreatedPRs stores PRs in creation order
	CreatedPRs []*github.PullRequest
	// UpdatedPRs stores the last PATCH result per PR number
	UpdatedPRs map[int]*github.PullRequest
	// Merges stores merge requests in arrival order
	Merges []MergeRecord
	// RequestedReviewers maps PR numbers to requested user logins
	RequestedReviewers map[int][]string
	// ErrorResponses maps "METHOD path" to an HTTP status returned instead of handling
	ErrorResponses map[string]int
	// Owner and Repo for the mock server
	Owner string
	Repo  string
	// Login is returned by GET /user
	Login string

	mu sync.Mutex
}

// NewMockGitHubServerConfig creates a new mock server config with defaults
func NewMockGitHubServerConfig() *MockGitHubServerConfig {
	return &MockGitHubServerConfig{
		PRs:                make(map[int]*github.PullRequest),
		CreatedPRs:         make([]*github.PullRequest, 0),
		UpdatedPRs:         make(map[int]*github.PullRequest),
		RequestedReviewers: make(map[int][]string),
		ErrorResponses:     make(map[string]int),
		Owner:              "owner",
		Repo:               "repo",
		Login:              "octocat",
	}
}

// AddPR registers an open PR on the server and returns it
func (c *MockGitHubServerConfig) AddPR(number int, head, base string) *github.PullRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	pr := &github.PullRequest{
		Number:  github.Int(number),
		State:   github.String("open"),
		Title:   github.String(head),
		Head:    &github.PullRequestBranch{Ref: github.String(head)},
		Base:    &github.PullRequestBranch{Ref: github.String(base)},
		HTMLURL: github.String(c.prURL(number)),
	}
	c.PRs[number] = pr
	return pr
}

// PR returns a copy of the server-side state of a PR, or nil
func (c *MockGitHubServerConfig) PR(number int) *github.PullRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	pr, ok := c.PRs[number]
	if !ok {
		return nil
	}
	return copyPR(pr)
}

func (c *MockGitHubServerConfig) prURL(number int) string {
	return fmt.Sprintf("https://github.com/%s/%s/pull/%d", c.Owner, c.Repo, number)
}

// NewMockGitHubServer creates an httptest server that mocks GitHub API endpoints
func NewMockGitHubServer(t *testing.T, config *MockGitHubServerConfig) *httptest.Server {
	t.Helper()
	if config == nil {
		config = NewMockGitHubServerConfig()
	}

	mux := http.NewServeMux()
	pulls := "/repos/" + config.Owner + "/" + config.Repo + "/pulls"

	mux.HandleFunc("POST "+pulls, func(w http.ResponseWriter, r *http.Request) {
		var newPR github.NewPullRequest
		if err := json.NewDecoder(r.Body).Decode(&newPR); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if newPR.Head == nil || newPR.Base == nil || newPR.Title == nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "Validation Failed"})
			return
		}

		config.mu.Lock()
		number := nextPRNumber(config)
		pr := &github.PullRequest{
			Number:  github.Int(number),
			State:   github.String("open"),
			Title:   newPR.Title,
			Body:    newPR.Body,
			Head:    &github.PullRequestBranch{Ref: newPR.Head},
			Base:    &github.PullRequestBranch{Ref: newPR.Base},
			Draft:   newPR.Draft,
			HTMLURL: github.String(config.prURL(number)),
		}
		config.PRs[number] = pr
		config.CreatedPRs = append(config.CreatedPRs, copyPR(pr))
		resp := copyPR(pr)
		config.mu.Unlock()

		writeJSON(w, http.StatusCreated, resp)
	})

	mux.HandleFunc("GET "+pulls+"/{number}", func(w http.ResponseWriter, r *http.Request) {
		config.mu.Lock()
		pr, ok := config.PRs[pathNumber(r)]
		var resp *github.PullRequest
		if ok {
			resp = copyPR(pr)
		}
		config.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
			return
		}
		writeJSON(w, http.StatusOK, resp)
	})

	mux.HandleFunc("PATCH "+pulls+"/{number}", func(w http.ResponseWriter, r *http.Request) {
		// The API sends base as a plain string, not as {"ref": ...}
		var update struct {
			Title *string `json:"title,omitempty"`
			Body  *string `json:"body,omitempty"`
			Base  *string `json:"base,omitempty"`
			State *string `json:"state,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		number := pathNumber(r)
		config.mu.Lock()
		pr, ok := config.PRs[number]
		if !ok {
			config.mu.Unlock()
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
			return
		}
		if update.Title != nil {
			pr.Title = update.Title
		}
		if update.Body != nil {
			pr.Body = update.Body
		}
		if update.Base != nil {
			pr.Base = &github.PullRequestBranch{Ref: update.Base}
		}
		if update.State != nil {
			pr.State = update.State
		}
		config.UpdatedPRs[number] = copyPR(pr)
		resp := copyPR(pr)
		config.mu.Unlock()

		writeJSON(w, http.StatusOK, resp)
	})

	mux.HandleFunc("PUT "+pulls+"/{number}/merge", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			CommitTitle   string `json:"commit_title"`
			CommitMessage string `json:"commit_message"`
			MergeMethod   string `json:"merge_method"`
			SHA           string `json:"sha"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		number := pathNumber(r)
		config.mu.Lock()
		pr, ok := config.PRs[number]
		if !ok || pr.GetState() != "open" {
			config.mu.Unlock()
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"message": "Pull Request is not mergeable"})
			return
		}
		pr.State = github.String("closed")
		pr.Merged = github.Bool(true)
		config.Merges = append(config.Merges, MergeRecord{
			Number:        number,
			CommitTitle:   req.CommitTitle,
			CommitMessage: req.CommitMessage,
			MergeMethod:   req.MergeMethod,
			SHA:           req.SHA,
		})
		config.mu.Unlock()

		writeJSON(w, http.StatusOK, &github.PullRequestMergeResult{
			Merged:  github.Bool(true),
			Message: github.String("Pull Request successfully merged"),
		})
	})

	mux.HandleFunc("POST "+pulls+"/{number}/requested_reviewers", func(w http.ResponseWriter, r *http.Request) {
		var req github.ReviewersRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		number := pathNumber(r)
		config.mu.Lock()
		config.RequestedReviewers[number] = append(config.RequestedReviewers[number], req.Reviewers...)
		config.mu.Unlock()
		writeJSON(w, http.StatusCreated, map[string]string{"message": "Reviewers requested"})
	})

	mux.HandleFunc("GET /user", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, &github.User{Login: github.String(config.Login)})
	})

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		config.mu.Lock()
		status, fail := config.ErrorResponses[r.Method+" "+r.URL.Path]
		config.mu.Unlock()
		if fail {
			writeJSON(w, status, map[string]string{"message": http.StatusText(status)})
			return
		}
		mux.ServeHTTP(w, r)
	})

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

// NewMockGitHubClient creates a GitHub client configured to use a mock server
func NewMockGitHubClient(t *testing.T, config *MockGitHubServerConfig) (*github.Client, string, string) {
	t.Helper()
	server := NewMockGitHubServer(t, config)
	client := github.NewClient(nil)
	baseURL, _ := url.Parse(server.URL + "/")
	client.BaseURL = baseURL
	client.UploadURL = baseURL

	return client, config.Owner, config.Repo
}

func nextPRNumber(config *MockGitHubServerConfig) int {
	highest := 0
	for n := range config.PRs {
		if n > highest {
			highest = n
		}
	}
	return highest + 1
}

func pathNumber(r *http.Request) int {
	n, _ := strconv.Atoi(r.PathValue("number"))
	return n
}

func copyPR(pr *github.PullRequest) *github.PullRequest {
	prCopy := *pr
	if pr.Base != nil {
		baseCopy := *pr.Base
		prCopy.Base = &baseCopy
	}
	if pr.Head != nil {
		headCopy := *pr.Head
		prCopy.Head = &headCopy
	}
	return &prCopy
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
