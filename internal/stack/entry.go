// Package stack models a chain of commits, each mapped to one pull request,
// and the pure algorithms over it: building it from history, allocating head
// branch names, verifying it against PR host state and rendering cross links.
package stack

import (
	"fmt"

	stackprerrors "stackpr.dev/stackpr/internal/errors"
	"stackpr.dev/stackpr/internal/git"
	"stackpr.dev/stackpr/internal/output"
	"stackpr.dev/stackpr/internal/stackinfo"
)

// Entry is one commit of the stack and its linkage to a PR.
//
// PR, head and base are each either set or absent; absence is distinct from
// an empty value.
type Entry struct {
	Commit git.CommitHeader
	// Draft requests the PR be opened as a draft when it is created
	Draft bool

	pr   *string
	head *string
	base *string
}

// NewEntry wraps a commit and prefills PR and head from its metadata line
func NewEntry(commit git.CommitHeader) *Entry {
	e := &Entry{Commit: commit}
	if info, ok := stackinfo.Decode(commit.Message); ok {
		e.SetPR(info.PR)
		e.SetHead(info.Branch)
	}
	return e
}

// PR returns the PR reference, if any
func (e *Entry) PR() (string, bool) {
	return value(e.pr)
}

// Head returns the head branch name, if any
func (e *Entry) Head() (string, bool) {
	return value(e.head)
}

// Base returns the base branch name, if any
func (e *Entry) Base() (string, bool) {
	return value(e.base)
}

// SetPR records the PR reference
func (e *Entry) SetPR(pr string) { e.pr = &pr }

// SetHead records the head branch name
func (e *Entry) SetHead(head string) { e.head = &head }

// SetBase records the base branch name
func (e *Entry) SetBase(base string) { e.base = &base }

// ClearBase marks the base as unknown
func (e *Entry) ClearBase() { e.base = nil }

// HasPR reports whether the entry is linked to a PR
func (e *Entry) HasPR() bool { return e.pr != nil }

// HasHead reports whether the entry has a head branch
func (e *Entry) HasHead() bool { return e.head != nil }

// HasMissingInfo reports whether any of PR, head or base is absent
func (e *Entry) HasMissingInfo() bool {
	return len(e.MissingFields()) > 0
}

// MissingFields names the absent linkage fields
func (e *Entry) MissingFields() []string {
	var missing []string
	if e.pr == nil {
		missing = append(missing, "PR")
	}
	if e.head == nil {
		missing = append(missing, "head")
	}
	if e.base == nil {
		missing = append(missing, "base")
	}
	return missing
}

// Info returns the metadata the commit message should carry
func (e *Entry) Info() (stackinfo.Info, bool) {
	pr, okPR := e.PR()
	head, okHead := e.Head()
	if !okPR || !okHead {
		return stackinfo.Info{}, false
	}
	return stackinfo.Info{PR: pr, Branch: head}, true
}

// PRNumber returns the numeric id of the linked PR
func (e *Entry) PRNumber() (int, bool) {
	pr, ok := e.PR()
	if !ok {
		return 0, false
	}
	return stackinfo.PRNumber(pr)
}

// Ref identifies the entry in errors and logs
func (e *Entry) Ref() stackprerrors.EntryRef {
	return stackprerrors.EntryRef{CommitID: e.Commit.ID, Title: e.Commit.Title()}
}

// String renders the entry the way `stack-pr view` prints it:
// <short id> (#<n>, '<head>' -> '<base>'): <title>
func (e *Entry) String() string {
	return e.render(plainPalette)
}

// Styled renders String with the commit, PR and branches colored and
// absent values highlighted.
func (e *Entry) Styled() string {
	return e.render(colorPalette)
}

type palette struct {
	commit, pr, branch, missing func(string) string
}

func plain(text string) string { return text }

var (
	plainPalette = palette{commit: plain, pr: plain, branch: plain, missing: plain}
	colorPalette = palette{
		commit:  output.ColorCommit,
		pr:      output.ColorPR,
		branch:  output.ColorBranch,
		missing: output.ColorMissing,
	}
)

func (e *Entry) render(p palette) string {
	pr := p.missing("no PR")
	if n, ok := e.PRNumber(); ok {
		pr = p.pr(fmt.Sprintf("#%d", n))
	} else if ref, ok := e.PR(); ok {
		pr = p.pr(ref)
	}
	links := pr
	if e.head != nil || e.base != nil {
		links += fmt.Sprintf(", '%s' -> '%s'", branchOrMissing(p, e.head), branchOrMissing(p, e.base))
	}
	return fmt.Sprintf("%s (%s): %s", p.commit(e.Commit.ShortID()), links, e.Commit.Title())
}

func branchOrMissing(p palette, branch *string) string {
	if branch == nil {
		return p.missing("?")
	}
	return p.branch(*branch)
}

func value(p *string) (string, bool) {
	if p == nil {
		return "", false
	}
	return *p, true
}

// Stack is the ordered sequence of entries, oldest first
type Stack []*Entry

// Top returns the newest entry; the stack must not be empty
func (s Stack) Top() *Entry {
	return s[len(s)-1]
}

// Heads returns the head branch of every entry that has one
func (s Stack) Heads() []string {
	heads := make([]string, 0, len(s))
	for _, e := range s {
		if head, ok := e.Head(); ok {
			heads = append(heads, head)
		}
	}
	return heads
}

// ContainsHead reports whether branch is the head of some entry
func (s Stack) ContainsHead(branch string) bool {
	for _, head := range s.Heads() {
		if head == branch {
			return true
		}
	}
	return false
}

// ReadyToLand reports whether every entry has complete linkage
func (s Stack) ReadyToLand() bool {
	for _, e := range s {
		if e.HasMissingInfo() {
			return false
		}
	}
	return len(s) > 0
}

// SetBases assigns bases so that the first entry targets target and every
// other entry targets its predecessor's head. An entry whose predecessor has
// no head gets no base.
func SetBases(s Stack, target string) {
	prev, ok := target, true
	for _, e := range s {
		if ok {
			e.SetBase(prev)
		} else {
			e.ClearBase()
		}
		prev, ok = e.Head()
	}
}
