package stack

import (
	"fmt"
	"strings"

	"stackpr.dev/stackpr/internal/stackinfo"
)

// CrossLinksDelimiter separates the generated stack block from the PR description
const CrossLinksDelimiter = "--- --- ---"

const currentMarker = "__->__"

// CrossLinks renders the list of stack PRs with the PR at index current
// marked. The newest PR comes first, so the bottom of the stack is the last
// line.
func CrossLinks(st Stack, current int) string {
	var b strings.Builder
	b.WriteString("Stacked PRs:\n")
	for i := len(st) - 1; i >= 0; i-- {
		marker := ""
		if i == current {
			marker = currentMarker
		}
		n, _ := st[i].PRNumber()
		fmt.Fprintf(&b, " * %s#%d\n", marker, n)
	}
	b.WriteString("\n")
	return b.String()
}

// PRBody composes the description of the PR at index current. With keepBody
// the text after the delimiter of existingBody is kept; otherwise the commit
// title and body (metadata stripped) are used.
func PRBody(st Stack, current int, existingBody string, keepBody bool) string {
	parts := []string{
		CrossLinks(st, current),
		CrossLinksDelimiter + "\n",
	}
	if keepBody {
		existing := strings.TrimSpace(existingBody)
		if _, after, found := strings.Cut(existing, CrossLinksDelimiter); found {
			existing = after
		}
		parts = append(parts, strings.TrimLeft(existing, " \t\r\n"))
	} else {
		title, body := splitMessage(st[current].Commit.Message)
		parts = append(parts, "### "+title, "", body)
	}
	return strings.Join(parts, "\n")
}

// MergeMessage returns the squash commit title and body for an entry: the
// commit title with the PR number appended, and the body without metadata.
func MergeMessage(e *Entry) (title, body string) {
	first, body := splitMessage(e.Commit.Message)
	n, _ := e.PRNumber()
	title = fmt.Sprintf("%s (#%d)", first, n)
	if body == "" {
		body = " "
	}
	return title, body
}

// splitMessage strips metadata from a commit message and splits it into its
// title and body.
func splitMessage(message string) (title, body string) {
	title, body, _ = strings.Cut(stackinfo.Strip(message), "\n")
	return title, strings.Trim(body, "\n")
}
