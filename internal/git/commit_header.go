package git

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMalformedCommitHeader indicates rev-list output that could not be parsed
var ErrMalformedCommitHeader = errors.New("malformed commit header")

var personRegexp = regexp.MustCompile(`^(.*) <(.*)> (\d+) ([+-]\d{4})$`)

// CommitHeader is the parsed form of a single `git rev-list --header` record
type CommitHeader struct {
	ID          string
	Tree        string
	Parents     []string
	AuthorName  string
	AuthorEmail string
	// Message holds the title and body, metadata line included
	Message string
}

// Title returns the first line of the commit message
func (h CommitHeader) Title() string {
	title, _, _ := strings.Cut(h.Message, "\n")
	return title
}

// Body returns the commit message without its title line
func (h CommitHeader) Body() string {
	_, body, _ := strings.Cut(h.Message, "\n")
	return strings.TrimLeft(body, "\n")
}

// ShortID returns the abbreviated commit id
func (h CommitHeader) ShortID() string {
	if len(h.ID) > 8 {
		return h.ID[:8]
	}
	return h.ID
}

// ParseCommitHeaders parses NUL-separated `git rev-list --header` output.
// Records are returned in the order git printed them.
func ParseCommitHeaders(raw string) ([]CommitHeader, error) {
	var headers []CommitHeader
	for _, record := range strings.Split(raw, "\x00") {
		record = strings.TrimLeft(record, "\n")
		if strings.TrimSpace(record) == "" {
			continue
		}
		header, err := parseCommitHeader(record)
		if err != nil {
			return nil, err
		}
		headers = append(headers, header)
	}
	return headers, nil
}

func parseCommitHeader(record string) (CommitHeader, error) {
	lines := strings.Split(record, "\n")
	header := CommitHeader{ID: strings.TrimSpace(lines[0])}
	if header.ID == "" {
		return CommitHeader{}, fmt.Errorf("%w: missing commit id", ErrMalformedCommitHeader)
	}

	i := 1
	seenAuthor := false
	for ; i < len(lines); i++ {
		line := lines[i]
		if line == "" {
			i++
			break
		}
		// Continuation of a multi-line header such as gpgsig
		if strings.HasPrefix(line, " ") {
			continue
		}
		key, value, _ := strings.Cut(line, " ")
		switch key {
		case "tree":
			header.Tree = value
		case "parent":
			header.Parents = append(header.Parents, value)
		case "author":
			m := personRegexp.FindStringSubmatch(value)
			if m == nil {
				return CommitHeader{}, fmt.Errorf("%w: bad author line %q in %s", ErrMalformedCommitHeader, value, header.ID)
			}
			header.AuthorName = m[1]
			header.AuthorEmail = m[2]
			seenAuthor = true
		}
	}
	if header.Tree == "" {
		return CommitHeader{}, fmt.Errorf("%w: missing tree in %s", ErrMalformedCommitHeader, header.ID)
	}
	if !seenAuthor {
		return CommitHeader{}, fmt.Errorf("%w: missing author in %s", ErrMalformedCommitHeader, header.ID)
	}

	message := make([]string, 0, len(lines)-i)
	for ; i < len(lines); i++ {
		message = append(message, strings.TrimPrefix(lines[i], "    "))
	}
	header.Message = strings.TrimRight(strings.Join(message, "\n"), "\n ")
	return header, nil
}

// CommitHeaders returns the commits reachable from head but not from base,
// newest first.
func (r *realRunner) CommitHeaders(ctx context.Context, base, head string) ([]CommitHeader, error) {
	raw, err := r.cmd.RunRaw(ctx, "rev-list", "--topo-order", "--header", "^"+base, head)
	if err != nil {
		return nil, err
	}
	return ParseCommitHeaders(raw)
}
