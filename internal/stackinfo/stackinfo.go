// Package stackinfo encodes the stack-pr metadata line that links a commit to
// its pull request and remote branch.
//
// The line follows a blank line in the commit message:
//
//	<title>
//
//	<body>
//
//	stack-info: PR: https://github.com/owner/repo/pull/12, branch: alice/stack/3
//
// Decode, Encode and Strip are pure functions over message text; callers own
// the git side (amending, rebasing).
package stackinfo

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	linePrefix = "stack-info: PR: "
	separator  = ", branch: "
)

// ErrInvalidInfo indicates a value that cannot be embedded losslessly
var ErrInvalidInfo = errors.New("invalid stack info")

// infoRegex matches a metadata line preceded by a blank line. The PR capture
// is lazy so the first separator splits the line.
var infoRegex = regexp.MustCompile(`(?m)\n\n` + regexp.QuoteMeta(linePrefix) + `(.+?)` + regexp.QuoteMeta(separator) + `(.+)$`)

var prNumberRegex = regexp.MustCompile(`^[0-9]+$`)

// Info is the linkage carried by a commit message
type Info struct {
	PR     string
	Branch string
}

// Line renders the metadata line without the preceding blank line
func (i Info) Line() string {
	return linePrefix + i.PR + separator + i.Branch
}

// Validate reports whether the info survives an Encode/Decode round trip
func (i Info) Validate() error {
	if err := validateValue("PR", i.PR); err != nil {
		return err
	}
	if strings.Contains(i.PR, separator) {
		return fmt.Errorf("%w: PR %q contains %q", ErrInvalidInfo, i.PR, separator)
	}
	return validateValue("branch", i.Branch)
}

func validateValue(field, value string) error {
	switch {
	case value == "":
		return fmt.Errorf("%w: empty %s", ErrInvalidInfo, field)
	case strings.ContainsAny(value, "\r\n"):
		return fmt.Errorf("%w: %s %q contains a line break", ErrInvalidInfo, field, value)
	case strings.TrimSpace(value) != value:
		return fmt.Errorf("%w: %s %q has surrounding whitespace", ErrInvalidInfo, field, value)
	}
	return nil
}

// Decode extracts the first metadata line of message
func Decode(message string) (Info, bool) {
	m := infoRegex.FindStringSubmatch(message)
	if m == nil {
		return Info{}, false
	}
	return Info{PR: m[1], Branch: m[2]}, true
}

// Encode returns message carrying info. An existing metadata line is
// replaced in place and any further ones are dropped; otherwise the line is
// appended after a blank line.
func Encode(message string, info Info) (string, error) {
	if err := info.Validate(); err != nil {
		return "", err
	}
	line := "\n\n" + info.Line()

	loc := infoRegex.FindStringIndex(message)
	if loc == nil {
		return strings.TrimRight(message, "\n") + line, nil
	}
	rest := removeAll(message[loc[1]:])
	return message[:loc[0]] + line + rest, nil
}

// Strip removes every metadata line from message
func Strip(message string) string {
	return strings.TrimRight(removeAll(message), "\n")
}

// removeAll deletes metadata lines until none remain; a removal can expose a
// line that was not preceded by a blank line before.
func removeAll(message string) string {
	for infoRegex.MatchString(message) {
		message = infoRegex.ReplaceAllString(message, "")
	}
	return message
}

// PRNumber returns the numeric id at the end of a PR reference such as
// https://github.com/owner/repo/pull/12
func PRNumber(ref string) (int, bool) {
	ref = strings.TrimRight(strings.TrimSpace(ref), "/")
	segment := ref[strings.LastIndex(ref, "/")+1:]
	if !prNumberRegex.MatchString(segment) {
		return 0, false
	}
	n, err := strconv.Atoi(segment)
	if err != nil {
		return 0, false
	}
	return n, true
}
