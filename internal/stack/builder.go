package stack

import (
	"context"
	"errors"
	"fmt"

	stackprerrors "stackpr.dev/stackpr/internal/errors"
	"stackpr.dev/stackpr/internal/git"
)

// ErrNonLinear indicates a merge commit or a gap in the commit range
var ErrNonLinear = errors.New("stack is not a linear chain of commits")

// CommitSource is the part of the git port the builder reads from
type CommitSource interface {
	IsAncestor(ctx context.Context, ancestor, descendant string) (bool, error)
	CommitHeaders(ctx context.Context, base, head string) ([]git.CommitHeader, error)
}

// Build derives the stack of commits in (base, head], oldest first, with PR
// and head prefilled from commit metadata. Bases are left for SetBases.
func Build(ctx context.Context, src CommitSource, base, head string) (Stack, error) {
	ok, err := src.IsAncestor(ctx, base, head)
	if err != nil {
		return nil, fmt.Errorf("failed to check ancestry of %s and %s: %w", base, head, err)
	}
	if !ok {
		return nil, &stackprerrors.AncestryError{Base: base, Head: head}
	}

	headers, err := src.CommitHeaders(ctx, base, head)
	if err != nil {
		return nil, fmt.Errorf("failed to list commits in %s..%s: %w", base, head, err)
	}

	st := make(Stack, 0, len(headers))
	for i := len(headers) - 1; i >= 0; i-- {
		st = append(st, NewEntry(headers[i]))
	}
	if err := checkLinear(st); err != nil {
		return nil, err
	}
	return st, nil
}

func checkLinear(st Stack) error {
	for i, e := range st {
		if len(e.Commit.Parents) > 1 {
			return fmt.Errorf("%w: %s is a merge commit", ErrNonLinear, e.Commit.ShortID())
		}
		if i > 0 && (len(e.Commit.Parents) == 0 || e.Commit.Parents[0] != st[i-1].Commit.ID) {
			return fmt.Errorf("%w: %s does not follow %s", ErrNonLinear, e.Commit.ShortID(), st[i-1].Commit.ShortID())
		}
	}
	return nil
}
