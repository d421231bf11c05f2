package stack

import (
	"context"
	"fmt"

	stackprerrors "stackpr.dev/stackpr/internal/errors"
	"stackpr.dev/stackpr/internal/github"
)

// PRFetcher is the part of the PR host port the verifier reads from
type PRFetcher interface {
	GetPullRequest(ctx context.Context, ref string) (*github.PullRequestInfo, error)
}

// Verify checks every entry against the PR host and stops at the first
// inconsistency. Base branches are compared only when checkBase is set. The
// only external calls are PR fetches.
func Verify(ctx context.Context, host PRFetcher, st Stack, checkBase bool) error {
	for _, e := range st {
		if err := verifyEntry(ctx, host, e, checkBase); err != nil {
			return err
		}
	}
	return nil
}

func verifyEntry(ctx context.Context, host PRFetcher, e *Entry, checkBase bool) error {
	if e.HasMissingInfo() {
		return &stackprerrors.MissingMetadataError{Entry: e.Ref(), Missing: e.MissingFields()}
	}
	pr, _ := e.PR()
	head, _ := e.Head()
	base, _ := e.Base()

	number, ok := e.PRNumber()
	if !ok {
		return &stackprerrors.MalformedLinkError{Entry: e.Ref(), PR: pr}
	}

	info, err := host.GetPullRequest(ctx, pr)
	if err != nil {
		return fmt.Errorf("failed to fetch PR %s: %w", pr, err)
	}
	if info == nil {
		return &stackprerrors.MalformedHostResponseError{Entry: e.Ref(), PR: pr, Field: "state"}
	}
	switch {
	case info.State == nil:
		return &stackprerrors.MalformedHostResponseError{Entry: e.Ref(), PR: pr, Field: "state"}
	case info.Number == nil:
		return &stackprerrors.MalformedHostResponseError{Entry: e.Ref(), PR: pr, Field: "number"}
	case info.BaseRefName == nil:
		return &stackprerrors.MalformedHostResponseError{Entry: e.Ref(), PR: pr, Field: "baseRefName"}
	case info.HeadRefName == nil:
		return &stackprerrors.MalformedHostResponseError{Entry: e.Ref(), PR: pr, Field: "headRefName"}
	}

	if *info.State != github.StateOpen {
		return &stackprerrors.PrNotOpenError{Entry: e.Ref(), PR: pr, State: *info.State}
	}
	if *info.Number != number {
		return &stackprerrors.PrNumberMismatchError{Entry: e.Ref(), PR: pr, Expected: number, Actual: *info.Number}
	}
	if *info.HeadRefName != head {
		return &stackprerrors.PrHeadMismatchError{Entry: e.Ref(), PR: pr, Expected: head, Actual: *info.HeadRefName}
	}
	if checkBase && *info.BaseRefName != base {
		return &stackprerrors.PrBaseMismatchError{Entry: e.Ref(), PR: pr, Expected: base, Actual: *info.BaseRefName}
	}
	return nil
}
