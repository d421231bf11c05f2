package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// open re-opens the repository on every read. Mutations go through the git
// binary (fetch, rebase, gc) and may rewrite packs under a cached handle.
func (r *realRunner) open() (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(r.root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}
	return repo, nil
}

func resolveCommit(repo *git.Repository, rev string) (*object.Commit, error) {
	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", rev, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit %s: %w", rev, err)
	}
	return commit, nil
}

// ResolveRef returns the full commit hash rev points at
func (r *realRunner) ResolveRef(_ context.Context, rev string) (string, error) {
	repo, err := r.open()
	if err != nil {
		return "", err
	}
	commit, err := resolveCommit(repo, rev)
	if err != nil {
		return "", err
	}
	return commit.Hash.String(), nil
}

// IsAncestor checks if ancestor is reachable from descendant
func (r *realRunner) IsAncestor(_ context.Context, ancestor, descendant string) (bool, error) {
	repo, err := r.open()
	if err != nil {
		return false, err
	}
	ancestorCommit, err := resolveCommit(repo, ancestor)
	if err != nil {
		return false, err
	}
	descendantCommit, err := resolveCommit(repo, descendant)
	if err != nil {
		return false, err
	}
	if ancestorCommit.Hash == descendantCommit.Hash {
		return true, nil
	}
	return ancestorCommit.IsAncestor(descendantCommit)
}

// MergeBase returns the best common ancestor of two revisions
func (r *realRunner) MergeBase(_ context.Context, rev1, rev2 string) (string, error) {
	repo, err := r.open()
	if err != nil {
		return "", err
	}
	commit1, err := resolveCommit(repo, rev1)
	if err != nil {
		return "", err
	}
	commit2, err := resolveCommit(repo, rev2)
	if err != nil {
		return "", err
	}
	bases, err := commit1.MergeBase(commit2)
	if err != nil {
		return "", fmt.Errorf("failed to find merge base: %w", err)
	}
	if len(bases) == 0 {
		return "", fmt.Errorf("no merge base found between %s and %s", rev1, rev2)
	}
	return bases[0].Hash.String(), nil
}

// ListRefs returns every reference under prefix, keyed by full ref name
func (r *realRunner) ListRefs(_ context.Context, prefix string) (map[string]string, error) {
	repo, err := r.open()
	if err != nil {
		return nil, err
	}
	refs, err := repo.References()
	if err != nil {
		return nil, fmt.Errorf("failed to list references: %w", err)
	}
	result := make(map[string]string)
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		name := ref.Name().String()
		if strings.HasPrefix(name, prefix) {
			result[name] = ref.Hash().String()
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate references: %w", err)
	}
	return result, nil
}

// CurrentBranch returns the checked out branch, or "" when HEAD is detached
func (r *realRunner) CurrentBranch(_ context.Context) (string, error) {
	repo, err := r.open()
	if err != nil {
		return "", err
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", nil
	}
	return head.Name().Short(), nil
}

// BranchExists reports whether a local branch exists
func (r *realRunner) BranchExists(_ context.Context, name string) (bool, error) {
	repo, err := r.open()
	if err != nil {
		return false, err
	}
	_, err = repo.Reference(plumbing.NewBranchReferenceName(name), true)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up branch %s: %w", name, err)
	}
	return true, nil
}

// RemoteURL returns the first configured URL of a remote
func (r *realRunner) RemoteURL(_ context.Context, remote string) (string, error) {
	repo, err := r.open()
	if err != nil {
		return "", err
	}
	rem, err := repo.Remote(remote)
	if err != nil {
		return "", fmt.Errorf("failed to get remote %s: %w", remote, err)
	}
	urls := rem.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %s has no URL", remote)
	}
	return urls[0], nil
}
