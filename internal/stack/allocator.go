package stack

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// RefLister is the part of the git port the allocator reads from
type RefLister interface {
	ListRefs(ctx context.Context, prefix string) (map[string]string, error)
}

// BranchPrefix returns the namespace of a user's stack branches
func BranchPrefix(username string) string {
	return username + "/stack/"
}

// BranchName returns the n-th stack branch name of a user
func BranchName(username string, n int) string {
	return fmt.Sprintf("%s%d", BranchPrefix(username), n)
}

// branchNumber returns n for names of the form <prefix><n>
func branchNumber(name, prefix string) (int, bool) {
	suffix, ok := strings.CutPrefix(name, prefix)
	if !ok || suffix == "" {
		return 0, false
	}
	for _, c := range suffix {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, false
	}
	return n, true
}

// NextBranchNumber returns one past the highest stack branch number used on
// the remote or by any entry of st.
func NextBranchNumber(ctx context.Context, refs RefLister, st Stack, remote, username string) (int, error) {
	remotePrefix := "refs/remotes/" + remote + "/" + BranchPrefix(username)
	remoteRefs, err := refs.ListRefs(ctx, remotePrefix)
	if err != nil {
		return 0, fmt.Errorf("failed to list remote stack branches: %w", err)
	}

	highest := 0
	for ref := range remoteRefs {
		if n, ok := branchNumber(ref, remotePrefix); ok && n > highest {
			highest = n
		}
	}
	for _, head := range st.Heads() {
		if n, ok := branchNumber(head, BranchPrefix(username)); ok && n > highest {
			highest = n
		}
	}
	return highest + 1, nil
}

// AllocateHeads assigns <username>/stack/<n> names, strictly increasing in
// stack order, to every entry lacking a head. Entries that already have a
// head keep it. The caller is expected to have fetched remote refs.
func AllocateHeads(ctx context.Context, refs RefLister, st Stack, remote, username string) error {
	next, err := NextBranchNumber(ctx, refs, st, remote, username)
	if err != nil {
		return err
	}
	for _, e := range st {
		if e.HasHead() {
			continue
		}
		e.SetHead(BranchName(username, next))
		next++
	}
	return nil
}
