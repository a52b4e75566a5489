// Package core implements the repository simulation engine. Every operation
// takes a repository snapshot, clones it, and returns the new snapshot inside
// a models.Outcome. Inputs are never mutated.
package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ahnaineh/GITGAME/internal/models"
)

// CollectAncestors returns every commit reachable from startID through parent
// edges, startID included. The result is empty for an empty id.
func CollectAncestors(repo *models.Repository, startID string) map[string]bool {
	return collectAncestors(repo.CommitMap(), startID)
}

func collectAncestors(commits map[string]*models.Commit, startID string) map[string]bool {
	visited := make(map[string]bool)
	if startID == "" {
		return visited
	}

	stack := []string{startID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == "" || visited[id] {
			continue
		}
		visited[id] = true
		if c, ok := commits[id]; ok {
			stack = append(stack, c.Parents...)
		}
	}
	return visited
}

// IsAncestor returns true if ancestor is descendant itself or reachable from it
func IsAncestor(repo *models.Repository, ancestor, descendant string) bool {
	return isAncestor(repo.CommitMap(), ancestor, descendant)
}

func isAncestor(commits map[string]*models.Commit, ancestor, descendant string) bool {
	if ancestor == "" || descendant == "" {
		return false
	}
	if ancestor == descendant {
		return true
	}
	return collectAncestors(commits, descendant)[ancestor]
}

// FindMergeBase returns a common ancestor of a and b: the first commit met by a
// breadth-first walk from b that is also an ancestor of a. For criss-cross
// histories this is a valid merge base but not necessarily the lowest one.
func FindMergeBase(repo *models.Repository, a, b string) string {
	return findMergeBase(repo.CommitMap(), a, b)
}

func findMergeBase(commits map[string]*models.Commit, a, b string) string {
	ancestorsA := collectAncestors(commits, a)

	queue := []string{b}
	visited := make(map[string]bool)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current == "" || visited[current] {
			continue
		}
		visited[current] = true

		if ancestorsA[current] {
			return current
		}

		if c, ok := commits[current]; ok {
			queue = append(queue, c.Parents...)
		}
	}

	return ""
}

// CanFastForward checks if ours can be fast-forwarded to theirs
func CanFastForward(repo *models.Repository, ours, theirs string) bool {
	return IsAncestor(repo, ours, theirs)
}

// ResolveRef resolves a ref to a commit id.
// Supports HEAD, HEAD~N, branch names, fetched origin/<branch> tips and commit
// ids. branch is set when the ref named a local branch.
func ResolveRef(repo *models.Repository, ref string) (commitID string, branch string, err error) {
	if ref == "HEAD" || strings.HasPrefix(ref, "HEAD~") {
		commitID, err := resolveHEADRef(repo, ref)
		return commitID, "", err
	}

	if tip, ok := repo.Branches[ref]; ok {
		if tip == "" {
			return "", "", fmt.Errorf("branch '%s' has no commits yet", ref)
		}
		return tip, ref, nil
	}

	if name, ok := strings.CutPrefix(ref, "origin/"); ok {
		tip := repo.Remote.Branches[name]
		if tip == "" || repo.CommitByID(tip) == nil {
			return "", "", fmt.Errorf("'%s' has not been fetched", ref)
		}
		return tip, "", nil
	}

	if c := repo.CommitByID(ref); c != nil {
		return c.ID, "", nil
	}

	return "", "", fmt.Errorf("'%s' is not a valid branch or commit", ref)
}

func resolveHEADRef(repo *models.Repository, ref string) (string, error) {
	if repo.Head == "" {
		return "", fmt.Errorf("HEAD not set: no commits yet")
	}
	if ref == "HEAD" {
		return repo.Head, nil
	}

	n, err := strconv.Atoi(strings.TrimPrefix(ref, "HEAD~"))
	if err != nil {
		return "", fmt.Errorf("invalid ref '%s': expected HEAD~N where N is a number", ref)
	}
	if n < 0 {
		return "", fmt.Errorf("invalid ref '%s': N must be non-negative", ref)
	}

	// Walk back along first parents
	commitID := repo.Head
	for i := 0; i < n; i++ {
		c := repo.CommitByID(commitID)
		if c == nil {
			return "", fmt.Errorf("cannot resolve %s: commit %s not found", ref, commitID)
		}
		if c.FirstParent() == "" {
			return "", fmt.Errorf("cannot resolve %s: reached root commit after %d step(s)", ref, i)
		}
		commitID = c.FirstParent()
	}
	return commitID, nil
}

// resolveCommit resolves ref to a local commit, or nil
func resolveCommit(repo *models.Repository, ref string) *models.Commit {
	commitID, _, err := ResolveRef(repo, ref)
	if err != nil {
		return nil
	}
	return repo.CommitByID(commitID)
}
