package core

import (
	"fmt"

	"github.com/ahnaineh/GITGAME/internal/models"
)

// TreeMergeResult is the outcome of a three-way tree merge. Conflicted paths
// hold a synthesized marker in Tree.
type TreeMergeResult struct {
	Tree      models.Tree
	Conflicts map[string]*models.Conflict
}

// HasConflicts returns true if any path could not be merged automatically
func (r *TreeMergeResult) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// ConflictMarker renders the content written to a conflicted path
func ConflictMarker(ours, theirs, branch string) string {
	return fmt.Sprintf("<<<<<<< HEAD\n%s\n=======\n%s\n>>>>>>> %s", ours, theirs, branch)
}

// MergeTrees merges ours and theirs against base, path by path.
// Content is compared as whole strings; absence is a value of its own, so a
// deletion on one side against a modification on the other conflicts.
func MergeTrees(base, ours, theirs models.Tree, branch string) *TreeMergeResult {
	result := &TreeMergeResult{
		Tree:      ours.Clone(),
		Conflicts: make(map[string]*models.Conflict),
	}

	for _, path := range models.UnionPaths(base, ours, theirs) {
		b := models.Optional(base.Get(path))
		o := models.Optional(ours.Get(path))
		t := models.Optional(theirs.Get(path))

		switch {
		case sameContent(o, t):
			setOrDelete(result.Tree, path, o)
		case sameContent(b, o):
			// Only theirs changed
			setOrDelete(result.Tree, path, t)
		case sameContent(b, t):
			// Only ours changed
			setOrDelete(result.Tree, path, o)
		default:
			result.Conflicts[path] = &models.Conflict{Base: b, Ours: o, Theirs: t}
			result.Tree[path] = ConflictMarker(deref(o), deref(t), branch)
		}
	}

	return result
}

// ApplyTreeDiff replays the change from base to target onto current.
// Paths equal in base and target are left alone even if current differs there.
// With reverse set the change is undone instead: base's side is written.
func ApplyTreeDiff(current, base, target models.Tree, reverse bool) models.Tree {
	next := current.Clone()

	for _, path := range models.UnionPaths(base, target) {
		b := models.Optional(base.Get(path))
		t := models.Optional(target.Get(path))
		if sameContent(b, t) {
			continue
		}
		if reverse {
			setOrDelete(next, path, b)
		} else {
			setOrDelete(next, path, t)
		}
	}

	return next
}

func sameContent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func setOrDelete(t models.Tree, path string, content *string) {
	if content == nil {
		delete(t, path)
		return
	}
	t[path] = *content
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
