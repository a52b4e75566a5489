// Package models defines the core data structures of the repository
// simulation: trees, commits, branches, merge state and the remote mirror.
package models

import "sort"

// Tree maps a path to its whole-file content.
// An absent path and a path holding "" are different states.
type Tree map[string]string

// Get returns the content at path and whether the path is present.
func (t Tree) Get(path string) (string, bool) {
	content, ok := t[path]
	return content, ok
}

// Has reports whether path is present in the tree
func (t Tree) Has(path string) bool {
	_, ok := t[path]
	return ok
}

// Clone returns an independent copy. The result is never nil.
func (t Tree) Clone() Tree {
	out := make(Tree, len(t))
	for path, content := range t {
		out[path] = content
	}
	return out
}

// Paths returns all paths in lexical order
func (t Tree) Paths() []string {
	paths := make([]string, 0, len(t))
	for path := range t {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Equal reports whether both trees hold the same paths with the same content.
func (t Tree) Equal(other Tree) bool {
	if len(t) != len(other) {
		return false
	}
	for path, content := range t {
		if oc, ok := other[path]; !ok || oc != content {
			return false
		}
	}
	return true
}

// UnionPaths returns the sorted set of paths present in any of the trees.
func UnionPaths(trees ...Tree) []string {
	seen := make(map[string]bool)
	for _, t := range trees {
		for path := range t {
			seen[path] = true
		}
	}
	paths := make([]string, 0, len(seen))
	for path := range seen {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
