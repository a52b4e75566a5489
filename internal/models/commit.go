package models

import "fmt"

// Commit is an immutable snapshot of a tree with its parent links.
// Parents holds zero ids for a root commit, one for a regular commit and
// two for a merge commit.
type Commit struct {
	ID        string   `json:"id" yaml:"id"`
	Message   string   `json:"message" yaml:"message"`
	Tree      Tree     `json:"tree" yaml:"tree"`
	Timestamp int64    `json:"timestamp" yaml:"timestamp"` // unix milliseconds
	Parents   []string `json:"parents" yaml:"parents"`
}

// FormatCommitID renders the n-th commit id: c001, c002, ...
func FormatCommitID(n int) string {
	return fmt.Sprintf("c%03d", n)
}

// FirstParent returns the primary parent id, or "" for a root commit
func (c *Commit) FirstParent() string {
	if len(c.Parents) == 0 {
		return ""
	}
	return c.Parents[0]
}

// IsMergeCommit returns true if this commit has two parents
func (c *Commit) IsMergeCommit() bool {
	return len(c.Parents) > 1
}

// Clone returns a deep copy of the commit.
func (c *Commit) Clone() *Commit {
	if c == nil {
		return nil
	}
	out := *c
	out.Tree = c.Tree.Clone()
	out.Parents = append([]string{}, c.Parents...)
	return &out
}

func cloneCommits(commits []*Commit) []*Commit {
	out := make([]*Commit, len(commits))
	for i, c := range commits {
		out[i] = c.Clone()
	}
	return out
}
