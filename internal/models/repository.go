package models

import "fmt"

// DefaultBranch is the branch created by init
const DefaultBranch = "main"

// Repository is the aggregate root of the simulation. Operations never
// mutate a Repository in place; they clone it and return the clone.
//
// HeadRef and Head use "" for null. A branch mapped to "" is unborn.
type Repository struct {
	Initialized bool                 `json:"is_initialized" yaml:"is_initialized"`
	Branches    map[string]string    `json:"branches" yaml:"branches"`
	HeadRef     string               `json:"head_ref,omitempty" yaml:"head_ref,omitempty"`
	Head        string               `json:"head,omitempty" yaml:"head,omitempty"`
	Commits     []*Commit            `json:"commits" yaml:"commits"`
	WorkingTree Tree                 `json:"working_tree" yaml:"working_tree"`
	Index       Tree                 `json:"index" yaml:"index"`
	Conflicts   map[string]*Conflict `json:"conflicts" yaml:"conflicts"`
	Merge       MergeState           `json:"merge" yaml:"merge"`
	Remote      RemoteState          `json:"remote" yaml:"remote"`
}

// NewRepository returns an uninitialized repository with empty mappings
func NewRepository() *Repository {
	return &Repository{
		Branches:    make(map[string]string),
		Commits:     []*Commit{},
		WorkingTree: make(Tree),
		Index:       make(Tree),
		Conflicts:   make(map[string]*Conflict),
		Remote:      NewRemoteState(),
	}
}

// Clone returns a deep copy sharing no mutable structure with r.
func (r *Repository) Clone() *Repository {
	out := &Repository{
		Initialized: r.Initialized,
		Branches:    cloneBranches(r.Branches),
		HeadRef:     r.HeadRef,
		Head:        r.Head,
		Commits:     cloneCommits(r.Commits),
		WorkingTree: r.WorkingTree.Clone(),
		Index:       r.Index.Clone(),
		Conflicts:   make(map[string]*Conflict, len(r.Conflicts)),
		Merge:       r.Merge.Clone(),
		Remote:      r.Remote.Clone(),
	}
	for path, c := range r.Conflicts {
		out.Conflicts[path] = c.Clone()
	}
	return out
}

// Normalize replaces nil mappings with empty ones. Snapshots decoded from
// JSON or YAML may omit empty collections.
func (r *Repository) Normalize() {
	if r.Branches == nil {
		r.Branches = make(map[string]string)
	}
	if r.Commits == nil {
		r.Commits = []*Commit{}
	}
	if r.WorkingTree == nil {
		r.WorkingTree = make(Tree)
	}
	if r.Index == nil {
		r.Index = make(Tree)
	}
	if r.Conflicts == nil {
		r.Conflicts = make(map[string]*Conflict)
	}
	if r.Remote.Branches == nil {
		r.Remote.Branches = make(map[string]string)
	}
	if r.Remote.Commits == nil {
		r.Remote.Commits = []*Commit{}
	}
	for _, c := range append(append([]*Commit{}, r.Commits...), r.Remote.Commits...) {
		if c.Tree == nil {
			c.Tree = make(Tree)
		}
		if c.Parents == nil {
			c.Parents = []string{}
		}
	}
}

// CommitByID returns the local commit with the given id, or nil
func (r *Repository) CommitByID(id string) *Commit {
	if id == "" {
		return nil
	}
	for _, c := range r.Commits {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// HeadCommit returns the commit HEAD points at, or nil before the first commit
func (r *Repository) HeadCommit() *Commit {
	return r.CommitByID(r.Head)
}

// HeadTree returns the tree of the HEAD commit, or an empty tree
func (r *Repository) HeadTree() Tree {
	if c := r.HeadCommit(); c != nil {
		return c.Tree
	}
	return Tree{}
}

// HasBranch reports whether a local branch exists (born or unborn)
func (r *Repository) HasBranch(name string) bool {
	_, ok := r.Branches[name]
	return ok
}

// CurrentBranchName returns the checked-out branch, defaulting to main for display
func (r *Repository) CurrentBranchName() string {
	if r.HeadRef == "" {
		return DefaultBranch
	}
	return r.HeadRef
}

// NextCommitID returns the id the next created commit will receive
func (r *Repository) NextCommitID() string {
	return FormatCommitID(len(r.Commits) + 1)
}

// CommitMap indexes local commits by id.
func (r *Repository) CommitMap() map[string]*Commit {
	m := make(map[string]*Commit, len(r.Commits))
	for _, c := range r.Commits {
		m[c.ID] = c
	}
	return m
}

// Validate checks the structural invariants of a completed operation.
func (r *Repository) Validate() error {
	seen := make(map[string]bool, len(r.Commits))
	for _, c := range r.Commits {
		if c.ID == "" {
			return fmt.Errorf("commit with empty id")
		}
		if seen[c.ID] {
			return fmt.Errorf("duplicate commit id %s", c.ID)
		}
		for _, p := range c.Parents {
			if !seen[p] {
				return fmt.Errorf("commit %s references unknown parent %s", c.ID, p)
			}
		}
		seen[c.ID] = true
	}

	if r.Head != "" && !seen[r.Head] {
		return fmt.Errorf("HEAD points at unknown commit %s", r.Head)
	}

	if r.HeadRef != "" {
		tip, ok := r.Branches[r.HeadRef]
		if !ok {
			return fmt.Errorf("HEAD references missing branch %s", r.HeadRef)
		}
		if tip != r.Head {
			return fmt.Errorf("branch %s points at %q but HEAD is %q", r.HeadRef, tip, r.Head)
		}
	}

	for name, tip := range r.Branches {
		if tip != "" && !seen[tip] {
			return fmt.Errorf("branch %s points at unknown commit %s", name, tip)
		}
	}

	if len(r.Conflicts) > 0 && !r.Merge.InProgress {
		return fmt.Errorf("conflicts recorded without a merge in progress")
	}

	return nil
}

func cloneBranches(b map[string]string) map[string]string {
	out := make(map[string]string, len(b))
	for name, tip := range b {
		out[name] = tip
	}
	return out
}
