package models

// ConflictType identifies the kind of three-way conflict on a path
type ConflictType string

const (
	ConflictModifyModify ConflictType = "modify-modify" // Both modified differently
	ConflictDeleteModify ConflictType = "delete-modify" // We deleted, they modified
	ConflictModifyDelete ConflictType = "modify-delete" // We modified, they deleted
	ConflictAddAdd       ConflictType = "add-add"       // Both added with different content
)

// Conflict records the three sides of an unresolved path.
// A nil side means the path was absent there.
type Conflict struct {
	Base   *string `json:"base,omitempty" yaml:"base,omitempty"`
	Ours   *string `json:"ours,omitempty" yaml:"ours,omitempty"`
	Theirs *string `json:"theirs,omitempty" yaml:"theirs,omitempty"`
}

// Type classifies the conflict
func (c *Conflict) Type() ConflictType {
	switch {
	case c.Base == nil:
		return ConflictAddAdd
	case c.Ours == nil:
		return ConflictDeleteModify
	case c.Theirs == nil:
		return ConflictModifyDelete
	default:
		return ConflictModifyModify
	}
}

// Clone returns a deep copy of the conflict.
func (c *Conflict) Clone() *Conflict {
	if c == nil {
		return nil
	}
	return &Conflict{Base: cloneString(c.Base), Ours: cloneString(c.Ours), Theirs: cloneString(c.Theirs)}
}

// MergeState marks a merge that stopped on conflicts
type MergeState struct {
	InProgress   bool   `json:"in_progress" yaml:"in_progress"`
	Target       string `json:"target,omitempty" yaml:"target,omitempty"`               // foreign commit being merged
	TargetBranch string `json:"target_branch,omitempty" yaml:"target_branch,omitempty"` // branch name it came from
	// Deleted lists paths the merge removed cleanly. The index only holds
	// content, so the concluding commit drops these from HEAD's tree itself.
	Deleted []string `json:"deleted,omitempty" yaml:"deleted,omitempty"`
}

// Clone returns a copy that shares no slices with m.
func (m MergeState) Clone() MergeState {
	out := m
	if m.Deleted != nil {
		out.Deleted = append([]string(nil), m.Deleted...)
	}
	return out
}

// StringPtr returns a pointer to a copy of s.
func StringPtr(s string) *string {
	return &s
}

// Optional converts a presence-tested lookup into a nullable value.
func Optional(content string, ok bool) *string {
	if !ok {
		return nil
	}
	return &content
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
