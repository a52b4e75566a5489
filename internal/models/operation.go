package models

// Status tags the outcome of a command operation
type Status int

const (
	// StatusApplied means the operation changed the repository as requested
	StatusApplied Status = iota
	// StatusNoop is an informational no-op (already initialized, already up to date)
	StatusNoop
	// StatusRejected is a soft rejection (nothing staged, dirty tree, push rejected)
	StatusRejected
	// StatusFatal is a precondition violation reported with a "fatal:" line
	StatusFatal
	// StatusConflict means a merge stopped with unresolved paths
	StatusConflict
)

// String returns a human-readable name for the status
func (s Status) String() string {
	switch s {
	case StatusApplied:
		return "applied"
	case StatusNoop:
		return "noop"
	case StatusRejected:
		return "rejected"
	case StatusFatal:
		return "fatal"
	case StatusConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Outcome is the result of one command operation over a repository snapshot.
// Repo is always a fresh snapshot, even when the operation was rejected.
type Outcome struct {
	Status  Status      `json:"status"`
	Repo    *Repository `json:"repository"`
	Output  []string    `json:"output"`
	Actions []string    `json:"actions"`
}

// OK reports whether the operation succeeded
func (o *Outcome) OK() bool {
	return o.Status == StatusApplied || o.Status == StatusNoop
}

// Action tags recorded for progress tracking.
const (
	ActionInit          = "init"
	ActionAdd           = "add"
	ActionCommit        = "commit"
	ActionBranch        = "branch"
	ActionBranchList    = "branch:list"
	ActionSwitch        = "switch"
	ActionReset         = "reset"
	ActionMerge         = "merge"
	ActionMergeFF       = "merge:ff"
	ActionMergeConflict = "merge:conflict"
	ActionMergeAbort    = "merge:abort"
	ActionCherryPick    = "cherry-pick"
	ActionRevert        = "revert"
	ActionFetch         = "fetch"
	ActionPush          = "push"
	ActionPushRejected  = "push:rejected"
	ActionPull          = "pull"
	ActionStatus        = "status"
	ActionLog           = "log"
	ActionHelp          = "help"
)

// Tag joins an action with its subject, e.g. Tag("add", "map.txt") = "add:map.txt".
func Tag(action, subject string) string {
	return action + ":" + subject
}

// ResolveTag is recorded when staging clears a conflicted path
func ResolveTag(path string) string {
	return Tag("resolve", path)
}
