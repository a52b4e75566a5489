package models

// RemoteState is the in-process mirror of "origin". Its commit storage is
// disjoint from the local one until fetch, pull or push reconcile them.
type RemoteState struct {
	Branches map[string]string `json:"branches" yaml:"branches"`
	Commits  []*Commit         `json:"commits" yaml:"commits"`
}

// NewRemoteState returns an empty remote
func NewRemoteState() RemoteState {
	return RemoteState{
		Branches: make(map[string]string),
		Commits:  []*Commit{},
	}
}

// Clone returns a deep copy of the remote.
func (r RemoteState) Clone() RemoteState {
	return RemoteState{
		Branches: cloneBranches(r.Branches),
		Commits:  cloneCommits(r.Commits),
	}
}
