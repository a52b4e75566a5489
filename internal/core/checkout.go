package core

import (
	"github.com/ahnaineh/GITGAME/internal/models"
)

// Switch checks out an existing branch. The working tree is replaced by the
// branch's tree and the index is emptied. An unborn branch keeps the working
// tree as is.
func Switch(repo *models.Repository, name string) *models.Outcome {
	next := repo.Clone()
	if !next.Initialized {
		return notARepository(next)
	}
	if name == "" {
		return fatal(next, "fatal: branch name required.")
	}
	if !next.HasBranch(name) {
		return fatal(next, "fatal: invalid reference: "+name)
	}
	if next.HeadRef == name {
		return noop(next, "Already on '"+name+"'.")
	}
	if next.Merge.InProgress || len(next.Conflicts) > 0 {
		return rejected(next, "Cannot switch branches while a merge is in progress.")
	}
	if HasUncommittedChanges(next) {
		return rejected(next, "Please commit or discard changes before switching branches.")
	}

	next.HeadRef = name
	next.Head = next.Branches[name]
	if next.Head != "" {
		checkoutTree(next, next.Head)
	}
	next.Index = make(models.Tree)

	return applied(next, []string{"Switched to branch '" + name + "'."},
		models.ActionSwitch, models.Tag(models.ActionSwitch, name))
}

// SwitchCreate creates a branch at HEAD and switches to it, as
// "switch -c" and "checkout -b" do. Output and tags of both steps are joined.
// A failed branch step stops before switching.
func SwitchCreate(repo *models.Repository, name string, force bool) *models.Outcome {
	branched := CreateBranch(repo, name, force)
	if !branched.OK() {
		return branched
	}

	switched := Switch(branched.Repo, name)
	output := append(append([]string{}, branched.Output...), switched.Output...)
	actions := append(append([]string{}, branched.Actions...), switched.Actions...)
	return outcome(switched.Repo, switched.Status, output, actions...)
}
