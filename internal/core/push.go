package core

import (
	"github.com/ahnaineh/GITGAME/internal/models"
)

// Push publishes the current branch to origin. It is rejected when origin's
// tip for the branch is not contained in HEAD.
func Push(repo *models.Repository) *models.Outcome {
	next := repo.Clone()
	if !next.Initialized {
		return notARepository(next)
	}
	if next.HeadRef == "" || next.Head == "" {
		return noop(next, "Nothing to push.")
	}

	branch := next.HeadRef
	known := commitMap(unionCommits(next.Commits, next.Remote.Commits))
	remoteTip := next.Remote.Branches[branch]

	if remoteTip != "" && !isAncestor(known, remoteTip, next.Head) {
		return rejected(next, "rejected: remote contains work that you do not have.", models.ActionPushRejected)
	}

	next.Remote.Commits = unionCommits(next.Remote.Commits, next.Commits)
	next.Remote.Branches[branch] = next.Head

	return applied(next, []string{"Pushed " + branch + " to origin/" + branch + "."}, models.ActionPush)
}
