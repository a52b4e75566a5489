package core

import (
	"github.com/ahnaineh/GITGAME/internal/models"
)

// Pull fetches and then fast-forwards the current branch to origin's tip when
// possible. Diverged histories are left for an explicit merge.
func Pull(repo *models.Repository) *models.Outcome {
	if !repo.Initialized {
		return notARepository(repo.Clone())
	}

	fetched := Fetch(repo)
	next := fetched.Repo
	if next.HeadRef == "" {
		return noop(next, "Nothing to pull.", models.ActionPull)
	}

	remoteTip := next.Remote.Branches[next.HeadRef]
	if remoteTip == "" {
		return noop(next, "Already up to date.", models.ActionPull)
	}

	commits := next.CommitMap()
	output := append([]string{}, fetched.Output...)

	if next.Head == "" || isAncestor(commits, next.Head, remoteTip) {
		moveHead(next, remoteTip)
		checkoutTree(next, remoteTip)
		return applied(next, append(output, "Fast-forward pull completed."), models.ActionPull)
	}

	if isAncestor(commits, remoteTip, next.Head) {
		return outcome(next, models.StatusNoop, append(output, "Already up to date."), models.ActionPull)
	}

	return outcome(next, models.StatusRejected, append(output, "Pull requires a merge. Run git merge to continue."), models.ActionPull)
}
