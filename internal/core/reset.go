package core

import (
	"github.com/ahnaineh/GITGAME/internal/models"
)

// Reset moves HEAD and the current branch to target and discards the working
// tree, index, conflicts and any merge in progress. Only hard resets exist.
func Reset(repo *models.Repository, target string, hard bool) *models.Outcome {
	next := repo.Clone()
	if !next.Initialized {
		return notARepository(next)
	}
	if target == "" {
		return fatal(next, "fatal: commit id required.")
	}
	if !hard {
		return rejected(next, "Only --hard reset is supported.")
	}

	commit := resolveCommit(next, target)
	if commit == nil {
		return fatal(next, "fatal: unknown commit "+target)
	}

	moveHead(next, commit.ID)
	checkoutTree(next, commit.ID)
	clearMerge(next)

	return applied(next, []string{"HEAD is now at " + commit.ID + " " + commit.Message},
		models.ActionReset, models.Tag(models.ActionReset, commit.ID))
}
