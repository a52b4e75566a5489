package core

import (
	"github.com/ahnaineh/GITGAME/internal/models"
)

// CherryPick replays the change a commit introduced relative to its first
// parent onto HEAD as a new single-parent commit.
func CherryPick(repo *models.Repository, ref string) *models.Outcome {
	return replay(repo, ref, false)
}

// Revert records a new commit undoing the change a commit introduced
// relative to its first parent.
func Revert(repo *models.Repository, ref string) *models.Outcome {
	return replay(repo, ref, true)
}

func replay(repo *models.Repository, ref string, reverse bool) *models.Outcome {
	action, prefix, verb := models.ActionCherryPick, "Cherry-pick: ", "cherry-picking"
	if reverse {
		action, prefix, verb = models.ActionRevert, "Revert: ", "reverting"
	}

	next := repo.Clone()
	if !next.Initialized {
		return notARepository(next)
	}
	if ref == "" {
		return fatal(next, "fatal: commit id required.")
	}
	if HasUncommittedChanges(next) {
		return rejected(next, "Please commit or discard changes before "+verb+".")
	}

	target := resolveCommit(next, ref)
	if target == nil {
		return fatal(next, "fatal: unknown commit "+ref)
	}

	var baseTree models.Tree
	if parent := next.CommitByID(target.FirstParent()); parent != nil {
		baseTree = parent.Tree
	}
	tree := ApplyTreeDiff(next.HeadTree(), baseTree, target.Tree, reverse)

	commit := appendCommit(next, prefix+target.Message, tree, headParents(next))
	next.WorkingTree = tree.Clone()
	next.Index = make(models.Tree)

	return applied(next, []string{commitLine(next, commit)}, action, models.Tag(action, target.ID))
}
