package core

import (
	"github.com/ahnaineh/GITGAME/internal/models"
)

// Commit records the index on top of HEAD. While a merge is in progress the
// new commit gets the merge target as its second parent and the merge state
// is cleared.
func Commit(repo *models.Repository, message string) *models.Outcome {
	next := repo.Clone()
	if !next.Initialized {
		return notARepository(next)
	}
	if message == "" {
		return rejected(next, "Aborting commit: message required.")
	}
	if next.Merge.InProgress && len(next.Conflicts) > 0 {
		return rejected(next, "Cannot commit while merge conflicts remain. Resolve and git add them.")
	}
	if len(next.Index) == 0 && !(next.Merge.InProgress && len(next.Merge.Deleted) > 0) {
		return rejected(next, "No changes staged for commit.")
	}

	tree := next.HeadTree().Clone()
	if next.Merge.InProgress {
		for _, path := range next.Merge.Deleted {
			delete(tree, path)
		}
	}
	for path, content := range next.Index {
		tree[path] = content
	}

	parents := headParents(next)
	if next.Merge.InProgress && next.Merge.Target != "" {
		parents = append(parents, next.Merge.Target)
	}

	commit := appendCommit(next, message, tree, parents)
	next.Index = make(models.Tree)
	if next.Merge.InProgress {
		clearMerge(next)
	}

	return applied(next, []string{commitLine(next, commit)}, models.ActionCommit)
}
