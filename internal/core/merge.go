package core

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/ahnaineh/GITGAME/internal/models"
)

// Merge merges a branch into the current branch.
//
// An unborn HEAD or a HEAD behind the target fast-forwards. A target already
// contained in HEAD is a no-op. Diverged histories are merged three ways from
// the merge base: a clean result is committed with two parents, otherwise the
// conflicts are recorded and the merge stays in progress until the next
// commit or an abort.
func Merge(repo *models.Repository, branch string) *models.Outcome {
	next := repo.Clone()
	if !next.Initialized {
		return notARepository(next)
	}
	if branch == "" {
		return fatal(next, "fatal: branch name required.")
	}
	if next.Merge.InProgress {
		return rejected(next, "Merge already in progress.")
	}
	if HasUncommittedChanges(next) {
		return rejected(next, "Please commit or discard changes before merging.")
	}

	target := resolveMergeTarget(next, branch)
	if target == "" {
		return fatal(next, "fatal: invalid reference: "+branch)
	}

	ours := next.Head
	if ours == "" {
		moveHead(next, target)
		checkoutTree(next, target)
		return applied(next, []string{"Fast-forward merge completed."}, models.ActionMerge, models.ActionMergeFF)
	}

	commits := next.CommitMap()
	if isAncestor(commits, target, ours) {
		return noop(next, "Already up to date.", models.ActionMerge)
	}

	if isAncestor(commits, ours, target) {
		moveHead(next, target)
		checkoutTree(next, target)
		return applied(next, []string{
			"Fast-forward",
			fmt.Sprintf("Updated %s to %s.", next.CurrentBranchName(), target),
		}, models.ActionMerge, models.ActionMergeFF)
	}

	return threeWayMerge(next, commits, ours, target, branch)
}

func threeWayMerge(next *models.Repository, commits map[string]*models.Commit, ours, theirs, branch string) *models.Outcome {
	var baseTree models.Tree
	if base := findMergeBase(commits, ours, theirs); base != "" {
		baseTree = commits[base].Tree
	}
	oursTree := commits[ours].Tree

	result := MergeTrees(baseTree, oursTree, commits[theirs].Tree, branch)
	next.WorkingTree = result.Tree
	next.Index = make(models.Tree)

	if result.HasConflicts() {
		// Cleanly merged paths are staged so the resolution commit carries them
		for path, content := range result.Tree {
			if _, conflicted := result.Conflicts[path]; conflicted {
				continue
			}
			if oc, ok := oursTree.Get(path); !ok || oc != content {
				next.Index[path] = content
			}
		}
		var deleted []string
		for _, path := range oursTree.Paths() {
			if _, conflicted := result.Conflicts[path]; !conflicted && !result.Tree.Has(path) {
				deleted = append(deleted, path)
			}
		}
		next.Conflicts = result.Conflicts
		next.Merge = models.MergeState{InProgress: true, Target: theirs, TargetBranch: branch, Deleted: deleted}

		output := make([]string, 0, len(result.Conflicts)+1)
		for _, path := range slices.Sorted(maps.Keys(result.Conflicts)) {
			output = append(output, fmt.Sprintf("CONFLICT (%s): Merge conflict in %s", result.Conflicts[path].Type(), path))
		}
		output = append(output, "Automatic merge failed; fix conflicts and then commit the result.")
		return outcome(next, models.StatusConflict, output, models.ActionMerge, models.ActionMergeConflict)
	}

	clearMerge(next)
	commit := appendCommit(next, "Merge branch '"+branch+"'", result.Tree.Clone(), []string{ours, theirs})

	return applied(next, []string{
		"Merge made by the 'ort' strategy.",
		commitLine(next, commit),
	}, models.ActionMerge)
}

// resolveMergeTarget accepts a local branch with commits or a fetched
// origin/<branch>
func resolveMergeTarget(repo *models.Repository, branch string) string {
	if tip, ok := repo.Branches[branch]; ok {
		return tip
	}
	if strings.HasPrefix(branch, "origin/") {
		if commitID, _, err := ResolveRef(repo, branch); err == nil {
			return commitID
		}
	}
	return ""
}

// MergeAbort abandons a conflicted merge and restores HEAD's tree
func MergeAbort(repo *models.Repository) *models.Outcome {
	next := repo.Clone()
	if !next.Merge.InProgress {
		return noop(next, "No merge to abort.")
	}

	next.WorkingTree = next.HeadTree().Clone()
	next.Index = make(models.Tree)
	clearMerge(next)

	return applied(next, []string{"Merge aborted."}, models.ActionMergeAbort)
}
