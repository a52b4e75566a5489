package core

import (
	"sort"

	"github.com/ahnaineh/GITGAME/internal/models"
)

// Summary classifies every path known to HEAD, the index or the working tree.
// Each list is sorted.
type Summary struct {
	Staged    []string `json:"staged"`
	Modified  []string `json:"modified"`
	Untracked []string `json:"untracked"`
	Clean     []string `json:"clean"`
	Conflicts []string `json:"conflicts"`
}

// IsClean returns true if nothing is staged, modified, untracked or conflicted
func (s *Summary) IsClean() bool {
	return len(s.Conflicts) == 0 && len(s.Staged) == 0 && len(s.Modified) == 0 && len(s.Untracked) == 0
}

// StatusSummary computes the per-path status against HEAD and the index
func StatusSummary(repo *models.Repository) *Summary {
	headTree := repo.HeadTree()
	s := &Summary{
		Staged:    []string{},
		Modified:  []string{},
		Untracked: []string{},
		Clean:     []string{},
		Conflicts: []string{},
	}

	for _, path := range models.UnionPaths(headTree, repo.WorkingTree, repo.Index) {
		if _, ok := repo.Conflicts[path]; ok {
			s.Conflicts = append(s.Conflicts, path)
			continue
		}

		headValue, inHead := headTree.Get(path)
		workValue, inWork := repo.WorkingTree.Get(path)
		indexValue, inIndex := repo.Index.Get(path)

		if !inHead && !inIndex && inWork {
			s.Untracked = append(s.Untracked, path)
			continue
		}

		staged := inIndex && (!inHead || indexValue != headValue)
		if staged {
			s.Staged = append(s.Staged, path)
		}

		// Unstaged changes compare against the index when the path is staged
		compare, hasCompare := headValue, inHead
		if inIndex {
			compare, hasCompare = indexValue, true
		}
		modified := inWork && hasCompare && workValue != compare
		if modified {
			s.Modified = append(s.Modified, path)
		}

		if !staged && !modified && inWork && inHead {
			s.Clean = append(s.Clean, path)
		}
	}

	return s
}

// HasUncommittedChanges reports staged, modified or conflicted paths.
// Untracked files do not count.
func HasUncommittedChanges(repo *models.Repository) bool {
	s := StatusSummary(repo)
	return len(s.Staged) > 0 || len(s.Modified) > 0 || len(s.Conflicts) > 0
}

// Status renders the working tree status
func Status(repo *models.Repository) *models.Outcome {
	next := repo.Clone()
	if !next.Initialized {
		return notARepository(next)
	}

	output := []string{"On branch " + next.CurrentBranchName()}
	if next.Merge.InProgress {
		target := next.Merge.TargetBranch
		if target == "" {
			target = "a branch"
		}
		output = append(output, "You are currently merging "+target+".")
	}
	if next.HeadCommit() == nil {
		output = append(output, "No commits yet.")
	}

	s := StatusSummary(next)
	headTree := next.HeadTree()

	if len(s.Conflicts) > 0 {
		output = append(output, "Unmerged paths:")
		for _, path := range s.Conflicts {
			output = append(output, "  both modified: "+path)
		}
	}

	if len(s.Staged) > 0 {
		output = append(output, "Changes to be committed:")
		for _, path := range s.Staged {
			if headTree.Has(path) {
				output = append(output, "  modified: "+path)
			} else {
				output = append(output, "  new file: "+path)
			}
		}
	}

	if len(s.Modified) > 0 {
		output = append(output, "Changes not staged for commit:")
		for _, path := range s.Modified {
			output = append(output, "  modified: "+path)
		}
	}

	if len(s.Untracked) > 0 {
		output = append(output, "Untracked files:")
		for _, path := range s.Untracked {
			output = append(output, "  "+path)
		}
	}

	if s.IsClean() {
		output = append(output, "nothing to commit, working tree clean")
	}

	return applied(next, output, models.ActionStatus)
}

// Log lists commits most recent first. With oneline set each commit takes one
// line instead of two.
func Log(repo *models.Repository, oneline bool) *models.Outcome {
	next := repo.Clone()
	if !next.Initialized {
		return notARepository(next)
	}
	if len(next.Commits) == 0 {
		return applied(next, []string{"No commits yet."}, models.ActionLog)
	}

	output := make([]string, 0, len(next.Commits)*2)
	for i := len(next.Commits) - 1; i >= 0; i-- {
		c := next.Commits[i]
		if oneline {
			output = append(output, c.ID+" "+c.Message)
			continue
		}
		output = append(output, "commit "+c.ID, "    "+c.Message)
	}
	return applied(next, output, models.ActionLog)
}

// ListBranches renders local branches sorted by name, marking the current one
func ListBranches(repo *models.Repository) *models.Outcome {
	next := repo.Clone()
	if !next.Initialized {
		return notARepository(next)
	}

	names := make([]string, 0, len(next.Branches))
	for name := range next.Branches {
		names = append(names, name)
	}
	sort.Strings(names)

	output := make([]string, 0, len(names))
	for _, name := range names {
		prefix := "  "
		if name == next.HeadRef {
			prefix = "* "
		}
		output = append(output, prefix+name)
	}
	return applied(next, output, models.ActionBranchList)
}
