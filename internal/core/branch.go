package core

import (
	"github.com/ahnaineh/GITGAME/internal/models"
)

// CreateBranch points a new branch at HEAD. With force an existing branch is
// repointed instead of rejected. Before the first commit the branch is unborn.
func CreateBranch(repo *models.Repository, name string, force bool) *models.Outcome {
	next := repo.Clone()
	if !next.Initialized {
		return notARepository(next)
	}
	if name == "" {
		return fatal(next, "fatal: branch name required.")
	}
	if next.HasBranch(name) && !force {
		return fatal(next, "fatal: A branch named '"+name+"' already exists.")
	}

	next.Branches[name] = next.Head

	return applied(next, []string{"Branch '" + name + "' created."},
		models.ActionBranch, models.Tag(models.ActionBranch, name))
}
