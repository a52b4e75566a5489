package core

import "github.com/ahnaineh/GITGAME/internal/models"

// Init initializes the repository with a single unborn main branch.
// The working tree is kept so that preloaded files survive.
func Init(repo *models.Repository) *models.Outcome {
	next := repo.Clone()
	if next.Initialized {
		return noop(next, "Repository already initialized.")
	}

	next.Initialized = true
	next.Branches = map[string]string{models.DefaultBranch: ""}
	next.HeadRef = models.DefaultBranch
	next.Head = ""
	next.Index = make(models.Tree)
	clearMerge(next)
	next.Remote = models.NewRemoteState()

	return applied(next, []string{"Initialized empty Git repository on branch main."}, models.ActionInit)
}
