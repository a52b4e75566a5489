package core

import (
	"testing"

	"github.com/ahnaineh/GITGAME/internal/models"
	"github.com/stretchr/testify/require"
)

// mustApply fails the test unless the outcome succeeded and returns its repository
func mustApply(t *testing.T, out *models.Outcome) *models.Repository {
	t.Helper()
	require.True(t, out.OK(), "unexpected %s outcome: %v", out.Status, out.Output)
	require.NoError(t, out.Repo.Validate())
	return out.Repo
}

// newTestRepo returns an initialized repository with files preloaded in the working tree
func newTestRepo(t *testing.T, files map[string]string) *models.Repository {
	t.Helper()
	repo := models.NewRepository()
	for path, content := range files {
		repo.WorkingTree[path] = content
	}
	return mustApply(t, Init(repo))
}

// commitFiles writes files to the working tree, stages them and commits
func commitFiles(t *testing.T, repo *models.Repository, message string, files map[string]string) *models.Repository {
	t.Helper()
	next := repo.Clone()
	paths := make([]string, 0, len(files))
	for path, content := range files {
		next.WorkingTree[path] = content
		paths = append(paths, path)
	}
	next = mustApply(t, Add(next, paths))
	return mustApply(t, Commit(next, message))
}

// divergedRepo builds:
//
//	c001 (map.txt=base) <- c002 main (map.txt=<ours>)
//	     \- c003 feature (map.txt=<theirs>)
//
// with main checked out.
func divergedRepo(t *testing.T, ours, theirs map[string]string) *models.Repository {
	t.Helper()
	repo := newTestRepo(t, map[string]string{"map.txt": "base"})
	repo = mustApply(t, Add(repo, []string{"map.txt"}))
	repo = mustApply(t, Commit(repo, "Anchor"))
	repo = mustApply(t, CreateBranch(repo, "feature", false))
	repo = commitFiles(t, repo, "Ours", ours)
	repo = mustApply(t, Switch(repo, "feature"))
	repo = commitFiles(t, repo, "Theirs", theirs)
	return mustApply(t, Switch(repo, "main"))
}
