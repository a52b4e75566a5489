package core

import (
	"time"

	"github.com/ahnaineh/GITGAME/internal/models"
)

const msgNotARepository = `fatal: not a git repository. Run "git init" to begin.`

// clock returns the commit timestamp source in unix milliseconds
var clock = func() int64 { return time.Now().UnixMilli() }

func outcome(repo *models.Repository, status models.Status, output []string, actions ...string) *models.Outcome {
	if output == nil {
		output = []string{}
	}
	if actions == nil {
		actions = []string{}
	}
	return &models.Outcome{Status: status, Repo: repo, Output: output, Actions: actions}
}

func applied(repo *models.Repository, output []string, actions ...string) *models.Outcome {
	return outcome(repo, models.StatusApplied, output, actions...)
}

func noop(repo *models.Repository, line string, actions ...string) *models.Outcome {
	return outcome(repo, models.StatusNoop, []string{line}, actions...)
}

func rejected(repo *models.Repository, line string, actions ...string) *models.Outcome {
	return outcome(repo, models.StatusRejected, []string{line}, actions...)
}

func fatal(repo *models.Repository, line string) *models.Outcome {
	return outcome(repo, models.StatusFatal, []string{line})
}

func notARepository(repo *models.Repository) *models.Outcome {
	return fatal(repo, msgNotARepository)
}

// nextTimestamp keeps commit timestamps strictly increasing so that the
// timestamp sort used by fetch preserves creation order.
func nextTimestamp(repo *models.Repository) int64 {
	ts := clock()
	for _, c := range repo.Commits {
		if c.Timestamp >= ts {
			ts = c.Timestamp + 1
		}
	}
	return ts
}

// appendCommit records a new commit on top of HEAD and advances the current branch.
func appendCommit(repo *models.Repository, message string, tree models.Tree, parents []string) *models.Commit {
	commit := &models.Commit{
		ID:        repo.NextCommitID(),
		Message:   message,
		Tree:      tree,
		Timestamp: nextTimestamp(repo),
		Parents:   parents,
	}
	repo.Commits = append(repo.Commits, commit)
	moveHead(repo, commit.ID)
	return commit
}

// moveHead points HEAD, and the checked-out branch if any, at commitID
func moveHead(repo *models.Repository, commitID string) {
	repo.Head = commitID
	if repo.HeadRef != "" {
		repo.Branches[repo.HeadRef] = commitID
	}
}

// checkoutTree replaces the working tree with a commit's tree and empties the index
func checkoutTree(repo *models.Repository, commitID string) {
	if c := repo.CommitByID(commitID); c != nil {
		repo.WorkingTree = c.Tree.Clone()
	}
	repo.Index = make(models.Tree)
}

func clearMerge(repo *models.Repository) {
	repo.Conflicts = make(map[string]*models.Conflict)
	repo.Merge = models.MergeState{}
}

func commitLine(repo *models.Repository, c *models.Commit) string {
	return "[" + repo.CurrentBranchName() + " " + c.ID + "] " + c.Message
}

func headParents(repo *models.Repository) []string {
	if repo.Head == "" {
		return []string{}
	}
	return []string{repo.Head}
}
