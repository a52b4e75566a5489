package core

import (
	"sort"

	"github.com/ahnaineh/GITGAME/internal/models"
)

// Fetch copies origin's commits into the local commit collection without
// moving any local branch, then reports each remote branch tip.
func Fetch(repo *models.Repository) *models.Outcome {
	next := repo.Clone()
	if !next.Initialized {
		return notARepository(next)
	}

	next.Commits = unionCommits(next.Commits, next.Remote.Commits)
	if len(next.Remote.Branches) == 0 {
		return noop(next, "Nothing to fetch.", models.ActionFetch)
	}

	names := make([]string, 0, len(next.Remote.Branches))
	for name := range next.Remote.Branches {
		names = append(names, name)
	}
	sort.Strings(names)

	output := []string{"Fetched origin."}
	for _, name := range names {
		tip := next.Remote.Branches[name]
		if tip == "" {
			tip = "no commits"
		}
		output = append(output, "  origin/"+name+" -> "+tip)
	}

	return applied(next, output, models.ActionFetch)
}

// unionCommits merges two commit lists keyed by id. On collision the first
// list wins. The result is stably ordered by timestamp and shares no commit
// with the inputs.
func unionCommits(primary, secondary []*models.Commit) []*models.Commit {
	seen := make(map[string]bool, len(primary)+len(secondary))
	out := make([]*models.Commit, 0, len(primary)+len(secondary))
	for _, list := range [][]*models.Commit{primary, secondary} {
		for _, c := range list {
			if seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			out = append(out, c.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp < out[j].Timestamp
	})
	return out
}

func commitMap(commits []*models.Commit) map[string]*models.Commit {
	m := make(map[string]*models.Commit, len(commits))
	for _, c := range commits {
		m[c.ID] = c
	}
	return m
}
