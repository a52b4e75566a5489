package core

import (
	"slices"

	"github.com/ahnaineh/GITGAME/internal/models"
)

// Add stages working tree content into the index. "." stages every working
// tree path. Missing paths are reported and skipped; staging a conflicted path
// marks it resolved.
func Add(repo *models.Repository, paths []string) *models.Outcome {
	next := repo.Clone()
	if !next.Initialized {
		return notARepository(next)
	}
	if len(paths) == 0 {
		return rejected(next, "Nothing specified, nothing added.")
	}

	targets := paths
	if slices.Contains(paths, ".") {
		targets = next.WorkingTree.Paths()
	}

	var output, actions []string
	staged := 0
	for _, path := range targets {
		content, ok := next.WorkingTree.Get(path)
		if !ok {
			output = append(output, "fatal: pathspec '"+path+"' did not match any files")
			continue
		}
		if _, conflicted := next.Conflicts[path]; conflicted {
			delete(next.Conflicts, path)
			actions = append(actions, models.ResolveTag(path))
		}
		next.Index[path] = content
		actions = append(actions, models.ActionAdd, models.Tag(models.ActionAdd, path))
		staged++
	}

	switch {
	case staged > 0:
		return outcome(next, models.StatusApplied, output, actions...)
	case len(output) > 0:
		return outcome(next, models.StatusFatal, output)
	default:
		// "." over an empty working tree
		return outcome(next, models.StatusNoop, nil)
	}
}
