package core

import (
	"sort"

	"github.com/ahnaineh/GITGAME/internal/models"
)

// GraphNode is one commit as drawn by a history view
type GraphNode struct {
	ID             string   `json:"id"`
	Message        string   `json:"message"`
	Timestamp      int64    `json:"timestamp"`
	Parents        []string `json:"parents"`
	Branches       []string `json:"branches"`
	RemoteBranches []string `json:"remote_branches"`
	IsHead         bool     `json:"is_head"`
}

// GraphView is a read-only projection of the commit DAG, newest commit first
type GraphView struct {
	Head    string      `json:"head"`
	HeadRef string      `json:"head_ref"`
	Nodes   []GraphNode `json:"nodes"`
}

// Graph projects the repository history for display. Remote branch labels
// only appear on commits that were fetched.
func Graph(repo *models.Repository) *GraphView {
	view := &GraphView{Head: repo.Head, HeadRef: repo.HeadRef, Nodes: []GraphNode{}}

	labels := make(map[string][]string)
	for name, id := range repo.Branches {
		if id != "" {
			labels[id] = append(labels[id], name)
		}
	}
	remoteLabels := make(map[string][]string)
	for name, id := range repo.Remote.Branches {
		remoteLabels[id] = append(remoteLabels[id], "origin/"+name)
	}

	for _, c := range repo.Commits {
		node := GraphNode{
			ID:             c.ID,
			Message:        c.Message,
			Timestamp:      c.Timestamp,
			Parents:        append([]string{}, c.Parents...),
			Branches:       sorted(labels[c.ID]),
			RemoteBranches: sorted(remoteLabels[c.ID]),
			IsHead:         c.ID == repo.Head,
		}
		view.Nodes = append(view.Nodes, node)
	}

	sort.SliceStable(view.Nodes, func(i, j int) bool {
		return view.Nodes[i].Timestamp > view.Nodes[j].Timestamp
	})
	return view
}

func sorted(names []string) []string {
	if names == nil {
		return []string{}
	}
	sort.Strings(names)
	return names
}
