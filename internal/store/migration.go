package store

import (
	"encoding/json"
	"fmt"
)

const currentRecordVersion = 3

// migrateRecord upgrades a session body written at version to the current layout
func migrateRecord(version int, body json.RawMessage) (json.RawMessage, error) {
	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal legacy session: %w", err)
	}

	repo, _ := doc["repository"].(map[string]any)
	if repo != nil {
		if version < 2 {
			migrateToV2(repo)
		}
		if version < 3 {
			migrateToV3(repo)
		}
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal migrated session: %w", err)
	}
	return out, nil
}

// migrateToV2 replaces the staged path list with an index holding only the
// pending entries. Each staged path takes its working tree content; a staged
// path missing from the working tree has nothing the index can hold.
func migrateToV2(repo map[string]any) {
	staging, _ := repo["staging"].([]any)
	delete(repo, "staging")

	index := map[string]any{}
	worktree, _ := repo["working_tree"].(map[string]any)
	for _, p := range staging {
		path, ok := p.(string)
		if !ok {
			continue
		}
		if content, ok := worktree[path]; ok {
			index[path] = content
		}
	}
	repo["index"] = index
}

// migrateToV3 adds the remote mirror to repositories saved before it existed
func migrateToV3(repo map[string]any) {
	if _, ok := repo["remote"]; ok {
		return
	}
	repo["remote"] = map[string]any{
		"branches": map[string]any{},
		"commits":  []any{},
	}
}
