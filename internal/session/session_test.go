package session

import (
	"fmt"
	"testing"

	"github.com/ahnaineh/GITGAME/internal/level"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGame(t *testing.T) *Game {
	t.Helper()
	return NewGame(level.DefaultPack(), nil)
}

func texts(lines []Line) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.Text)
	}
	return out
}

func TestNew_OpeningTranscript(t *testing.T) {
	g := newGame(t)
	s, err := g.New(0)
	require.NoError(t, err)

	first := g.Pack().First()
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, first.ID, s.LevelID)
	assert.Equal(t, []int{first.ID}, s.UnlockedLevels)
	assert.Empty(t, s.CompletedLevels)

	want := []string{"Mission: " + first.Title + "."}
	want = append(want, first.Story[:2]...)
	want = append(want, "Type help for commands or hint for guidance.")
	assert.Equal(t, want, texts(s.Output))
	for _, l := range s.Output {
		assert.Equal(t, LineSystem, l.Kind)
	}
}

func TestNew_UnknownLevel(t *testing.T) {
	g := newGame(t)
	_, err := g.New(999)
	assert.ErrorIs(t, err, ErrUnknownLevel)
}

func TestRun_RecordsTranscriptAndActions(t *testing.T) {
	g := newGame(t)
	s, err := g.New(1)
	require.NoError(t, err)
	before := len(s.Output)

	res := g.Run(s, "  git init  ")
	assert.True(t, res.OK)
	assert.Equal(t, []string{"git init"}, s.CommandHistory)
	assert.Contains(t, s.Actions, "init")

	require.GreaterOrEqual(t, len(res.Lines), 2)
	assert.Equal(t, LineInput, res.Lines[0].Kind)
	assert.Equal(t, "git init", res.Lines[0].Text)
	assert.Equal(t, LineOutput, res.Lines[1].Kind)
	assert.Len(t, s.Output, before+len(res.Lines))

	// Repeated tags are recorded once
	g.Run(s, "git status")
	g.Run(s, "git status")
	count := 0
	for _, a := range s.Actions {
		if a == "status" {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.True(t, res.Progress[0].Done)
}

func TestRun_BlankInputIgnored(t *testing.T) {
	g := newGame(t)
	s, err := g.New(1)
	require.NoError(t, err)
	before := len(s.Output)

	res := g.Run(s, "   ")
	assert.False(t, res.OK)
	assert.Empty(t, s.CommandHistory)
	assert.Len(t, s.Output, before)
}

func TestRun_Clear(t *testing.T) {
	g := newGame(t)
	s, err := g.New(1)
	require.NoError(t, err)

	res := g.Run(s, "clear")
	assert.True(t, res.OK)
	assert.Empty(t, s.Output)
	assert.Equal(t, []string{"clear"}, s.CommandHistory)
}

func TestRun_Hints(t *testing.T) {
	g := newGame(t)
	s, err := g.New(1)
	require.NoError(t, err)
	l := g.Level(s)

	for _, hint := range l.Hints {
		res := g.Run(s, "hint")
		assert.Equal(t, []string{hint}, res.Output)
	}
	res := g.Run(s, "hint")
	assert.Equal(t, []string{"No more hints for this level."}, res.Output)
	assert.Equal(t, len(l.Hints), s.HintIndex)
}

func TestRun_RepositoryFollowsInterpreter(t *testing.T) {
	g := newGame(t)
	s, err := g.New(1)
	require.NoError(t, err)

	res := g.Run(s, "git status")
	assert.False(t, res.OK)
	assert.False(t, s.Repo.Initialized)

	g.Run(s, "git init")
	assert.True(t, s.Repo.Initialized)
}

func TestLevelOne_Completes(t *testing.T) {
	g := newGame(t)
	s, err := g.New(1)
	require.NoError(t, err)
	l := g.Level(s)

	for _, cmd := range l.SuggestedCommands[:len(l.SuggestedCommands)-1] {
		res := g.Run(s, cmd)
		assert.False(t, res.LevelComplete, cmd)
	}
	res := g.Run(s, l.SuggestedCommands[len(l.SuggestedCommands)-1])
	require.True(t, res.LevelComplete)

	var system []string
	for _, line := range res.Lines {
		if line.Kind == LineSystem {
			system = append(system, line.Text)
		}
	}
	require.NotEmpty(t, system)
	assert.Equal(t, "Level complete: "+l.Title+".", system[0])
	assert.Contains(t, system, fmt.Sprintf("XP +%d", l.XPReward))
	assert.Equal(t, []int{1}, s.CompletedLevels)
	assert.True(t, s.IsUnlocked(2))

	// Completion fires once
	res = g.Run(s, "git status")
	assert.False(t, res.LevelComplete)
	assert.Equal(t, []int{1}, s.CompletedLevels)
}

func TestResetLevel(t *testing.T) {
	g := newGame(t)
	s, err := g.New(1)
	require.NoError(t, err)
	g.Run(s, "git init")
	g.Run(s, "hint")

	g.ResetLevel(s)
	assert.False(t, s.Repo.Initialized)
	assert.Empty(t, s.Actions)
	assert.Empty(t, s.CommandHistory)
	assert.Zero(t, s.HintIndex)
	assert.Equal(t, "Returning to "+g.Level(s).Title+".", s.Output[0].Text)
}

func TestSelectLevel(t *testing.T) {
	g := newGame(t)
	s, err := g.New(1)
	require.NoError(t, err)

	assert.ErrorIs(t, g.SelectLevel(s, 3), ErrLevelLocked)
	assert.ErrorIs(t, g.SelectLevel(s, 999), ErrUnknownLevel)

	s.UnlockedLevels = append(s.UnlockedLevels, 3)
	require.NoError(t, g.SelectLevel(s, 3))
	l := g.Level(s)
	assert.Equal(t, 3, l.ID)
	assert.Equal(t, "Entering "+l.Chapter+".", s.Output[0].Text)
	assert.Equal(t, "main", s.Repo.HeadRef)
}

func TestAdvanceLevel(t *testing.T) {
	g := newGame(t)
	s, err := g.New(1)
	require.NoError(t, err)

	assert.True(t, g.AdvanceLevel(s))
	assert.Equal(t, 2, s.LevelID)
	assert.True(t, s.IsUnlocked(2))

	last := g.Pack().Levels[len(g.Pack().Levels)-1]
	s.UnlockedLevels = append(s.UnlockedLevels, last.ID)
	require.NoError(t, g.SelectLevel(s, last.ID))
	assert.False(t, g.AdvanceLevel(s))
	assert.Equal(t, last.ID, s.LevelID)
}

func TestCreateAndUpdateFile(t *testing.T) {
	g := newGame(t)
	s, err := g.New(3)
	require.NoError(t, err)
	repo := s.Repo

	require.NoError(t, g.CreateFile(s, "  notes.md ", "draft"))
	content, ok := s.Repo.WorkingTree.Get("notes.md")
	assert.True(t, ok)
	assert.Equal(t, "draft", content)
	assert.False(t, repo.WorkingTree.Has("notes.md"), "previous repository must not change")
	assert.Contains(t, s.Actions, "worktree:create:notes.md")
	assert.Equal(t, "Created notes.md.", s.Output[len(s.Output)-1].Text)

	err = g.CreateFile(s, "notes.md", "again")
	assert.ErrorIs(t, err, ErrFileExists)
	assert.Equal(t, "File 'notes.md' already exists.", s.Output[len(s.Output)-1].Text)

	assert.ErrorIs(t, g.CreateFile(s, "  ", "x"), ErrEmptyName)
	assert.ErrorIs(t, g.UpdateFile(s, "missing.md", "x"), ErrFileNotFound)

	require.NoError(t, g.UpdateFile(s, "notes.md", "final"))
	content, _ = s.Repo.WorkingTree.Get("notes.md")
	assert.Equal(t, "final", content)
	assert.Contains(t, s.Actions, "worktree:update:notes.md")

	require.NoError(t, g.WriteFile(s, "extra.md", "x"))
	assert.Contains(t, s.Actions, "worktree:create:extra.md")
}

type fileEdit struct {
	name    string
	content string
}

// playEdits are the working tree edits a player makes before the suggested
// command at the given index.
var playEdits = map[int]map[int]fileEdit{
	2: {0: {"map.txt", "Refined currents and reefs."}},
	3: {2: {"logbook.md", "Canyon mapped."}},
	4: {1: {"beacon.txt", "Beacon lit."}},
	6: {1: {"map.txt", "Base currents and reefs. Mainline and feature adjustments."}},
}

func TestPlaythrough_AllLevels(t *testing.T) {
	g := newGame(t)
	s, err := g.New(0)
	require.NoError(t, err)

	for _, l := range g.Pack().Levels {
		require.Equal(t, l.ID, s.LevelID)

		completed := false
		for i, cmd := range l.SuggestedCommands {
			if edit, ok := playEdits[l.ID][i]; ok {
				require.NoError(t, g.WriteFile(s, edit.name, edit.content), "level %d", l.ID)
			}
			if cmd == "" {
				continue
			}
			res := g.Run(s, cmd)
			completed = completed || res.LevelComplete
		}

		require.True(t, completed, "level %d (%s) not completed; actions %v", l.ID, l.Title, s.Actions)
		assert.True(t, s.IsCompleted(l.ID))
		assert.Equal(t, -1, level.NextStepIndex(g.Progress(s)))

		if _, ok := g.Pack().Next(l.ID); ok {
			require.True(t, g.AdvanceLevel(s))
		}
	}

	assert.Len(t, s.CompletedLevels, len(g.Pack().Levels))
}

func TestChapterRecapOnLastLevel(t *testing.T) {
	g := newGame(t)
	s, err := g.New(0)
	require.NoError(t, err)

	// Level 2 closes the first chapter
	require.True(t, g.AdvanceLevel(s))
	require.NoError(t, g.WriteFile(s, "map.txt", "Refined."))
	var lines []Line
	for _, cmd := range g.Level(s).SuggestedCommands {
		if cmd != "" {
			lines = append(lines, g.Run(s, cmd).Lines...)
		}
	}
	got := texts(lines)
	for _, recap := range g.Pack().Recap(g.Level(s).Chapter) {
		assert.Contains(t, got, recap)
	}
}
