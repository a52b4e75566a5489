// Package session drives a player's game: it feeds command lines to the
// interpreter, tracks actions and hints, and advances through the level pack.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/ahnaineh/GITGAME/internal/level"
	"github.com/ahnaineh/GITGAME/internal/models"
	"github.com/ahnaineh/GITGAME/internal/shell"
	"github.com/google/uuid"
)

var (
	ErrUnknownLevel = errors.New("unknown level")
	ErrLevelLocked  = errors.New("level is locked")
	ErrFileExists   = errors.New("file already exists")
	ErrFileNotFound = errors.New("file not found")
	ErrEmptyName    = errors.New("file name required")
)

// LineKind tags a transcript line
type LineKind string

const (
	LineInput  LineKind = "input"
	LineOutput LineKind = "output"
	LineSystem LineKind = "system"
)

// Line is one transcript entry
type Line struct {
	ID   int      `json:"id"`
	Kind LineKind `json:"kind"`
	Text string   `json:"text"`
}

// Session is the persisted state of one player
type Session struct {
	ID              string             `json:"id"`
	LevelID         int                `json:"level_id"`
	Repo            *models.Repository `json:"repository"`
	Actions         []string           `json:"actions"`
	CommandHistory  []string           `json:"command_history"`
	Output          []Line             `json:"output"`
	HintIndex       int                `json:"hint_index"`
	CompletedLevels []int              `json:"completed_levels"`
	UnlockedLevels  []int              `json:"unlocked_levels"`
	NextLineID      int                `json:"next_line_id"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// Snapshot returns the state level checks are evaluated against
func (s *Session) Snapshot() level.Snapshot {
	return level.Snapshot{Repo: s.Repo, Actions: s.Actions, CommandHistory: s.CommandHistory}
}

// IsCompleted reports whether the level was finished in this session
func (s *Session) IsCompleted(levelID int) bool {
	return slices.Contains(s.CompletedLevels, levelID)
}

// IsUnlocked reports whether the level may be selected
func (s *Session) IsUnlocked(levelID int) bool {
	return slices.Contains(s.UnlockedLevels, levelID)
}

func (s *Session) appendLine(kind LineKind, text string) Line {
	s.NextLineID++
	line := Line{ID: s.NextLineID, Kind: kind, Text: text}
	s.Output = append(s.Output, line)
	return line
}

// recordActions adds tags keeping first-seen order without duplicates
func (s *Session) recordActions(tags []string) {
	for _, tag := range tags {
		if !slices.Contains(s.Actions, tag) {
			s.Actions = append(s.Actions, tag)
		}
	}
}

// Result describes what one command did to a session
type Result struct {
	OK            bool                 `json:"ok"`
	Output        []string             `json:"output"`
	Actions       []string             `json:"actions"`
	Lines         []Line               `json:"lines"`
	Progress      []level.StepProgress `json:"progress"`
	LevelComplete bool                 `json:"level_complete"`
}

// Game applies player input to sessions using a level pack
type Game struct {
	pack   *level.Pack
	logger *slog.Logger
	now    func() time.Time
}

// NewGame creates a game over pack. A nil logger discards.
func NewGame(pack *level.Pack, logger *slog.Logger) *Game {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Game{pack: pack, logger: logger, now: time.Now}
}

// Pack returns the level pack
func (g *Game) Pack() *level.Pack {
	return g.pack
}

// New starts a session at levelID, or at the first level when levelID is 0
func (g *Game) New(levelID int) (*Session, error) {
	l := g.pack.First()
	if levelID != 0 {
		var ok bool
		if l, ok = g.pack.Get(levelID); !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownLevel, levelID)
		}
	}

	now := g.now()
	s := &Session{
		ID:              uuid.NewString(),
		CompletedLevels: []int{},
		UnlockedLevels:  []int{l.ID},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	g.enterLevel(s, l, "")

	g.logger.Info("session started", "session", s.ID, "level", l.ID)
	return s, nil
}

// Level returns the session's current level
func (g *Game) Level(s *Session) *level.Level {
	if l, ok := g.pack.Get(s.LevelID); ok {
		return l
	}
	return g.pack.First()
}

// Progress evaluates the current level's steps
func (g *Game) Progress(s *Session) []level.StepProgress {
	return level.EvaluateSteps(g.Level(s), s.Snapshot())
}

// Run applies one input line. "clear" empties the transcript and "hint"
// reveals the next hint; everything else goes to the interpreter.
func (g *Game) Run(s *Session, input string) *Result {
	line := strings.TrimSpace(input)
	if line == "" {
		return &Result{Output: []string{}, Actions: []string{}, Progress: g.Progress(s)}
	}
	defer g.touch(s)

	l := g.Level(s)
	s.CommandHistory = append(s.CommandHistory, line)

	if line == "clear" {
		s.Output = []Line{}
		return &Result{OK: true, Output: []string{}, Actions: []string{}, Progress: g.Progress(s)}
	}

	res := &Result{Actions: []string{}}
	res.Lines = append(res.Lines, s.appendLine(LineInput, line))

	if line == "hint" {
		res.OK = true
		if s.HintIndex >= len(l.Hints) {
			res.Output = []string{"No more hints for this level."}
		} else {
			res.Output = []string{l.Hints[s.HintIndex]}
			s.HintIndex++
		}
	} else {
		env := shell.Execute(line, s.Repo)
		s.Repo = env.Repository
		s.recordActions(env.Actions)
		res.OK = env.OK
		res.Output = env.Output
		res.Actions = env.Actions
	}

	for _, text := range res.Output {
		res.Lines = append(res.Lines, s.appendLine(LineOutput, text))
	}

	if !s.IsCompleted(l.ID) && level.Complete(l, s.Snapshot()) {
		res.LevelComplete = true
		res.Lines = append(res.Lines, g.completeLevel(s, l)...)
	}
	res.Progress = g.Progress(s)

	g.logger.Debug("command", "session", s.ID, "level", l.ID, "line", line, "ok", res.OK)
	return res
}

func (g *Game) completeLevel(s *Session, l *level.Level) []Line {
	s.CompletedLevels = append(s.CompletedLevels, l.ID)
	if next, ok := g.pack.Next(l.ID); ok && !s.IsUnlocked(next.ID) {
		s.UnlockedLevels = append(s.UnlockedLevels, next.ID)
	}

	lines := []Line{s.appendLine(LineSystem, "Level complete: "+l.Title+".")}
	for _, text := range l.Completion {
		lines = append(lines, s.appendLine(LineSystem, text))
	}
	lines = append(lines, s.appendLine(LineSystem, fmt.Sprintf("XP +%d", l.XPReward)))
	if g.pack.LastInChapter(l.ID) {
		for _, text := range g.pack.Recap(l.Chapter) {
			lines = append(lines, s.appendLine(LineSystem, text))
		}
	}

	g.logger.Info("level complete", "session", s.ID, "level", l.ID)
	return lines
}

// ResetLevel restarts the current level from its initial repository
func (g *Game) ResetLevel(s *Session) {
	l := g.Level(s)
	g.enterLevel(s, l, "Returning to "+l.Title+".")
	g.touch(s)
}

// SelectLevel jumps to an unlocked level
func (g *Game) SelectLevel(s *Session, levelID int) error {
	l, ok := g.pack.Get(levelID)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownLevel, levelID)
	}
	if !s.IsUnlocked(levelID) {
		return fmt.Errorf("%w: %d", ErrLevelLocked, levelID)
	}
	g.enterLevel(s, l, "Entering "+l.Chapter+".")
	g.touch(s)
	return nil
}

// AdvanceLevel moves to the next level, unlocking it. It returns false on the
// last level.
func (g *Game) AdvanceLevel(s *Session) bool {
	next, ok := g.pack.Next(s.LevelID)
	if !ok {
		return false
	}
	if !s.IsUnlocked(next.ID) {
		s.UnlockedLevels = append(s.UnlockedLevels, next.ID)
	}
	g.enterLevel(s, next, "Entering "+next.Chapter+".")
	g.touch(s)
	return true
}

// CreateFile adds a new file to the working tree
func (g *Game) CreateFile(s *Session, name, content string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if s.Repo.WorkingTree.Has(name) {
		s.appendLine(LineSystem, "File '"+name+"' already exists.")
		return fmt.Errorf("%w: %s", ErrFileExists, name)
	}

	s.Repo = s.Repo.Clone()
	s.Repo.WorkingTree[name] = content
	s.appendLine(LineSystem, "Created "+name+".")
	s.recordActions([]string{"worktree:create:" + name})
	g.touch(s)
	return nil
}

// UpdateFile replaces the content of an existing working tree file
func (g *Game) UpdateFile(s *Session, name, content string) error {
	if !s.Repo.WorkingTree.Has(name) {
		return fmt.Errorf("%w: %s", ErrFileNotFound, name)
	}

	s.Repo = s.Repo.Clone()
	s.Repo.WorkingTree[name] = content
	s.recordActions([]string{"worktree:update:" + name})
	g.touch(s)
	return nil
}

// WriteFile creates the file or updates it when present
func (g *Game) WriteFile(s *Session, name, content string) error {
	if s.Repo.WorkingTree.Has(name) {
		return g.UpdateFile(s, name, content)
	}
	return g.CreateFile(s, name, content)
}

func (g *Game) enterLevel(s *Session, l *level.Level, header string) {
	s.LevelID = l.ID
	s.Repo = l.NewRepository()
	s.CommandHistory = []string{}
	s.Actions = []string{}
	s.HintIndex = 0
	s.Output = []Line{}
	s.NextLineID = 0

	if header != "" {
		s.appendLine(LineSystem, header)
	}
	s.appendLine(LineSystem, "Mission: "+l.Title+".")
	for i, text := range l.Story {
		if i == 2 {
			break
		}
		s.appendLine(LineSystem, text)
	}
	s.appendLine(LineSystem, "Type help for commands or hint for guidance.")
}

func (g *Game) touch(s *Session) {
	s.UpdatedAt = g.now()
}
