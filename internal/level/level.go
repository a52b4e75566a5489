// Package level defines missions: a starting repository plus ordered steps
// whose declarative checks are evaluated after every command.
package level

import (
	"slices"

	"github.com/ahnaineh/GITGAME/internal/models"
)

// Level is one mission of the game
type Level struct {
	ID                int               `json:"id" yaml:"id"`
	Title             string            `json:"title" yaml:"title"`
	Chapter           string            `json:"chapter" yaml:"chapter"`
	Story             []string          `json:"story" yaml:"story"`
	Completion        []string          `json:"completion" yaml:"completion"`
	Steps             []Step            `json:"steps" yaml:"steps"`
	Hints             []string          `json:"hints" yaml:"hints"`
	SuggestedCommands []string          `json:"suggested_commands" yaml:"suggested_commands"`
	ReferenceCommands []string          `json:"reference_commands" yaml:"reference_commands"`
	XPReward          int               `json:"xp_reward" yaml:"xp_reward"`
	InitialRepo       models.Repository `json:"initial_repo" yaml:"initial_repo"`
}

// Step is one objective within a level
type Step struct {
	ID      string `json:"id" yaml:"id"`
	Text    string `json:"text" yaml:"text"`
	Success string `json:"success,omitempty" yaml:"success,omitempty"`
	Check   Check  `json:"check" yaml:"check"`
}

// Check is a conjunction of conditions over a snapshot. Unset fields are ignored.
type Check struct {
	Action            string `json:"action,omitempty" yaml:"action,omitempty"`                           // tag recorded this level
	HeadRef           string `json:"head_ref,omitempty" yaml:"head_ref,omitempty"`                       // checked-out branch
	Head              string `json:"head,omitempty" yaml:"head,omitempty"`                               // HEAD commit id
	BranchExists      string `json:"branch_exists,omitempty" yaml:"branch_exists,omitempty"`             // local branch present
	WorkingFile       string `json:"working_file,omitempty" yaml:"working_file,omitempty"`               // path present in the working tree
	ConflictCleared   string `json:"conflict_cleared,omitempty" yaml:"conflict_cleared,omitempty"`       // path not conflicted
	RemoteMatchesHead string `json:"remote_matches_head,omitempty" yaml:"remote_matches_head,omitempty"` // origin/<branch> equals HEAD
}

// Snapshot is the state a check is evaluated against
type Snapshot struct {
	Repo           *models.Repository
	Actions        []string
	CommandHistory []string
}

// IsEmpty returns true if the check has no conditions
func (c Check) IsEmpty() bool {
	return c == Check{}
}

// Holds reports whether every set condition is satisfied. An empty check
// never holds.
func (c Check) Holds(s Snapshot) bool {
	if c.IsEmpty() || s.Repo == nil {
		return false
	}
	repo := s.Repo

	if c.Action != "" && !slices.Contains(s.Actions, c.Action) {
		return false
	}
	if c.HeadRef != "" && repo.HeadRef != c.HeadRef {
		return false
	}
	if c.Head != "" && repo.Head != c.Head {
		return false
	}
	if c.BranchExists != "" && !repo.HasBranch(c.BranchExists) {
		return false
	}
	if c.WorkingFile != "" && !repo.WorkingTree.Has(c.WorkingFile) {
		return false
	}
	if c.ConflictCleared != "" {
		if _, conflicted := repo.Conflicts[c.ConflictCleared]; conflicted {
			return false
		}
	}
	if c.RemoteMatchesHead != "" && repo.Remote.Branches[c.RemoteMatchesHead] != repo.Head {
		return false
	}
	return true
}

// NewRepository returns a fresh copy of the level's starting repository
func (l *Level) NewRepository() *models.Repository {
	repo := l.InitialRepo.Clone()
	repo.Normalize()
	return repo
}

// StepProgress is the evaluated state of one step
type StepProgress struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Success string `json:"success,omitempty"`
	Done    bool   `json:"done"`
	Locked  bool   `json:"locked"`
}

// EvaluateSteps checks steps in order. A step only counts once every step
// before it is done; later steps are reported locked.
func EvaluateSteps(l *Level, s Snapshot) []StepProgress {
	progress := make([]StepProgress, 0, len(l.Steps))
	unlocked := true

	for _, step := range l.Steps {
		done := unlocked && step.Check.Holds(s)
		progress = append(progress, StepProgress{
			ID:      step.ID,
			Text:    step.Text,
			Success: step.Success,
			Done:    done,
			Locked:  !unlocked,
		})
		if !done {
			unlocked = false
		}
	}

	return progress
}

// CountCompleted returns the number of finished steps
func CountCompleted(steps []StepProgress) int {
	n := 0
	for _, s := range steps {
		if s.Done {
			n++
		}
	}
	return n
}

// NextStepIndex returns the first unfinished step, or -1
func NextStepIndex(steps []StepProgress) int {
	for i, s := range steps {
		if !s.Done {
			return i
		}
	}
	return -1
}

// Complete reports whether every step of the level holds
func Complete(l *Level, s Snapshot) bool {
	steps := EvaluateSteps(l, s)
	return len(steps) > 0 && CountCompleted(steps) == len(steps)
}
