// Package shell interprets player command lines against a repository snapshot.
package shell

import (
	"slices"
	"strings"

	"github.com/ahnaineh/GITGAME/internal/core"
	"github.com/ahnaineh/GITGAME/internal/models"
)

// Envelope is the result of one interpreted line
type Envelope struct {
	OK         bool               `json:"ok"`
	Status     models.Status      `json:"status"`
	Output     []string           `json:"output"`
	Repository *models.Repository `json:"repository"`
	Actions    []string           `json:"actions"`
}

type handler func(repo *models.Repository, args []string) *models.Outcome

var subcommands = map[string]handler{
	"init":        func(repo *models.Repository, _ []string) *models.Outcome { return core.Init(repo) },
	"status":      func(repo *models.Repository, _ []string) *models.Outcome { return core.Status(repo) },
	"add":         runAdd,
	"commit":      runCommit,
	"branch":      runBranch,
	"switch":      switchVerb("-c", "-C"),
	"checkout":    switchVerb("-b", "-B"),
	"merge":       runMerge,
	"reset":       runReset,
	"cherry-pick": replayVerb(core.CherryPick),
	"revert":      replayVerb(core.Revert),
	"fetch":       func(repo *models.Repository, _ []string) *models.Outcome { return core.Fetch(repo) },
	"pull":        func(repo *models.Repository, _ []string) *models.Outcome { return core.Pull(repo) },
	"push":        func(repo *models.Repository, _ []string) *models.Outcome { return core.Push(repo) },
	"log":         runLog,
	"help":        runHelp,
	"--help":      runHelp,
}

// Execute interprets one command line. It never fails: unknown input yields an
// envelope with OK unset and the repository unchanged.
func Execute(line string, repo *models.Repository) *Envelope {
	tokens := Tokenize(line)
	if len(tokens) == 0 {
		return reply(repo, models.StatusRejected, nil)
	}

	command, args := tokens[0], tokens[1:]
	if command == "help" {
		return reply(repo, models.StatusApplied, HelpLines(), models.ActionHelp)
	}
	if command != "git" {
		return reply(repo, models.StatusRejected, []string{"bash: " + command + ": command not found"})
	}
	if len(args) == 0 {
		return reply(repo, models.StatusApplied, HelpLines(), models.ActionHelp)
	}

	run, ok := subcommands[args[0]]
	if !ok {
		return reply(repo, models.StatusRejected, []string{"git: '" + args[0] + "' is not a git command. See 'git --help'."})
	}

	out := run(repo, args[1:])
	return &Envelope{
		OK:         out.OK(),
		Status:     out.Status,
		Output:     out.Output,
		Repository: out.Repo,
		Actions:    out.Actions,
	}
}

func reply(repo *models.Repository, status models.Status, output []string, actions ...string) *Envelope {
	if output == nil {
		output = []string{}
	}
	if actions == nil {
		actions = []string{}
	}
	return &Envelope{
		OK:         status == models.StatusApplied || status == models.StatusNoop,
		Status:     status,
		Output:     output,
		Repository: repo.Clone(),
		Actions:    actions,
	}
}

// refuse builds an outcome for a malformed invocation caught before the engine runs
func refuse(repo *models.Repository, lines ...string) *models.Outcome {
	status := models.StatusRejected
	if strings.HasPrefix(lines[0], "fatal:") {
		status = models.StatusFatal
	}
	return &models.Outcome{Status: status, Repo: repo.Clone(), Output: lines, Actions: []string{}}
}

// firstOperand returns the first argument that is not a flag
func firstOperand(args []string) string {
	for _, a := range args {
		if !strings.HasPrefix(a, "-") {
			return a
		}
	}
	return ""
}

// flagValue returns the argument following the first of the given flags
func flagValue(args []string, flags ...string) (flag, value string, found bool) {
	for i, a := range args {
		if slices.Contains(flags, a) {
			if i+1 < len(args) {
				return a, args[i+1], true
			}
			return a, "", true
		}
	}
	return "", "", false
}

func runAdd(repo *models.Repository, args []string) *models.Outcome {
	if len(args) == 0 {
		return refuse(repo, "Nothing specified, nothing added.", "Maybe you wanted to say 'git add .'?")
	}
	return core.Add(repo, args)
}

func runCommit(repo *models.Repository, args []string) *models.Outcome {
	_, message, _ := flagValue(args, "-m", "--message")
	if message == "" {
		return refuse(repo, "Aborting commit due to empty commit message.")
	}
	return core.Commit(repo, message)
}

func runBranch(repo *models.Repository, args []string) *models.Outcome {
	if len(args) == 0 {
		return core.ListBranches(repo)
	}
	force := slices.Contains(args, "-f") || slices.Contains(args, "--force")
	return core.CreateBranch(repo, firstOperand(args), force)
}

// switchVerb handles "switch" and "checkout", which differ only in the
// create flags they accept. The upper-case flag forces.
func switchVerb(create, forceCreate string) handler {
	return func(repo *models.Repository, args []string) *models.Outcome {
		if flag, name, ok := flagValue(args, create, forceCreate); ok {
			return core.SwitchCreate(repo, name, flag == forceCreate)
		}
		if len(args) == 0 {
			return refuse(repo, "fatal: missing branch name; try "+create+" <name>")
		}
		return core.Switch(repo, args[0])
	}
}

func runMerge(repo *models.Repository, args []string) *models.Outcome {
	if slices.Contains(args, "--abort") {
		return core.MergeAbort(repo)
	}
	if len(args) == 0 {
		return refuse(repo, "fatal: no branch specified")
	}
	return core.Merge(repo, args[0])
}

func runReset(repo *models.Repository, args []string) *models.Outcome {
	target := firstOperand(args)
	if target == "" {
		return refuse(repo, "fatal: Need a revision to reset to.")
	}
	return core.Reset(repo, target, slices.Contains(args, "--hard"))
}

func replayVerb(op func(*models.Repository, string) *models.Outcome) handler {
	return func(repo *models.Repository, args []string) *models.Outcome {
		if len(args) == 0 {
			return refuse(repo, "fatal: no commit specified")
		}
		return op(repo, args[0])
	}
}

func runLog(repo *models.Repository, args []string) *models.Outcome {
	return core.Log(repo, slices.Contains(args, "--oneline"))
}

func runHelp(repo *models.Repository, args []string) *models.Outcome {
	out := &models.Outcome{Status: models.StatusApplied, Repo: repo.Clone(), Actions: []string{models.ActionHelp}}
	if len(args) == 0 {
		out.Output = HelpLines()
		return out
	}
	h, ok := LookupHelp(args[0])
	if !ok {
		return refuse(repo, "fatal: no help available for '"+args[0]+"'")
	}
	out.Output = h.Lines()
	return out
}
