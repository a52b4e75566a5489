package shell

// CommandHelp describes one git subcommand for players
type CommandHelp struct {
	Name        string `json:"name" yaml:"name"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Example     string `json:"example,omitempty" yaml:"example,omitempty"`
}

var commandHelp = map[string]CommandHelp{
	"init":        {"init", "Initialize a repository", "Creates a new git repository and starts tracking history.", "git init"},
	"status":      {"status", "Check working tree status", "Shows staged, modified, and untracked files.", "git status"},
	"add":         {"add", "Stage changes", "Moves file content into the index so it will be committed.", "git add map.txt"},
	"commit":      {"commit", "Record a snapshot", "Creates a new commit from what is staged in the index.", `git commit -m "Message"`},
	"branch":      {"branch", "Manage branches", "Creates a new branch pointer or lists branches.", "git branch feature"},
	"switch":      {"switch", "Switch branches", "Moves HEAD to another branch.", "git switch feature"},
	"checkout":    {"checkout", "Checkout branches", "Moves HEAD to another branch (legacy form).", "git checkout feature"},
	"merge":       {"merge", "Merge histories", "Combines another branch into the current branch.", "git merge feature"},
	"reset":       {"reset", "Move HEAD and branch", "Resets the current branch to a specific commit.", "git reset --hard c002"},
	"cherry-pick": {"cherry-pick", "Copy a commit", "Applies one commit from elsewhere onto the current branch.", "git cherry-pick c003"},
	"revert":      {"revert", "Undo with a new commit", "Creates a new commit that reverses a prior commit.", "git revert c003"},
	"log":         {"log", "View history", "Lists commits with their ids and messages.", "git log"},
	"fetch":       {"fetch", "Fetch from origin", "Downloads remote commits and updates origin/* tracking.", "git fetch"},
	"pull":        {"pull", "Fetch + integrate", "Downloads from origin and fast-forwards local branches when possible.", "git pull"},
	"push":        {"push", "Send commits", "Uploads local commits to origin.", "git push"},
}

// LookupHelp returns the help entry for a subcommand
func LookupHelp(name string) (CommandHelp, bool) {
	h, ok := commandHelp[name]
	return h, ok
}

// Lines renders the entry for the transcript
func (h CommandHelp) Lines() []string {
	lines := []string{"git " + h.Name + ": " + h.Title, "    " + h.Description}
	if h.Example != "" {
		lines = append(lines, "    example: "+h.Example)
	}
	return lines
}

// HelpLines returns the general usage text
func HelpLines() []string {
	return []string{
		"usage: git [--version] [--help] [-C <path>] [-c <name>=<value>]",
		"   or: git <command> [<args>]",
		"",
		"These are common Git commands used in various situations:",
		"   init         Create an empty Git repository",
		"   status       Show the working tree status",
		"   add          Add file contents to the index",
		"   commit       Record changes to the repository",
		"   branch       List, create, or delete branches",
		"   switch       Switch branches",
		"   checkout     Switch branches or restore files",
		"   merge        Join two or more development histories together",
		"   reset        Reset current HEAD to a specified state",
		"   cherry-pick  Apply the changes introduced by some existing commits",
		"   revert       Revert some existing commits",
		"   log          Show commit logs",
		"   fetch        Download objects and refs from another repository",
		"   pull         Fetch from and integrate with another repository",
		"   push         Update remote refs along with associated objects",
		"",
		"See 'git help <command>' to read about a specific subcommand.",
	}
}
