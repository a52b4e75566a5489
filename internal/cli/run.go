package cli

import (
	"os"
	"strings"

	"github.com/ahnaineh/GITGAME/internal/session"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <command line>",
	Short: "Run one command in the current session",
	Long: `Run a single game command against the current session and print the result.

Examples:
  gitgame run git status
  gitgame run 'git commit -m "Anchor the island"'
  gitgame run hint`,
	Args: cobra.MinimumNArgs(1),
	Run:  runRun,
}

func runRun(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	s, err := c.currentSession()
	if err != nil {
		exitError("%v", err)
	}

	line := strings.Join(args, " ")
	var res *session.Result
	s, err = c.Store.UpdateSession(s.ID, func(s *session.Session) error {
		res = c.Game.Run(s, line)
		return nil
	})
	if err != nil {
		exitError("%v", err)
	}

	renderLines(os.Stdout, res.Lines, false)
	if res.LevelComplete {
		if _, ok := c.Game.Pack().Next(s.LevelID); ok {
			systemColor.Println("Run 'gitgame level next' to continue.")
		}
	}
	if !res.OK && line != "hint" && line != "clear" {
		os.Exit(1)
	}
}
