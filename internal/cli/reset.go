package cli

import (
	"os"

	"github.com/ahnaineh/GITGAME/internal/session"
	"github.com/spf13/cobra"
)

var resetLevelCmd = &cobra.Command{
	Use:   "reset-level",
	Short: "Restart the current level from its starting repository",
	Run:   runResetLevel,
}

func runResetLevel(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	s, err := c.currentSession()
	if err != nil {
		exitError("%v", err)
	}

	s, err = c.Store.UpdateSession(s.ID, func(s *session.Session) error {
		c.Game.ResetLevel(s)
		return nil
	})
	if err != nil {
		exitError("%v", err)
	}

	renderLines(os.Stdout, s.Output, false)
}
