package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current level and its checklist",
	Run:   runStatus,
}

func runStatus(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	s, err := c.currentSession()
	if err != nil {
		exitError("%v", err)
	}

	fmt.Printf("Session %s\n", shortID(s.ID))
	fmt.Printf("Completed levels: %d/%d\n\n", len(s.CompletedLevels), len(c.Game.Pack().Levels))
	renderProgress(os.Stdout, c.Game.Level(s), c.Game.Progress(s))

	if n := len(s.CommandHistory); n > 0 {
		dimColor.Printf("\nLast command: %s\n", s.CommandHistory[n-1])
	}
}
