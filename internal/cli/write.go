package cli

import (
	"io"
	"os"
	"strings"

	"github.com/ahnaineh/GITGAME/internal/session"
	"github.com/spf13/cobra"
)

var writeCmd = &cobra.Command{
	Use:   "write <file> [content]",
	Short: "Create or overwrite a file in the simulated working tree",
	Long: `Create or overwrite a file in the current level's working tree.
Without content arguments the content is read from stdin.

Examples:
  gitgame write logbook.md "Canyon mapped"
  echo "Beacon lit" | gitgame write beacon.txt`,
	Args: cobra.MinimumNArgs(1),
	Run:  runWrite,
}

func runWrite(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	content := strings.Join(args[1:], " ")
	if len(args) == 1 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			exitError("failed to read stdin: %v", err)
		}
		content = strings.TrimRight(string(data), "\n")
	}

	s, err := c.currentSession()
	if err != nil {
		exitError("%v", err)
	}

	before := len(s.Output)
	s, err = c.Store.UpdateSession(s.ID, func(s *session.Session) error {
		return c.Game.WriteFile(s, args[0], content)
	})
	if err != nil {
		exitError("%v", err)
	}

	if len(s.Output) > before {
		renderLines(os.Stdout, s.Output[before:], false)
	} else {
		successColor.Printf("Updated %s.\n", args[0])
	}
}
