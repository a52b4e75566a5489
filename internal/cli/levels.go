package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/ahnaineh/GITGAME/internal/session"
	"github.com/spf13/cobra"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List levels and your progress",
	Run:   runLevels,
}

var levelCmd = &cobra.Command{
	Use:   "level <id|next>",
	Short: "Switch the current session to another level",
	Long: `Switch to an unlocked level, or to the next one.

Examples:
  gitgame level next
  gitgame level 3`,
	Args: cobra.ExactArgs(1),
	Run:  runLevel,
}

func runLevels(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	s, err := c.currentSession()
	if err != nil {
		exitError("%v", err)
	}

	chapter := ""
	for _, l := range c.Game.Pack().Levels {
		if l.Chapter != chapter {
			chapter = l.Chapter
			fmt.Println()
			systemColor.Println(chapter)
		}

		marker := "  "
		if l.ID == s.LevelID {
			marker = "> "
		}
		line := fmt.Sprintf("%s%2d  %-24s %3d XP", marker, l.ID, l.Title, l.XPReward)
		switch {
		case s.IsCompleted(l.ID):
			successColor.Println(line + "  done")
		case s.IsUnlocked(l.ID):
			fmt.Println(line)
		default:
			dimColor.Println(line + "  locked")
		}
	}
}

func runLevel(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	s, err := c.currentSession()
	if err != nil {
		exitError("%v", err)
	}

	s, err = c.Store.UpdateSession(s.ID, func(s *session.Session) error {
		if args[0] == "next" {
			if !c.Game.AdvanceLevel(s) {
				return fmt.Errorf("already at the last level")
			}
			return nil
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid level %q", args[0])
		}
		return c.Game.SelectLevel(s, id)
	})
	if err != nil {
		exitError("%v", err)
	}

	renderLines(os.Stdout, s.Output, false)
}
