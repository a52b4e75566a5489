package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List saved sessions",
	Run:   runSessions,
}

var sessionsNewLevel int

var sessionsNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Start a new session and make it current",
	Run:   runSessionsNew,
}

var sessionsUseCmd = &cobra.Command{
	Use:   "use <id>",
	Short: "Make a saved session current",
	Args:  cobra.ExactArgs(1),
	Run:   runSessionsUse,
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved session",
	Args:  cobra.ExactArgs(1),
	Run:   runSessionsDelete,
}

func init() {
	sessionsNewCmd.Flags().IntVar(&sessionsNewLevel, "level", 0, "Starting level")
	sessionsCmd.AddCommand(sessionsNewCmd, sessionsUseCmd, sessionsDeleteCmd)
}

func runSessions(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	list, err := c.Store.ListSessions()
	if err != nil {
		exitError("failed to list sessions: %v", err)
	}
	if len(list) == 0 {
		fmt.Println("No sessions yet. Run 'gitgame play' to start.")
		return
	}

	current, _ := c.Store.GetValue(currentSessionKey)
	for _, s := range list {
		marker := "  "
		if s.ID == current {
			marker = "* "
		}
		title := "?"
		if l, ok := c.Game.Pack().Get(s.LevelID); ok {
			title = l.Title
		}
		fmt.Printf("%s%s  level %2d %-24s %s\n", marker, s.ID, s.LevelID, title, s.UpdatedAt.Format("2006-01-02 15:04"))
	}
}

func runSessionsNew(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	s, err := c.newSession(sessionsNewLevel)
	if err != nil {
		exitError("%v", err)
	}
	fmt.Printf("Started session %s at level %d\n", s.ID, s.LevelID)
}

func runSessionsUse(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	if _, err := c.Store.GetSession(args[0]); err != nil {
		exitError("%v", err)
	}
	if err := c.Store.SetValue(currentSessionKey, args[0]); err != nil {
		exitError("%v", err)
	}
	fmt.Printf("Switched to session %s\n", shortID(args[0]))
}

func runSessionsDelete(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	if err := c.Store.DeleteSession(args[0]); err != nil {
		exitError("%v", err)
	}
	if current, _ := c.Store.GetValue(currentSessionKey); current == args[0] {
		c.Store.SetValue(currentSessionKey, "")
	}
	fmt.Printf("Deleted session %s\n", shortID(args[0]))
}
