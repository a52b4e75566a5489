package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ahnaineh/GITGAME/internal/session"
	"github.com/ahnaineh/GITGAME/internal/shell"
	"github.com/spf13/cobra"
)

var playLevel int

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play interactively",
	Long: `Start an interactive session. Type git commands at the prompt.

Besides git, the prompt understands:
  hint                   show the next hint
  clear                  clear the transcript
  ls                     list working tree files
  cat <file>             print a working tree file
  write <file> <text>    create or overwrite a working tree file
  progress               show the level checklist
  next                   go to the next level
  level <n>              jump to an unlocked level
  reset                  restart the current level
  exit                   leave the game`,
	Run: runPlay,
}

func init() {
	playCmd.Flags().IntVar(&playLevel, "level", 0, "Start a new session at this level")
}

func runPlay(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	var (
		s   *session.Session
		err error
	)
	if playLevel != 0 {
		s, err = c.newSession(playLevel)
	} else {
		s, err = c.currentSession()
	}
	if err != nil {
		exitError("%v", err)
	}

	renderLines(os.Stdout, s.Output, true)
	if err := playLoop(c, s.ID, os.Stdin, os.Stdout); err != nil {
		exitError("%v", err)
	}
}

// playLoop reads lines from in until EOF or exit, persisting the session
// after every line.
func playLoop(c *cmdContext, id string, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	branch := ""

	for {
		promptColor.Fprintf(out, "gitgame%s> ", branch)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "exit" || line == "quit" {
			return nil
		}

		s, err := c.Store.UpdateSession(id, func(s *session.Session) error {
			return playLine(c.Game, s, line, out)
		})
		if err != nil {
			return err
		}

		branch = ""
		if s.Repo.Initialized && s.Repo.HeadRef != "" {
			branch = " (" + s.Repo.HeadRef + ")"
		}
	}
}

// playLine handles one prompt line. Errors returned here abort the loop, so
// player mistakes are printed instead.
func playLine(g *session.Game, s *session.Session, line string, out io.Writer) error {
	args := shell.Tokenize(line)
	if len(args) == 0 {
		return nil
	}

	switch args[0] {
	case "ls":
		for _, path := range s.Repo.WorkingTree.Paths() {
			fmt.Fprintln(out, path)
		}
	case "cat":
		if len(args) < 2 {
			errorColor.Fprintln(out, "usage: cat <file>")
			return nil
		}
		content, ok := s.Repo.WorkingTree.Get(args[1])
		if !ok {
			errorColor.Fprintf(out, "cat: %s: No such file\n", args[1])
			return nil
		}
		fmt.Fprintln(out, content)
	case "write":
		if len(args) < 2 {
			errorColor.Fprintln(out, "usage: write <file> <text>")
			return nil
		}
		before := len(s.Output)
		existed := s.Repo.WorkingTree.Has(args[1])
		err := g.WriteFile(s, args[1], strings.Join(args[2:], " "))
		if err != nil && !isPlayerError(err) {
			return err
		}
		renderLines(out, s.Output[before:], false)
		if err != nil {
			errorColor.Fprintln(out, err)
		} else if existed {
			fmt.Fprintf(out, "Updated %s.\n", args[1])
		}
	case "progress":
		renderProgress(out, g.Level(s), g.Progress(s))
	case "next":
		if !g.AdvanceLevel(s) {
			systemColor.Fprintln(out, "This is the last level.")
			return nil
		}
		renderLines(out, s.Output, false)
	case "level":
		id := 0
		if len(args) > 1 {
			id, _ = strconv.Atoi(args[1])
		}
		if err := g.SelectLevel(s, id); err != nil {
			if !isPlayerError(err) {
				return err
			}
			errorColor.Fprintln(out, err)
			return nil
		}
		renderLines(out, s.Output, false)
	case "reset":
		g.ResetLevel(s)
		renderLines(out, s.Output, false)
	case "clear":
		g.Run(s, line)
		fmt.Fprint(out, "\033[H\033[2J")
	default:
		res := g.Run(s, line)
		renderLines(out, res.Lines, false)
		if res.LevelComplete {
			if _, ok := g.Pack().Next(s.LevelID); ok {
				systemColor.Fprintln(out, "Type next to continue.")
			}
		}
	}
	return nil
}

func isPlayerError(err error) bool {
	return errors.Is(err, session.ErrUnknownLevel) ||
		errors.Is(err, session.ErrLevelLocked) ||
		errors.Is(err, session.ErrFileExists) ||
		errors.Is(err, session.ErrFileNotFound) ||
		errors.Is(err, session.ErrEmptyName)
}
