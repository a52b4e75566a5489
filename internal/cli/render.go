package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/ahnaineh/GITGAME/internal/level"
	"github.com/ahnaineh/GITGAME/internal/session"
	"github.com/fatih/color"
)

var (
	promptColor  = color.New(color.FgCyan, color.Bold)
	systemColor  = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	successColor = color.New(color.FgGreen)
	dimColor     = color.New(color.Faint)
)

// renderLines prints transcript lines. Input lines are skipped because the
// terminal already shows what was typed.
func renderLines(w io.Writer, lines []session.Line, echoInput bool) {
	for _, line := range lines {
		switch line.Kind {
		case session.LineInput:
			if echoInput {
				promptColor.Fprint(w, "$ ")
				fmt.Fprintln(w, line.Text)
			}
		case session.LineSystem:
			systemColor.Fprintln(w, line.Text)
		default:
			renderOutput(w, line.Text)
		}
	}
}

func renderOutput(w io.Writer, text string) {
	switch {
	case strings.HasPrefix(text, "fatal:"),
		strings.HasPrefix(text, "error:"),
		strings.HasPrefix(text, "CONFLICT"),
		strings.HasPrefix(text, "rejected:"):
		errorColor.Fprintln(w, text)
	default:
		fmt.Fprintln(w, text)
	}
}

// renderProgress prints the step checklist of a level
func renderProgress(w io.Writer, l *level.Level, steps []level.StepProgress) {
	fmt.Fprintf(w, "Level %d: %s (%s)\n", l.ID, l.Title, l.Chapter)
	for _, step := range steps {
		switch {
		case step.Done:
			successColor.Fprintf(w, "  [x] %s\n", step.Text)
		case step.Locked:
			dimColor.Fprintf(w, "  [ ] %s\n", step.Text)
		default:
			fmt.Fprintf(w, "  [ ] %s\n", step.Text)
		}
	}
	fmt.Fprintf(w, "%d/%d steps complete\n", level.CountCompleted(steps), len(steps))
}
