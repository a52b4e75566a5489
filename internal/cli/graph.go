package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ahnaineh/GITGAME/internal/core"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Show the commit graph of the current level",
	Run:   runGraph,
}

func runGraph(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	s, err := c.currentSession()
	if err != nil {
		exitError("%v", err)
	}
	renderGraph(os.Stdout, core.Graph(s.Repo))
}

func renderGraph(w io.Writer, view *core.GraphView) {
	if len(view.Nodes) == 0 {
		fmt.Fprintln(w, "No commits yet")
		return
	}

	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)
	red := color.New(color.FgRed)

	for _, n := range view.Nodes {
		marker := "*"
		if len(n.Parents) > 1 {
			marker = "M"
		}
		fmt.Fprintf(w, "%s ", marker)
		yellow.Fprint(w, n.ID)

		var refs []string
		if n.IsHead && view.HeadRef != "" {
			refs = append(refs, "HEAD -> "+view.HeadRef)
		} else if n.IsHead {
			refs = append(refs, "HEAD")
		}
		for _, b := range n.Branches {
			if !(n.IsHead && b == view.HeadRef) {
				refs = append(refs, b)
			}
		}
		if len(refs) > 0 {
			cyan.Fprintf(w, " (%s)", strings.Join(refs, ", "))
		}
		if len(n.RemoteBranches) > 0 {
			red.Fprintf(w, " (%s)", strings.Join(n.RemoteBranches, ", "))
		}
		fmt.Fprintf(w, " %s", n.Message)
		if len(n.Parents) > 0 {
			fmt.Fprintf(w, "  <- %s", strings.Join(n.Parents, ", "))
		}
		fmt.Fprintln(w)
	}
}
