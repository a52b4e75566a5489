// Command gitgame is the terminal client of the git trainer.
package main

import (
	"os"

	"github.com/ahnaineh/GITGAME/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
