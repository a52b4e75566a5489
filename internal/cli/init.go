package cli

import (
	"fmt"

	"github.com/ahnaineh/GITGAME/internal/config"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the gitgame home directory and configuration",
	Run:   runInit,
}

func runInit(cmd *cobra.Command, args []string) {
	dir := flagHome
	if dir == "" {
		var err error
		if dir, err = config.Home(); err != nil {
			exitError("%v", err)
		}
	}

	cfg, err := config.Initialize(dir)
	if err != nil {
		exitError("%v", err)
	}

	fmt.Printf("Initialized gitgame in %s\n", cfg.Path())
	fmt.Printf("Sessions are stored in %s\n", cfg.DatabasePath())
}
