// Package cli implements the gitgame command-line interface.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/ahnaineh/GITGAME/internal/config"
	"github.com/ahnaineh/GITGAME/internal/session"
	"github.com/ahnaineh/GITGAME/internal/store"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// currentSessionKey names the kv entry holding the active session id
const currentSessionKey = "current_session"

var (
	flagHome    string
	flagSession string
	flagNoColor bool
)

// cmdContext holds common resources for CLI commands
type cmdContext struct {
	Config *config.Config
	Store  store.Store
	Game   *session.Game
	Logger *slog.Logger
}

// Close releases resources held by cmdContext
func (c *cmdContext) Close() {
	if c.Store != nil {
		c.Store.Close()
	}
}

// initContext loads config, the level pack and the session store
func initContext() *cmdContext {
	c, err := newContext()
	if err != nil {
		exitError("%v", err)
	}
	return c
}

func newContext() (*cmdContext, error) {
	var (
		cfg *config.Config
		err error
	)
	if flagHome != "" {
		cfg, err = config.LoadFrom(flagHome)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if flagNoColor || !cfg.Color {
		color.NoColor = true
	}

	logger := config.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	pack, err := cfg.Pack()
	if err != nil {
		return nil, err
	}

	st, err := cfg.OpenStore()
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	return &cmdContext{
		Config: cfg,
		Store:  st,
		Game:   session.NewGame(pack, logger),
		Logger: logger,
	}, nil
}

// currentSession returns the session named by --session, the last active
// one, or a fresh session at the first level.
func (c *cmdContext) currentSession() (*session.Session, error) {
	id := flagSession
	if id == "" {
		var err error
		if id, err = c.Store.GetValue(currentSessionKey); err != nil {
			return nil, err
		}
	}

	if id != "" {
		s, err := c.Store.GetSession(id)
		if err == nil {
			return s, nil
		}
		if flagSession != "" || !errors.Is(err, store.ErrSessionNotFound) {
			return nil, err
		}
	}
	return c.newSession(0)
}

// newSession starts and activates a session at levelID
func (c *cmdContext) newSession(levelID int) (*session.Session, error) {
	s, err := c.Game.New(levelID)
	if err != nil {
		return nil, err
	}
	if err := c.Store.SaveSession(s); err != nil {
		return nil, err
	}
	if err := c.Store.SetValue(currentSessionKey, s.ID); err != nil {
		return nil, err
	}
	return s, nil
}

var rootCmd = &cobra.Command{
	Use:   "gitgame",
	Short: "Learn git by playing",
	Long: `gitgame is a mission-based git trainer. Each level hands you a simulated
repository and a goal; type git commands to reach it. Nothing touches a
real repository.`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagHome, "home", "", "gitgame home directory (env: "+config.HomeEnv+")")
	pf.StringVar(&flagSession, "session", "", "Session id (default: last active session)")
	pf.BoolVar(&flagNoColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(levelCmd)
	rootCmd.AddCommand(resetLevelCmd)
	rootCmd.AddCommand(writeCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(serverCmd)
}

// exitError prints an error and exits
func exitError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

// shortID returns first 8 characters of an ID
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
