package cli

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ahnaineh/GITGAME/internal/config"
	"github.com/ahnaineh/GITGAME/internal/server"
	"github.com/ahnaineh/GITGAME/internal/session"
	"github.com/spf13/cobra"
)

var (
	serverListen      string
	serverLogLevel    string
	serverLogFormat   string
	serverWebhookURLs string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Serve the game over HTTP",
	Long: `Serve sessions over a JSON HTTP API.

The admin token is read from the GITGAME_ADMIN_TOKEN environment variable and
enables the /admin/ endpoints for listing and deleting sessions.

Examples:
  gitgame server
  gitgame server --listen 0.0.0.0:8730 --log-format json`,
	Run: runServer,
}

func init() {
	f := serverCmd.Flags()
	f.StringVar(&serverListen, "listen", os.Getenv("GITGAME_LISTEN"), "Listen address (host:port, default from config)")
	f.StringVar(&serverLogLevel, "log-level", envOrDefault("GITGAME_LOG_LEVEL", "info"), "Log level (debug|info|warn|error)")
	f.StringVar(&serverLogFormat, "log-format", envOrDefault("GITGAME_LOG_FORMAT", "json"), "Log format (json|text)")
	f.StringVar(&serverWebhookURLs, "webhook-urls", os.Getenv("GITGAME_WEBHOOK_URLS"), "Comma-separated webhook URLs to notify on level completion")
}

func runServer(_ *cobra.Command, _ []string) {
	c := initContext()
	defer c.Close()

	logger := config.NewLogger(os.Stdout, serverLogLevel, serverLogFormat)
	game := session.NewGame(c.Game.Pack(), logger)

	listen := serverListen
	if listen == "" {
		listen = c.Config.Listen
	}

	cfg := server.DefaultConfig()
	cfg.AdminToken = os.Getenv("GITGAME_ADMIN_TOKEN")
	if urls := splitList(serverWebhookURLs); len(urls) > 0 {
		cfg.Webhooks = server.NewWebhookNotifier(&server.WebhookConfig{URLs: urls}, logger)
		logger.Info("webhooks configured", "count", len(urls))
	}

	h, handlerCleanup := server.Handler(c.Store, game, cfg, logger)
	defer handlerCleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Serve(ctx, server.NewHTTPServer(listen, h), nil, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// splitList splits a comma-separated flag value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// envOrDefault returns the value of the environment variable key, or defaultVal if unset.
func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
