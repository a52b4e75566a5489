// Command gitgame-server serves game sessions over HTTP.
package main

import (
	"bytes"
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/ahnaineh/GITGAME/internal/config"
	"github.com/ahnaineh/GITGAME/internal/level"
	"github.com/ahnaineh/GITGAME/internal/server"
	"github.com/ahnaineh/GITGAME/internal/session"
	"github.com/ahnaineh/GITGAME/internal/store"
)

func main() {
	listen := flag.String("listen", envOrDefault("GITGAME_LISTEN", "0.0.0.0:8730"), "Listen address")
	dataDir := flag.String("data-dir", envOrDefault("GITGAME_DATA_DIR", "/var/lib/gitgame-server"), "Data directory")
	driver := flag.String("store", envOrDefault("GITGAME_STORE", store.DriverBolt), "Session store (bolt, sqlite)")
	levelPack := flag.String("levels", os.Getenv("GITGAME_LEVELS"), "Level pack YAML file (default: embedded missions)")
	adminToken := flag.String("admin-token", os.Getenv("GITGAME_ADMIN_TOKEN"), "Admin API token")
	logLevel := flag.String("log-level", envOrDefault("GITGAME_LOG_LEVEL", "info"), "Log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", envOrDefault("GITGAME_LOG_FORMAT", "json"), "Log format (json, text)")
	webhookURLs := flag.String("webhook-urls", os.Getenv("GITGAME_WEBHOOK_URLS"), "Comma-separated webhook URLs to notify on level completion")
	flag.Parse()

	logger := config.NewLogger(os.Stdout, *logLevel, *logFormat)

	if err := os.MkdirAll(*dataDir, 0755); err != nil {
		logger.Error("failed to create data directory", "error", err, "path", *dataDir)
		os.Exit(1)
	}

	pack := level.DefaultPack()
	if *levelPack != "" {
		data, err := os.ReadFile(*levelPack)
		if err != nil {
			logger.Error("failed to read level pack", "error", err, "path", *levelPack)
			os.Exit(1)
		}
		if pack, err = level.LoadPack(bytes.NewReader(data)); err != nil {
			logger.Error("invalid level pack", "error", err, "path", *levelPack)
			os.Exit(1)
		}
	}

	st, err := store.Open(*driver, filepath.Join(*dataDir, "sessions.db"))
	if err != nil {
		logger.Error("failed to open session store", "error", err, "driver", *driver)
		os.Exit(1)
	}
	defer st.Close()

	cfg := server.DefaultConfig()
	cfg.AdminToken = *adminToken

	if *webhookURLs != "" {
		var trimmed []string
		for _, u := range strings.Split(*webhookURLs, ",") {
			if u = strings.TrimSpace(u); u != "" {
				trimmed = append(trimmed, u)
			}
		}
		if len(trimmed) > 0 {
			cfg.Webhooks = server.NewWebhookNotifier(&server.WebhookConfig{URLs: trimmed}, logger)
			logger.Info("webhooks configured", "count", len(trimmed))
		}
	}

	h, handlerCleanup := server.Handler(st, session.NewGame(pack, logger), cfg, logger)
	defer handlerCleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("gitgame-server configured", "data_dir", *dataDir, "store", *driver, "levels", len(pack.Levels))
	if err := server.Serve(ctx, server.NewHTTPServer(*listen, h), nil, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
