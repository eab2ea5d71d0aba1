// Command farmsim runs the farming-and-trading simulation headless:
// the session ticks in real time, autosaves to SQLite, and serves its
// state to renderers over the HTTP API.
package main

import (
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/acreage/internal/api"
	"github.com/talgya/acreage/internal/config"
	"github.com/talgya/acreage/internal/engine"
	"github.com/talgya/acreage/internal/persistence"
	"github.com/talgya/acreage/internal/session"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfgPath := os.Getenv("ACREAGE_CONFIG")
	savePath := envOr("ACREAGE_SAVE", "data/savegame.db")
	apiPort := envInt("ACREAGE_PORT", 8080)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("failed to load config", "path", cfgPath, "error", err)
		os.Exit(1)
	}

	// ── Save store ────────────────────────────────────────────────────
	os.MkdirAll("data", 0755)
	store, err := persistence.Open(savePath)
	if err != nil {
		slog.Error("failed to open save store", "path", savePath, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("save store opened", "path", savePath)

	// ── Session: restore or fresh ─────────────────────────────────────
	sess := session.New(cfg, time.Now().UnixNano())
	snap, found, err := store.LoadSnapshot()
	if err != nil {
		slog.Error("failed to read save", "error", err)
		os.Exit(1)
	}
	if found {
		sess.Restore(snap)
		slog.Info("session restored",
			"money", humanize.CommafWithDigits(sess.Money, 0),
			"game_time", sess.GameTime,
			"workers", len(sess.Workers),
			"silos", sess.Field.NumSilos,
			"game_over", sess.GameOver,
		)
	} else {
		slog.Info("no save found, starting fresh",
			"money", humanize.CommafWithDigits(sess.Money, 0),
			"duration", cfg.Duration,
		)
	}

	// ── Loop and API ──────────────────────────────────────────────────
	loop := engine.NewLoop(sess, store)

	apiServer := &api.Server{Loop: loop, Port: apiPort}
	apiServer.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		loop.Stop()
	}()

	loop.Run()

	// Final save on shutdown.
	if err := loop.SaveNow(); err != nil {
		slog.Error("final save failed", "error", err)
	}
	slog.Info("shut down", "final_money", humanize.CommafWithDigits(sess.Money, 0))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
