package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/milk9111/dungeoncrawler/config"
	"github.com/milk9111/dungeoncrawler/prefabs"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := flag.String("config", "sim.yaml", "simulator config file")
	level := flag.Int("level", -1, "catalog index to start on (overrides config)")
	ticks := flag.Int("ticks", -1, "tick cap, 0 for none (overrides config)")
	watch := flag.Bool("watch", false, "hot reload tuning, loot scripts and the level catalog")
	realtime := flag.Bool("realtime", false, "pace ticks against the wall clock")
	manual := flag.Bool("manual", false, "disable the autopilot")
	logLevel := flag.String("log", "", "log level: debug, info, warn, error (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *level >= 0 {
		cfg.StartLevel = *level
	}
	if *ticks >= 0 {
		cfg.MaxTicks = *ticks
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	cfg.Watch = cfg.Watch || *watch
	cfg.Realtime = cfg.Realtime || *realtime
	if *manual {
		cfg.Autopilot.Enabled = false
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Level(),
	})))

	game, err := NewGame(cfg)
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}
	slog.Info("simulation starting",
		"start_level", cfg.StartLevel,
		"tick_rate", cfg.TickRate,
		"max_ticks", cfg.MaxTicks,
		"autopilot", cfg.Autopilot.Enabled,
		"watch", cfg.Watch)

	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	g, gctx := errgroup.WithContext(runCtx)

	var reloads <-chan prefabs.Change
	if cfg.Watch {
		watcher, err := prefabs.NewWatcher(cfg.WatchDirs...)
		if err != nil {
			return fmt.Errorf("starting watcher: %w", err)
		}
		defer watcher.Close()
		if cfg.WatchDebounce > 0 {
			watcher.Debounce = cfg.WatchDebounce
		}
		reloads = watcher.Changes()

		g.Go(func() error {
			if err := watcher.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("watcher: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			for err := range watcher.Errors() {
				slog.Warn("watcher error", "err", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		defer stop()
		if err := game.Run(gctx, reloads); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("game loop: %w", err)
		}
		return nil
	})

	return g.Wait()
}
