package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/milk9111/grapplefps/config"
	"github.com/milk9111/grapplefps/observability"
	"github.com/milk9111/grapplefps/prefabs"
)

func main() {
	configPath := flag.String("config", "", "path to a config file (yaml, toml or json)")
	levelName := flag.String("level", "", "level prefab to load, overrides sandbox.level")
	prefabsDir := flag.String("prefabs", "", "directory whose files override the embedded prefabs")
	debug := flag.Bool("debug", false, "enable debug drawing and logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *levelName != "" {
		cfg.Sandbox.Level = *levelName
	}
	if *prefabsDir != "" {
		cfg.Prefabs.Dir = *prefabsDir
	}
	if *debug {
		cfg.Sandbox.Debug = true
		cfg.Logging.Level = "debug"
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	prefabs.SetDir(cfg.Prefabs.Dir)

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Sandbox.Width, cfg.Sandbox.Height)
	ebiten.SetWindowTitle("grapplefps")

	game, err := NewGame(cfg, logger)
	if err != nil {
		logger.Fatal("starting sandbox", zap.Error(err))
	}
	defer func() {
		if err := game.Close(); err != nil {
			logger.Warn("closing sandbox", zap.Error(err))
		}
	}()

	if err := ebiten.RunGame(game); err != nil {
		logger.Error("sandbox exited", zap.Error(err))
	}
}
