// Command sandbox drops batches of debris meshes onto a walled floor.
// Press space to spawn, backspace to clear, escape to quit.
package main

import (
	"flag"
	"os"
	"time"

	"debris-sandbox/assets"
	"debris-sandbox/config"
	"debris-sandbox/input"
	"debris-sandbox/internal/app"
	"debris-sandbox/internal/logx"
	"debris-sandbox/physics"
)

func main() {
	var (
		configPath = flag.String("config", config.DefaultPath, "YAML or TOML settings file")
		headless   = flag.Bool("headless", false, "run without a window")
		ticks      = flag.Int("ticks", 600, "ticks to simulate in headless mode")
		spawnEvery = flag.Int("spawn-every", 120, "headless: press spawn every N ticks (0 = never)")
		wait       = flag.Duration("wait-assets", 30*time.Second, "headless: wait this long for assets before ticking (0 = don't wait)")
		snapshot   = flag.String("snapshot", "", "headless: write the final world state as JSON to this file")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	logger := logx.New(os.Stderr, cfg.Log.Level)
	if err != nil {
		logger.Error("load config", "err", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "path", *configPath, "err", err)
		os.Exit(1)
	}

	loader := assets.FileLoader{Dir: cfg.Assets.Dir}
	if *headless {
		keys := input.Virtual{}
		s, err := app.New(cfg, logger, loader, keys)
		if err != nil {
			logger.Error("startup failed", "err", err)
			os.Exit(1)
		}
		err = s.RunHeadless(keys, *ticks, *spawnEvery, *wait)
		s.LogSummary()
		if err == nil && *snapshot != "" {
			err = physics.SaveSnapshot(*snapshot, s.World().Snapshot())
		}
		s.Close()
		if err != nil {
			logger.Error("headless run", "err", err)
			os.Exit(1)
		}
		return
	}

	if err := runWindowed(cfg, logger, loader); err != nil {
		logger.Error("sandbox", "err", err)
		os.Exit(1)
	}
}
