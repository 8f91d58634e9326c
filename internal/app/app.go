// Package app wires the asset registry, physics world and spawn controller
// into a fixed-step schedule shared by the windowed and headless front ends.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"debris-sandbox/assets"
	"debris-sandbox/config"
	"debris-sandbox/environment"
	"debris-sandbox/input"
	"debris-sandbox/materials"
	"debris-sandbox/physics"
	"debris-sandbox/schedule"
	"debris-sandbox/spawn"
)

// Resources shared between systems.
const (
	resInput  schedule.Resource = "input"
	resAssets schedule.Resource = "assets"
	resWorld  schedule.Resource = "world"
)

// Sandbox owns one simulation. Every method runs on the tick goroutine.
type Sandbox struct {
	cfg    config.Config
	logger *slog.Logger

	registry  *assets.Registry
	world     *physics.World
	library   *materials.Library
	layout    *environment.Layout
	spawner   *spawn.Controller
	keys      *input.Manager
	scheduler *schedule.Scheduler

	spawnKey int
	clearKey int
	quitKey  int
	cleared  int
}

// New requests the asset catalog, builds the static environment and
// registers the per-tick systems. keys is sampled once per tick.
func New(cfg config.Config, logger *slog.Logger, loader assets.Loader, keys input.KeySource) (*Sandbox, error) {
	palette, err := cfg.Palette()
	if err != nil {
		return nil, err
	}

	opts := []assets.Option{assets.WithLogger(logger)}
	if cfg.Assets.Workers > 0 {
		opts = append(opts, assets.WithWorkers(cfg.Assets.Workers))
	}
	registry := assets.NewRegistry(loader, opts...)
	registry.RequestCatalog(cfg.Assets.Prefix, cfg.Assets.Count)
	logger.Info("requested asset catalog", "prefix", cfg.Assets.Prefix, "count", cfg.Assets.Count)

	world := physics.NewWorld(cfg.Gravity())
	library := materials.NewLibrary()
	layout, err := environment.Build(world, library)
	if err != nil {
		registry.Close()
		return nil, fmt.Errorf("build environment: %w", err)
	}
	logger.Info("environment ready", "bodies", len(layout.Bodies()))

	s := &Sandbox{
		cfg:       cfg,
		logger:    logger,
		registry:  registry,
		world:     world,
		library:   library,
		layout:    layout,
		spawnKey:  config.Key(cfg.Keys.Spawn),
		clearKey:  config.Key(cfg.Keys.Clear),
		quitKey:   config.Key(cfg.Keys.Quit),
		scheduler: schedule.NewScheduler(),
	}
	s.keys = input.NewManager(keys, s.spawnKey, s.clearKey, s.quitKey)
	s.spawner = spawn.New(registry, world, library, spawn.Config{
		SpawnPoint:   cfg.SpawnPoint(),
		GravityScale: cfg.Spawn.GravityScale,
		Palette:      palette,
		Logger:       logger,
	})

	s.scheduler.Add(schedule.SystemFunc{
		SystemName: "input",
		Resources:  map[schedule.Resource]schedule.Access{resInput: schedule.Write},
		Fn: func(float32) error {
			s.keys.Update()
			return nil
		},
	})
	s.scheduler.Add(schedule.SystemFunc{
		SystemName: "assets",
		Resources:  map[schedule.Resource]schedule.Access{resAssets: schedule.Write},
		Fn: func(float32) error {
			s.registry.Update()
			return nil
		},
	})
	s.scheduler.Add(schedule.SystemFunc{
		SystemName: "spawn",
		Resources: map[schedule.Resource]schedule.Access{
			resInput:  schedule.Read,
			resAssets: schedule.Read,
			resWorld:  schedule.Write,
		},
		Fn: func(float32) error {
			s.spawner.Update(s.keys.IsDown(s.spawnKey))
			return nil
		},
	})
	s.scheduler.Add(schedule.SystemFunc{
		SystemName: "physics",
		Resources:  map[schedule.Resource]schedule.Access{resWorld: schedule.Write},
		Fn: func(dt float32) error {
			s.world.Step(dt)
			return nil
		},
	})
	s.scheduler.Add(schedule.SystemFunc{
		SystemName: "clear",
		Resources: map[schedule.Resource]schedule.Access{
			resInput: schedule.Read,
			resWorld: schedule.Write,
		},
		Fn: func(float32) error {
			if s.keys.IsPressed(s.clearKey) {
				n := s.world.ClearDynamic()
				s.cleared += n
				s.logger.Info("cleared debris", "removed", n)
			}
			return nil
		},
	})
	logger.Debug("schedule", "order", s.scheduler.Names(), "batches", s.scheduler.Batches())
	return s, nil
}

// Tick runs every system once with a step of dt seconds.
func (s *Sandbox) Tick(dt float32) error {
	return s.scheduler.Tick(dt)
}

// QuitRequested reports a fresh press of the quit key.
func (s *Sandbox) QuitRequested() bool {
	return s.keys.IsPressed(s.quitKey)
}

// WaitForAssets polls the registry until nothing is pending or ctx ends.
func (s *Sandbox) WaitForAssets(ctx context.Context) error {
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for {
		s.registry.Update()
		if s.registry.Pending() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for %d assets: %w", s.registry.Pending(), ctx.Err())
		case <-ticker.C:
		}
	}
}

// LogSummary logs body, batch and asset counts.
func (s *Sandbox) LogSummary() {
	pending, ready, failed := s.registry.Counts()
	s.logger.Info("sandbox summary",
		"bodies", s.world.Len(),
		"fixed", s.world.CountKind(physics.Fixed),
		"dynamic", s.world.CountKind(physics.Dynamic),
		"batches", s.spawner.Batches(),
		"cleared", s.cleared,
		"assets_ready", ready,
		"assets_pending", pending,
		"assets_failed", failed,
		"materials", s.library.Len())
}

// Close stops outstanding asset loads.
func (s *Sandbox) Close() {
	s.registry.Close()
}

func (s *Sandbox) World() *physics.World { return s.world }
func (s *Sandbox) Registry() *assets.Registry { return s.registry }
func (s *Sandbox) Spawner() *spawn.Controller { return s.spawner }
func (s *Sandbox) Layout() *environment.Layout { return s.layout }
func (s *Sandbox) Scheduler() *schedule.Scheduler { return s.scheduler }

// Cleared is the number of debris bodies removed by the clear key so far.
func (s *Sandbox) Cleared() int { return s.cleared }

// RunHeadless ticks n times at the configured rate, holding the spawn key
// down for one tick out of every spawnEvery. With wait > 0 it first waits
// that long for the catalog to finish loading.
func (s *Sandbox) RunHeadless(keys input.Virtual, n, spawnEvery int, wait time.Duration) error {
	if wait > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), wait)
		err := s.WaitForAssets(ctx)
		cancel()
		if err != nil {
			s.logger.Warn("starting with assets outstanding", "err", err)
		}
	}

	dt := 1 / float32(s.cfg.Physics.TickHz)
	for i := 0; i < n; i++ {
		if spawnEvery > 0 && i%spawnEvery == 0 {
			keys.Press(s.spawnKey)
		} else {
			keys.Release(s.spawnKey)
		}
		if err := s.Tick(dt); err != nil {
			return err
		}
	}
	return nil
}
