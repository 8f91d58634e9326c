// Package spawn turns a trigger press into a batch of debris bodies, one
// per loaded asset.
package spawn

import (
	"fmt"
	"log/slog"

	"debris-sandbox/assets"
	"debris-sandbox/collider"
	"debris-sandbox/core"
	"debris-sandbox/materials"
	remath "debris-sandbox/math"
	"debris-sandbox/physics"
	"debris-sandbox/scene"
)

type State int

const (
	Idle State = iota
	Spawning
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Spawning:
		return "spawning"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// AssetSource is the view of the asset registry the controller reads.
type AssetSource interface {
	Handles() []assets.Handle
	Poll(h assets.Handle) assets.LoadState
	Mesh(h assets.Handle) (*scene.TriangleMesh, bool)
}

// Inserter receives the spawned bodies.
type Inserter interface {
	Insert(b *physics.RigidBody) error
}

type Config struct {
	SpawnPoint   remath.Vec3
	GravityScale float32
	Palette      materials.Palette
	Logger       *slog.Logger
}

func DefaultConfig() Config {
	return Config{
		SpawnPoint:   remath.Vec3{X: 0, Y: 40, Z: 0},
		GravityScale: 20,
		Palette:      materials.DefaultPalette(),
	}
}

// Report summarises one batch.
type Report struct {
	Inserted          int
	SkippedPending    int
	SkippedFailed     int
	SkippedDegenerate int
	InsertErrors      int
}

// Trigger turns a level (key held or not) into an edge.
type Trigger struct {
	down bool
}

// Update records the current level and reports an up-to-down transition.
func (t *Trigger) Update(down bool) bool {
	pressed := down && !t.down
	t.down = down
	return pressed
}

type Controller struct {
	assets    AssetSource
	world     Inserter
	materials materials.Factory
	cfg       Config
	logger    *slog.Logger

	trigger Trigger
	state   State
	batches int
}

func New(src AssetSource, w Inserter, f materials.Factory, cfg Config) *Controller {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		assets:    src,
		world:     w,
		materials: f,
		cfg:       cfg,
		logger:    logger,
	}
}

func (c *Controller) State() State { return c.state }

// Batches returns how many batches have completed.
func (c *Controller) Batches() int { return c.batches }

// Update is called once per tick with the trigger level. It spawns one
// batch per press; holding the trigger does nothing more.
func (c *Controller) Update(triggerDown bool) Report {
	if !c.trigger.Update(triggerDown) {
		return Report{}
	}
	return c.Spawn()
}

// Spawn inserts one dynamic body per Ready asset, in catalog order, at the
// spawn point. Assets that are still loading, failed, or have no usable
// hull are skipped. Bodies from earlier batches are left alone.
func (c *Controller) Spawn() Report {
	c.state = Spawning
	defer func() { c.state = Idle }()

	var rep Report
	for _, h := range c.assets.Handles() {
		switch c.assets.Poll(h) {
		case assets.Pending:
			rep.SkippedPending++
			continue
		case assets.Failed:
			rep.SkippedFailed++
			continue
		}
		mesh, ok := c.assets.Mesh(h)
		if !ok {
			rep.SkippedPending++
			continue
		}
		hull, ok := collider.Synthesize(mesh)
		if !ok {
			rep.SkippedDegenerate++
			c.logger.Debug("skipping asset without convex hull", "asset", h.Name())
			continue
		}

		body := &physics.RigidBody{
			Name:         h.Name(),
			Kind:         physics.Dynamic,
			Collider:     hull,
			Mesh:         mesh,
			Transform:    core.NewTransform(c.cfg.SpawnPoint),
			Material:     c.materials.ForColor(c.cfg.Palette.At(h.Index())),
			GravityScale: physics.GravityScale(c.cfg.GravityScale),
		}
		if err := c.world.Insert(body); err != nil {
			rep.InsertErrors++
			c.logger.Warn("insert debris", "asset", h.Name(), "err", err)
			continue
		}
		rep.Inserted++
	}

	c.batches++
	c.logger.Info("spawned debris batch",
		"batch", c.batches,
		"inserted", rep.Inserted,
		"pending", rep.SkippedPending,
		"failed", rep.SkippedFailed,
		"degenerate", rep.SkippedDegenerate)
	return rep
}
