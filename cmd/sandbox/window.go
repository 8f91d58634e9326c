package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/chewxy/math32"

	"debris-sandbox/assets"
	"debris-sandbox/config"
	"debris-sandbox/core"
	"debris-sandbox/internal/app"
	remath "debris-sandbox/math"
	"debris-sandbox/opengl"
	"debris-sandbox/physics"
	"debris-sandbox/platform"
	"debris-sandbox/scene"
	"debris-sandbox/schedule"
)

var cameraEye = remath.Vec3{X: 100, Y: 200, Z: 400}

func runWindowed(cfg config.Config, logger *slog.Logger, loader assets.Loader) error {
	window, err := platform.NewWindow(platform.WindowConfig{
		Width:     cfg.Window.Width,
		Height:    cfg.Window.Height,
		Title:     cfg.Window.Title,
		Resizable: true,
		VSync:     cfg.Window.VSync,
	})
	if err != nil {
		return err
	}
	defer window.Destroy()

	renderer, err := opengl.NewRenderer(logger)
	if err != nil {
		return err
	}
	defer renderer.Destroy()

	s, err := app.New(cfg, logger, loader, window)
	if err != nil {
		return err
	}
	defer s.Close()

	width, height := window.GetFramebufferSize()
	camera := scene.NewCamera(math32.Pi/4, float32(width)/float32(height), 0.5, 2000)
	camera.LookAt(cameraEye, remath.Vec3Zero)

	ticker := schedule.NewTicker(cfg.Physics.TickHz, cfg.Physics.MaxSteps)
	dt := ticker.Seconds()
	lastTime := time.Now()
	lastTitle := lastTime

	for !window.ShouldClose() {
		now := time.Now()
		steps := ticker.Advance(now.Sub(lastTime))
		lastTime = now

		window.PollEvents()
		for i := 0; i < steps; i++ {
			if err := s.Tick(dt); err != nil {
				return err
			}
			if s.QuitRequested() {
				window.SetShouldClose(true)
			}
		}

		width, height = window.GetFramebufferSize()
		renderer.SetViewport(width, height)
		camera.UpdateAspectRatio(float32(width), float32(height))
		drawn := drawWorld(renderer, s.World(), camera.GetViewProjectionMatrix())
		window.SwapBuffers()

		if now.Sub(lastTitle) >= time.Second {
			pending, ready, _ := s.Registry().Counts()
			window.SetTitle(fmt.Sprintf("%s | bodies %d (%d drawn) | assets %d/%d",
				cfg.Window.Title, s.World().Len(), drawn, ready, ready+pending))
			lastTitle = now
		}
	}
	s.LogSummary()
	return nil
}

// drawWorld draws opaque bodies first and translucent ones after so the
// glass floor blends over what is beneath it. Bodies outside the view are
// skipped; the number drawn is returned.
func drawWorld(r *opengl.Renderer, w *physics.World, viewProj remath.Mat4) int {
	r.BeginFrame(core.ColorSky)
	frustum := scene.FrustumFromViewProjection(viewProj)

	var translucent []*physics.RigidBody
	drawn := 0
	for _, b := range w.Bodies() {
		if b.Mesh == nil || b.Material == nil || b.Collider == nil {
			continue
		}
		if !b.Bounds().IntersectsFrustum(&frustum) {
			continue
		}
		drawn++
		if b.Material.Translucent() {
			translucent = append(translucent, b)
			continue
		}
		r.DrawBody(b.Mesh, b.Material.Color, b.Transform.GetMatrix(), viewProj)
	}
	for _, b := range translucent {
		r.DrawBody(b.Mesh, b.Material.Color, b.Transform.GetMatrix(), viewProj)
	}
	return drawn
}
