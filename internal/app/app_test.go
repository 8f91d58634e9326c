package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"debris-sandbox/assets"
	"debris-sandbox/config"
	"debris-sandbox/input"
	"debris-sandbox/internal/logx"
	"debris-sandbox/physics"
	"debris-sandbox/scene"
)

func boxLoader() assets.LoaderFunc {
	return func(name string) (*scene.TriangleMesh, error) {
		mesh := scene.CreateBox(2, 1, 1)
		mesh.Name = name
		return mesh, nil
	}
}

func testConfig(count int) config.Config {
	cfg := config.Default()
	cfg.Assets.Count = count
	cfg.Assets.Workers = 2
	return cfg
}

func newSandbox(t *testing.T, cfg config.Config, loader assets.Loader) (*Sandbox, input.Virtual) {
	t.Helper()
	keys := input.Virtual{}
	s, err := New(cfg, logx.Discard(), loader, keys)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s, keys
}

func TestNewBuildsEnvironment(t *testing.T) {
	s, _ := newSandbox(t, testConfig(3), boxLoader())

	assert.Equal(t, 4, s.World().CountKind(physics.Fixed))
	assert.Zero(t, s.World().CountKind(physics.Dynamic))
	assert.Len(t, s.Registry().Handles(), 3)
	assert.Equal(t, []string{"input", "assets", "spawn", "physics", "clear"}, s.Scheduler().Names())
}

func TestNewRejectsBadPalette(t *testing.T) {
	cfg := testConfig(1)
	cfg.Spawn.Palette = []string{"#zzz"}
	_, err := New(cfg, logx.Discard(), boxLoader(), input.Virtual{})
	assert.ErrorContains(t, err, "spawn.palette[0]")
}

func TestHeadlessSpawnsOnPressEdges(t *testing.T) {
	s, keys := newSandbox(t, testConfig(4), boxLoader())

	require.NoError(t, s.RunHeadless(keys, 10, 5, 2*time.Second))

	assert.Equal(t, 2, s.Spawner().Batches())
	assert.Equal(t, 8, s.World().CountKind(physics.Dynamic))
	assert.Equal(t, 4, s.World().CountKind(physics.Fixed))
}

func TestHeadlessWithoutSpawns(t *testing.T) {
	s, keys := newSandbox(t, testConfig(2), boxLoader())

	require.NoError(t, s.RunHeadless(keys, 30, 0, time.Second))
	assert.Zero(t, s.Spawner().Batches())
	assert.Equal(t, 4, s.World().Len())
}

func TestClearKeyRemovesDebris(t *testing.T) {
	s, keys := newSandbox(t, testConfig(3), boxLoader())
	require.NoError(t, s.RunHeadless(keys, 1, 1, 2*time.Second))
	require.Equal(t, 3, s.World().CountKind(physics.Dynamic))

	keys.Release(config.Key("space"))
	keys.Press(config.Key("backspace"))
	require.NoError(t, s.Tick(1.0/60))

	assert.Zero(t, s.World().CountKind(physics.Dynamic))
	assert.Equal(t, 4, s.World().CountKind(physics.Fixed))
	assert.Equal(t, 3, s.Cleared())

	// Holding the key does not clear again.
	require.NoError(t, s.Tick(1.0/60))
	assert.Equal(t, 3, s.Cleared())
}

func TestQuitRequestedOnPress(t *testing.T) {
	s, keys := newSandbox(t, testConfig(0), boxLoader())

	require.NoError(t, s.Tick(1.0/60))
	assert.False(t, s.QuitRequested())

	keys.Press(config.Key("escape"))
	require.NoError(t, s.Tick(1.0/60))
	assert.True(t, s.QuitRequested())

	require.NoError(t, s.Tick(1.0/60))
	assert.False(t, s.QuitRequested())
}

func TestWaitForAssetsHonoursContext(t *testing.T) {
	gate := make(chan struct{})
	loader := assets.LoaderFunc(func(name string) (*scene.TriangleMesh, error) {
		<-gate
		return scene.CreateBox(1, 1, 1), nil
	})
	s, _ := newSandbox(t, testConfig(2), loader)
	t.Cleanup(func() { close(gate) })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := s.WaitForAssets(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 2, s.Registry().Pending())
}
