// Package assets loads debris meshes in the background and reports their
// progress to the simulation tick without ever blocking it.
package assets

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"debris-sandbox/scene"
)

// Catalog defaults: breakage_0 .. breakage_72.
const (
	DefaultCatalogPrefix = "breakage"
	DefaultCatalogSize   = 73
)

type LoadState int

const (
	Pending LoadState = iota
	Ready
	Failed
)

func (s LoadState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("LoadState(%d)", int(s))
	}
}

// Handle identifies a requested asset for the lifetime of its registry.
type Handle struct {
	name  string
	index int
}

func (h Handle) Name() string { return h.name }

// Index is the asset's position in request order.
func (h Handle) Index() int { return h.index }

// Loader produces a mesh for an asset name. It runs on worker goroutines.
type Loader interface {
	Load(name string) (*scene.TriangleMesh, error)
}

// LoaderFunc adapts a plain function to Loader.
type LoaderFunc func(name string) (*scene.TriangleMesh, error)

func (f LoaderFunc) Load(name string) (*scene.TriangleMesh, error) { return f(name) }

type entry struct {
	handle Handle
	state  LoadState
	mesh   *scene.TriangleMesh
	err    error
}

type result struct {
	index int
	mesh  *scene.TriangleMesh
	err   error
}

// Registry tracks asset loads. Request, Poll and the other methods are meant
// for a single goroutine (the tick); loads run on a bounded worker pool and
// their results are applied only when that goroutine drains them.
type Registry struct {
	loader Loader
	logger *slog.Logger

	entries []*entry
	byName  map[string]int

	// backlog holds requested indices that have not found a free worker.
	backlog []int
	group   *errgroup.Group
	done    chan result
	ctx     context.Context
	cancel  context.CancelFunc
	pending int
}

type Option func(*Registry)

// WithWorkers bounds the number of concurrent loads.
func WithWorkers(n int) Option {
	return func(r *Registry) {
		if n < 1 {
			n = 1
		}
		r.group.SetLimit(n)
		r.done = make(chan result, n)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func NewRegistry(loader Loader, opts ...Option) *Registry {
	ctx, cancel := context.WithCancel(context.Background())
	workers := runtime.NumCPU()
	r := &Registry{
		loader: loader,
		logger: slog.Default(),
		byName: make(map[string]int),
		group:  new(errgroup.Group),
		done:   make(chan result, workers),
		ctx:    ctx,
		cancel: cancel,
	}
	r.group.SetLimit(workers)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Request registers name and schedules its load. Requesting a name twice
// returns the original handle and does not load again.
func (r *Registry) Request(name string) Handle {
	if i, ok := r.byName[name]; ok {
		return r.entries[i].handle
	}
	h := Handle{name: name, index: len(r.entries)}
	r.entries = append(r.entries, &entry{handle: h, state: Pending})
	r.byName[name] = h.index
	r.pending++
	r.backlog = append(r.backlog, h.index)
	r.dispatch()
	return h
}

// RequestCatalog requests prefix_0 .. prefix_{n-1} in order.
func (r *Registry) RequestCatalog(prefix string, n int) []Handle {
	handles := make([]Handle, 0, n)
	for i := 0; i < n; i++ {
		handles = append(handles, r.Request(fmt.Sprintf("%s_%d", prefix, i)))
	}
	return handles
}

// Poll applies any finished loads and reports h's state. It never blocks.
// Unknown handles report Failed.
func (r *Registry) Poll(h Handle) LoadState {
	r.Update()
	e := r.lookup(h)
	if e == nil {
		return Failed
	}
	return e.state
}

// Update drains finished loads and hands queued requests to free workers.
func (r *Registry) Update() {
	for {
		select {
		case res := <-r.done:
			r.apply(res)
		default:
			r.dispatch()
			return
		}
	}
}

// Mesh returns the loaded mesh when h is Ready.
func (r *Registry) Mesh(h Handle) (*scene.TriangleMesh, bool) {
	e := r.lookup(h)
	if e == nil || e.state != Ready {
		return nil, false
	}
	return e.mesh, true
}

// Err returns the load error of a Failed asset.
func (r *Registry) Err(h Handle) error {
	if e := r.lookup(h); e != nil {
		return e.err
	}
	return nil
}

// Handles returns every handle in request order.
func (r *Registry) Handles() []Handle {
	out := make([]Handle, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.handle
	}
	return out
}

// Pending returns how many assets are still loading.
func (r *Registry) Pending() int {
	return r.pending
}

// Counts returns the number of assets in each state.
func (r *Registry) Counts() (pending, ready, failed int) {
	for _, e := range r.entries {
		switch e.state {
		case Pending:
			pending++
		case Ready:
			ready++
		case Failed:
			failed++
		}
	}
	return pending, ready, failed
}

// Close abandons queued loads and waits for running ones to return.
// Results that arrive afterwards are discarded; abandoned assets stay Pending.
func (r *Registry) Close() {
	r.backlog = nil
	r.cancel()
	_ = r.group.Wait()
}

func (r *Registry) lookup(h Handle) *entry {
	if h.index < 0 || h.index >= len(r.entries) {
		return nil
	}
	e := r.entries[h.index]
	if e.handle != h {
		return nil
	}
	return e
}

func (r *Registry) dispatch() {
	for len(r.backlog) > 0 {
		if r.ctx.Err() != nil {
			return
		}
		index := r.backlog[0]
		name := r.entries[index].handle.name
		started := r.group.TryGo(func() error {
			mesh, err := r.load(name)
			select {
			case r.done <- result{index: index, mesh: mesh, err: err}:
			case <-r.ctx.Done():
			}
			// A failed asset must not cancel its siblings.
			return nil
		})
		if !started {
			return
		}
		r.backlog = r.backlog[1:]
	}
}

func (r *Registry) load(name string) (mesh *scene.TriangleMesh, err error) {
	defer func() {
		if p := recover(); p != nil {
			mesh, err = nil, fmt.Errorf("load %q: panic: %v", name, p)
		}
	}()
	mesh, err = r.loader.Load(name)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", name, err)
	}
	if mesh == nil {
		return nil, fmt.Errorf("load %q: %w", name, scene.ErrNoGeometry)
	}
	if err := mesh.Validate(); err != nil {
		return nil, fmt.Errorf("load %q: %w", name, err)
	}
	return mesh, nil
}

func (r *Registry) apply(res result) {
	e := r.entries[res.index]
	if e.state != Pending {
		return
	}
	r.pending--
	if res.err != nil {
		e.state = Failed
		e.err = res.err
		r.logger.Warn("asset failed to load", "asset", e.handle.name, "err", res.err)
		return
	}
	e.state = Ready
	e.mesh = res.mesh
	r.logger.Debug("asset ready", "asset", e.handle.name,
		"vertices", len(res.mesh.Positions), "triangles", res.mesh.TriangleCount())
}
