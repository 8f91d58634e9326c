// Package schedule runs the per-tick systems in a fixed order and records
// which resources each one touches.
package schedule

import (
	"fmt"
	"slices"
)

type Access int

const (
	Read Access = iota
	Write
)

func (a Access) String() string {
	if a == Write {
		return "write"
	}
	return "read"
}

// Resource names a piece of shared state, e.g. "world" or "assets".
type Resource string

// System is one step of a tick.
type System interface {
	Name() string
	// Access lists the resources Run touches.
	Access() map[Resource]Access
	Run(dt float32) error
}

// SystemFunc adapts a function to System.
type SystemFunc struct {
	SystemName string
	Resources  map[Resource]Access
	Fn         func(dt float32) error
}

func (s SystemFunc) Name() string { return s.SystemName }
func (s SystemFunc) Access() map[Resource]Access { return s.Resources }
func (s SystemFunc) Run(dt float32) error { return s.Fn(dt) }

// Scheduler runs its systems sequentially in the order they were added.
type Scheduler struct {
	systems []System
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

func (s *Scheduler) Add(sys System) {
	s.systems = append(s.systems, sys)
}

// Names returns the system names in run order.
func (s *Scheduler) Names() []string {
	names := make([]string, len(s.systems))
	for i, sys := range s.systems {
		names[i] = sys.Name()
	}
	return names
}

// Tick runs every system once. The first error stops the tick.
func (s *Scheduler) Tick(dt float32) error {
	for _, sys := range s.systems {
		if err := sys.Run(dt); err != nil {
			return fmt.Errorf("system %s: %w", sys.Name(), err)
		}
	}
	return nil
}

// Conflicts reports whether a and b touch a common resource with at least
// one of them writing it.
func Conflicts(a, b System) bool {
	bAccess := b.Access()
	for res, ma := range a.Access() {
		mb, ok := bAccess[res]
		if !ok {
			continue
		}
		if ma == Write || mb == Write {
			return true
		}
	}
	return false
}

// Batches groups consecutive systems that do not conflict with each other.
// Systems in one batch could run in parallel without changing the result.
func (s *Scheduler) Batches() [][]string {
	var out [][]string
	var batch []System
	flush := func() {
		if len(batch) == 0 {
			return
		}
		names := make([]string, len(batch))
		for i, sys := range batch {
			names[i] = sys.Name()
		}
		out = append(out, names)
		batch = nil
	}
	for _, sys := range s.systems {
		if slices.ContainsFunc(batch, func(other System) bool { return Conflicts(sys, other) }) {
			flush()
		}
		batch = append(batch, sys)
	}
	flush()
	return out
}
