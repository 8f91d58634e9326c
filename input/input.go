// Package input turns polled key levels into per-frame press and release
// edges.
package input

import "strings"

// Key codes, numerically identical to GLFW's so a platform window can be
// queried with them directly.
const (
	KeySpace     = 32
	KeyC         = 67
	KeyR         = 82
	KeyS         = 83
	KeyEscape    = 256
	KeyEnter     = 257
	KeyTab       = 258
	KeyBackspace = 259
	KeyDelete    = 261
)

var keyNames = map[string]int{
	"space":     KeySpace,
	"escape":    KeyEscape,
	"enter":     KeyEnter,
	"tab":       KeyTab,
	"backspace": KeyBackspace,
	"delete":    KeyDelete,
	"c":         KeyC,
	"r":         KeyR,
	"s":         KeyS,
}

// KeyByName resolves a config key name (case-insensitive) to a key code.
func KeyByName(name string) (int, bool) {
	k, ok := keyNames[strings.ToLower(strings.TrimSpace(name))]
	return k, ok
}

// KeySource reports whether a key is held right now.
type KeySource interface {
	IsKeyPressed(key int) bool
}

// Manager tracks key state between frames
type Manager struct {
	source  KeySource
	watched []int

	keys     [512]bool
	keysPrev [512]bool
}

// NewManager watches the given keys on source. Keys outside the tracked
// range are ignored.
func NewManager(source KeySource, keys ...int) *Manager {
	m := &Manager{source: source}
	for _, k := range keys {
		if k >= 0 && k < len(m.keys) {
			m.watched = append(m.watched, k)
		}
	}
	return m
}

// Update should be called once per frame to poll state
func (m *Manager) Update() {
	copy(m.keysPrev[:], m.keys[:])
	for _, k := range m.watched {
		m.keys[k] = m.source.IsKeyPressed(k)
	}
}

// --- Key Queries ---

func (m *Manager) IsDown(key int) bool {
	if key < 0 || key >= len(m.keys) {
		return false
	}
	return m.keys[key]
}

func (m *Manager) IsPressed(key int) bool {
	if key < 0 || key >= len(m.keys) {
		return false
	}
	return m.keys[key] && !m.keysPrev[key]
}

func (m *Manager) IsReleased(key int) bool {
	if key < 0 || key >= len(m.keys) {
		return false
	}
	return !m.keys[key] && m.keysPrev[key]
}

// Virtual is a KeySource driven by code, for headless runs and tests.
type Virtual map[int]bool

func (v Virtual) IsKeyPressed(key int) bool { return v[key] }

func (v Virtual) Press(key int) { v[key] = true }

func (v Virtual) Release(key int) { delete(v, key) }
