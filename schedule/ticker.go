package schedule

import "time"

// Ticker converts wall-clock frame time into a whole number of fixed
// simulation steps. Leftover time carries over to the next frame.
type Ticker struct {
	Step     time.Duration
	MaxSteps int

	acc time.Duration
}

// NewTicker returns a ticker running at hz steps per second that never
// runs more than maxSteps per frame.
func NewTicker(hz, maxSteps int) *Ticker {
	if hz <= 0 {
		hz = 60
	}
	if maxSteps <= 0 {
		maxSteps = 1
	}
	return &Ticker{
		Step:     time.Second / time.Duration(hz),
		MaxSteps: maxSteps,
	}
}

// Advance adds elapsed and returns how many steps to run now. When the
// frame fell too far behind, the backlog beyond MaxSteps is dropped.
func (t *Ticker) Advance(elapsed time.Duration) int {
	if elapsed > 0 {
		t.acc += elapsed
	}
	steps := int(t.acc / t.Step)
	if steps > t.MaxSteps {
		steps = t.MaxSteps
		t.acc = 0
		return steps
	}
	t.acc -= time.Duration(steps) * t.Step
	return steps
}

// Seconds is the step length in seconds, the dt handed to systems.
func (t *Ticker) Seconds() float32 {
	return float32(t.Step.Seconds())
}
