package display

import (
	"sync"
	"time"

	"github.com/pburglin/adventure2/internal/game"
)

// Flicker flashes a background colour for a cue's duration and then reverts
// to the base colour. A new cue replaces any pending revert.
type Flicker struct {
	mu      sync.Mutex
	base    string
	current string
	timer   *time.Timer
	gen     uint64
	apply   func(color string)
}

// NewFlicker applies base immediately and reports every later colour change
// through apply. apply may be called from a timer goroutine.
func NewFlicker(base string, apply func(color string)) *Flicker {
	f := &Flicker{base: base, current: base, apply: apply}
	apply(base)
	return f
}

// Trigger shows the cue's colour and schedules the revert.
func (f *Flicker) Trigger(c game.Cue) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.timer != nil {
		f.timer.Stop()
	}
	f.gen++
	gen := f.gen

	f.set(c.Color)
	f.timer = time.AfterFunc(c.Duration, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		// A later Trigger owns the colour now.
		if gen != f.gen {
			return
		}
		f.timer = nil
		f.set(f.base)
	})
}

// SetBase changes the colour reverted to. It is shown at once unless a cue is
// still flashing.
func (f *Flicker) SetBase(color string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.base = color
	if f.timer == nil {
		f.set(color)
	}
}

// Stop cancels a pending revert and restores the base colour.
func (f *Flicker) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.gen++
	f.set(f.base)
}

// Color is the colour currently shown.
func (f *Flicker) Color() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *Flicker) set(color string) {
	if color == f.current {
		return
	}
	f.current = color
	f.apply(color)
}
