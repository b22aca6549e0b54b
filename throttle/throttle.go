// Package throttle collapses bursts of rapid events into a single delayed
// callback carrying only the most recent payload.
//
// The execution deadline is anchored to the first event in a burst (leading
// edge): events arriving while a fire is pending replace the held work but
// never move the deadline. Card-entry fields use this to turn a keystroke
// stream into at most one BIN lookup per window.
package throttle

import (
	"errors"
	"sync"
	"time"
)

// ErrInvalidDelay reports a non-positive minimum delay passed to [New].
var ErrInvalidDelay = errors.New("throttle: minimum delay must be positive")

// Throttler runs submitted work at most once per minimum delay. Within one
// window only the last submitted work executes; earlier submissions in the
// same window are discarded without running.
type Throttler struct {
	delay time.Duration

	mu      sync.Mutex
	pending func()
	timer   *time.Timer
	stopped bool
}

// New builds a [Throttler] with the given minimum delay between executions.
func New(minimumDelay time.Duration) (*Throttler, error) {
	if minimumDelay <= 0 {
		return nil, ErrInvalidDelay
	}
	return &Throttler{delay: minimumDelay}, nil
}

// Throttle submits work for delayed execution. If no fire is pending the
// deadline is armed at now plus the minimum delay; otherwise the previously
// held work is replaced and the deadline left untouched.
func (t *Throttler) Throttle(work func()) {
	if work == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.pending = work
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, t.fire)
	}
}

// Stop discards any pending work and prevents all future executions. Owners
// call it when they go away so scheduled work never outlives them.
func (t *Throttler) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	t.pending = nil
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *Throttler) fire() {
	t.mu.Lock()
	work := t.pending
	t.pending = nil
	t.timer = nil
	stopped := t.stopped
	t.mu.Unlock()
	if stopped || work == nil {
		return
	}
	work()
}
