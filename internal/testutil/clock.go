package testutil

import (
	"sort"
	"sync"
	"time"

	"github.com/starford/kanboard/internal/board"
)

// FakeClock is a manually advanced board.Clock.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer

	// IgnoreStop makes Stop report success without cancelling the callback,
	// which models a timer that had already fired when it was stopped.
	IgnoreStop bool
}

type fakeTimer struct {
	clock   *FakeClock
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

var _ board.Clock = (*FakeClock)(nil)

// AfterFunc schedules f to run once the clock has advanced by d.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) board.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	if !t.clock.IgnoreStop {
		t.stopped = true
	}
	return true
}

// Advance moves the clock forward and runs every callback that became due,
// in schedule order, on the calling goroutine.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, t := range due {
		t.f()
	}
}

// Pending returns the number of timers that have neither fired nor been stopped.
func (c *FakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}
