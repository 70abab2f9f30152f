// Package detecttest provides a manually advanced clock for testing the
// detectors and the recorder loop.
package detecttest

import (
	"sync"
	"time"

	"github.com/fakeyudi/cogtrace/internal/detect"
)

// Clock is a detect.Clock whose time only moves when Advance is called.
type Clock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*timer
}

var _ detect.Clock = (*Clock)(nil)

// NewClock returns a clock starting at start.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the current manual time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// NewTimer schedules a timer d after the current manual time.
func (c *Clock) NewTimer(d time.Duration) detect.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &timer{deadline: c.now.Add(d), ch: make(chan time.Time, 1)}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward by d and fires every live timer that is due.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)

	live := c.timers[:0]
	for _, t := range c.timers {
		if t.expire(c.now) {
			continue
		}
		live = append(live, t)
	}
	c.timers = live
}

// Pending returns the number of timers that have neither fired nor been stopped.
func (c *Clock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if t.live() {
			n++
		}
	}
	return n
}

type timer struct {
	mu       sync.Mutex
	deadline time.Time
	ch       chan time.Time
	done     bool
}

func (t *timer) C() <-chan time.Time { return t.ch }

func (t *timer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}

func (t *timer) live() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.done
}

// expire fires the timer if it is due and reports whether it is finished.
func (t *timer) expire(now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return true
	}
	if now.Before(t.deadline) {
		return false
	}
	t.done = true
	t.ch <- now
	return true
}
