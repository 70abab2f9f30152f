package detect

import (
	"time"

	"github.com/fakeyudi/cogtrace/internal/trace"
)

// HesitationDelay is how long editing must pause before a hesitation is recorded.
const HesitationDelay = 3000 * time.Millisecond

// Hesitation is the session-wide countdown handle. At most one countdown is
// pending; restarting it discards the previous one. It is not safe for
// concurrent use and is meant to be owned by a single event loop.
type Hesitation struct {
	clock   Clock
	delay   time.Duration
	pending Timer
}

// NewHesitation returns an idle countdown using clock.
func NewHesitation(clock Clock) *Hesitation {
	if clock == nil {
		clock = RealClock{}
	}
	return &Hesitation{clock: clock, delay: HesitationDelay}
}

// Restart cancels any pending countdown and schedules a new one.
func (h *Hesitation) Restart() {
	h.Stop()
	h.pending = h.clock.NewTimer(h.delay)
}

// Stop cancels the pending countdown, if any.
func (h *Hesitation) Stop() {
	if h.pending != nil {
		h.pending.Stop()
		h.pending = nil
	}
}

// Pending reports whether a countdown is scheduled.
func (h *Hesitation) Pending() bool {
	return h.pending != nil
}

// C returns the channel the pending countdown fires on, or nil when idle so
// that a select on it blocks.
func (h *Hesitation) C() <-chan time.Time {
	if h.pending == nil {
		return nil
	}
	return h.pending.C()
}

// Fire marks the countdown as elapsed and returns the hesitation event.
func (h *Hesitation) Fire() trace.Event {
	h.pending = nil
	return trace.Hesitation(h.delay)
}
