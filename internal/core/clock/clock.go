package clock

import "time"

// Clock is the time source used for per-tick budgets.
type Clock interface {
	Now() time.Time
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

// Real returns the wall clock.
func Real() Clock { return wallClock{} }

// Manual is a clock that only moves when told to. Used to make budgeted
// loops deterministic in tests and in offline replays.
type Manual struct {
	now time.Time
}

func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time { return m.now }

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.now = m.now.Add(d)
}

// Deadline is a budget window opened at a point in time.
type Deadline struct {
	clock Clock
	end   time.Time
}

// Start opens a budget window of length budget on c. A budget of zero or
// less yields a window that is already expired.
func Start(c Clock, budget time.Duration) Deadline {
	return Deadline{clock: c, end: c.Now().Add(budget)}
}

// Remaining reports whether the window is still open.
func (d Deadline) Remaining() bool {
	return d.clock.Now().Before(d.end)
}
