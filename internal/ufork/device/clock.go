package device

import "time"

// Clock is the periodic interrupt source of spec.md section 4.7, step 1:
// the runtime loop compares a monotonic clock to a tick deadline and, once
// expired, posts one Event to the clock-handler actor with the tick count
// (1, 2, 3, ...) as the message. The message is not a wall-clock reading;
// it equals elapsed seconds only when the interval is one second.
type Clock struct {
	interval time.Duration
	deadline time.Time
	seconds  int64
	now      func() time.Time
}

// NewClock creates a Clock ticking every interval, using the real wall
// clock.
func NewClock(interval time.Duration) *Clock {
	return newClock(interval, time.Now)
}

func newClock(interval time.Duration, now func() time.Time) *Clock {
	c := &Clock{interval: interval, now: now}
	c.deadline = now().Add(interval)
	return c
}

// Due reports whether the deadline has passed; if so it advances the
// deadline by one interval and increments the tick counter, returning the
// new tick count to post as the event message.
func (c *Clock) Due() (seconds int64, due bool) {
	if c.interval <= 0 {
		return 0, false
	}
	if c.now().Before(c.deadline) {
		return 0, false
	}
	c.deadline = c.deadline.Add(c.interval)
	c.seconds++
	return c.seconds, true
}

// FakeClock is a manually-advanced Clock for deterministic tests (spec.md
// section 8, scenario 6: "advance the simulated clock by 3 seconds").
type FakeClock struct {
	*Clock
	t time.Time
}

// NewFakeClock creates a FakeClock starting at an arbitrary fixed instant.
func NewFakeClock(interval time.Duration) *FakeClock {
	start := time.Unix(0, 0)
	fc := &FakeClock{t: start}
	fc.Clock = newClock(interval, fc.now)
	return fc
}

func (fc *FakeClock) now() time.Time { return fc.t }

// Advance moves the fake clock forward by d; the caller should then poll
// Due in a loop to collect every tick that elapsed.
func (fc *FakeClock) Advance(d time.Duration) {
	fc.t = fc.t.Add(d)
}
