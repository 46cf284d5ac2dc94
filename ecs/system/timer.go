package system

import (
	"time"

	"github.com/milk9111/twentytwenty/common"
	"github.com/milk9111/twentytwenty/ecs"
)

// Timer is a scheduled callback. Remove is idempotent and safe to call from
// inside the callback itself.
type Timer struct {
	delay   time.Duration
	elapsed time.Duration
	loop    bool
	fn      func()
	removed bool
	fired   int
}

// Remove cancels the timer. Calling it again, or after a one-shot timer has
// fired, does nothing.
func (t *Timer) Remove() {
	if t == nil {
		return
	}
	t.removed = true
}

// Removed reports whether the timer will fire again.
func (t *Timer) Removed() bool {
	return t == nil || t.removed
}

// Fired returns how many times the callback ran.
func (t *Timer) Fired() int {
	if t == nil {
		return 0
	}
	return t.fired
}

// Delay returns the timer period.
func (t *Timer) Delay() time.Duration {
	if t == nil {
		return 0
	}
	return t.delay
}

// TimerSystem advances scheduled callbacks by a fixed step each update.
type TimerSystem struct {
	step   time.Duration
	now    time.Duration
	timers []*Timer
}

func NewTimerSystem(step time.Duration) *TimerSystem {
	if step <= 0 {
		step = common.Step
	}
	return &TimerSystem{step: step}
}

// Every schedules fn every delay until the returned timer is removed.
func (s *TimerSystem) Every(delay time.Duration, fn func()) *Timer {
	return s.add(delay, true, fn)
}

// After schedules fn once after delay.
func (s *TimerSystem) After(delay time.Duration, fn func()) *Timer {
	return s.add(delay, false, fn)
}

func (s *TimerSystem) add(delay time.Duration, loop bool, fn func()) *Timer {
	if delay <= 0 {
		// A zero period would fire forever within one advance.
		delay = time.Nanosecond
	}
	t := &Timer{delay: delay, loop: loop, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

// Now returns the total time advanced so far.
func (s *TimerSystem) Now() time.Duration {
	return s.now
}

// Pending returns the number of live timers.
func (s *TimerSystem) Pending() int {
	n := 0
	for _, t := range s.timers {
		if !t.removed {
			n++
		}
	}
	return n
}

func (s *TimerSystem) Update(_ *ecs.World) {
	s.Advance(s.step)
}

// Advance moves time forward by dt and runs due callbacks in scheduling
// order. Repeating timers carry the remainder over, so a period that does
// not divide the step still fires at the right average rate. Timers added
// by a callback start counting on the next advance.
func (s *TimerSystem) Advance(dt time.Duration) {
	if s == nil || dt <= 0 {
		return
	}
	s.now += dt
	due := append([]*Timer(nil), s.timers...)
	for _, t := range due {
		if t.removed {
			continue
		}
		t.elapsed += dt
		for !t.removed && t.elapsed >= t.delay {
			t.elapsed -= t.delay
			if !t.loop {
				t.removed = true
			}
			t.fired++
			if t.fn != nil {
				t.fn()
			}
		}
	}
	s.compact()
}

// Clear drops every timer without running it.
func (s *TimerSystem) Clear() {
	for _, t := range s.timers {
		t.removed = true
	}
	s.timers = nil
}

func (s *TimerSystem) compact() {
	kept := s.timers[:0]
	for _, t := range s.timers {
		if !t.removed {
			kept = append(kept, t)
		}
	}
	for i := len(kept); i < len(s.timers); i++ {
		s.timers[i] = nil
	}
	s.timers = kept
}
