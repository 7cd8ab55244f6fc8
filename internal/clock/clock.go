// Package clock abstracts wall time and one-shot timers so that timer-driven
// components can be driven deterministically in tests.
package clock

import "time"

// Timer is a cancellable pending callback
type Timer interface {
	// Stop cancels the callback. It reports whether the call stopped the timer
	// before it fired.
	Stop() bool
}

// Clock provides the current time and schedules callbacks
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Real is the wall clock backed by the time package
type Real struct{}

// New returns the wall clock
func New() Clock {
	return Real{}
}

// Now returns time.Now
func (Real) Now() time.Time {
	return time.Now()
}

// AfterFunc wraps time.AfterFunc
func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
