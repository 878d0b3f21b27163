package interview

import "time"

// Timer is a cancellable scheduled callback.
type Timer interface {
	// Stop cancels the callback. It reports whether the call stopped the
	// timer; calling it again is harmless.
	Stop() bool
}

// Scheduler arms deadlines.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemScheduler runs deadlines on the wall clock.
type SystemScheduler struct{}

func (SystemScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// deadline is the single active auto-skip handle.
type deadline struct {
	seq   uint64
	timer Timer
	at    time.Time
}
