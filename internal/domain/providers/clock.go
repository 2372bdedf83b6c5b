package providers

import (
	"time"
)

// Clock supplies the current time. Check-in order, token day boundaries, and
// wait estimates all key off a single injected clock so tests can pin it.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall-clock implementation of Clock
type SystemClock struct{}

// Now returns the current wall-clock time
func (SystemClock) Now() time.Time {
	return time.Now()
}
