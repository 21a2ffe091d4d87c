package stopwatch

//go:generate mockgen -destination=../../test/mock_clock.go -package=test . Clock

import "time"

// Clock supplies monotonic readings in milliseconds.
// Readings must never decrease while the stopwatch is running.
type Clock interface {
	Now() int64
}

type systemClock struct {
	origin time.Time
}

// NewSystemClock returns a Clock backed by the runtime's monotonic clock.
// Wall clock adjustments don't affect it.
func NewSystemClock() Clock {
	return &systemClock{origin: time.Now()}
}

func (c *systemClock) Now() int64 {
	return time.Since(c.origin).Milliseconds()
}
