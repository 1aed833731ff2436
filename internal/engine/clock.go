package engine

import "time"

// Clock abstracts time.Now() so that "today" is always an explicit input.
// The command loop asks it once per command; nothing below reads the wall clock.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// FixedClock always reports the same instant. It backs the --today flag and tests.
type FixedClock struct {
	Time time.Time
}

func (c FixedClock) Now() time.Time {
	return c.Time
}
