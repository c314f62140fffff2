package animator

import (
	"time"
)

type clockImpl struct {
	start time.Time
	now   func() time.Time
}

// Clock measures wall time since a start instant captured once at construction.
// The start is never reset; every frame reads elapsed time against the same origin.
type Clock interface {
	// Start returns the instant the clock was created.
	//
	// Returns:
	//   - time.Time: the start timestamp
	Start() time.Time

	// Elapsed returns the time since Start.
	//
	// Returns:
	//   - time.Duration: the elapsed duration
	Elapsed() time.Duration

	// ElapsedSeconds returns the time since Start in seconds.
	//
	// Returns:
	//   - float64: the elapsed seconds
	ElapsedSeconds() float64
}

var _ Clock = &clockImpl{}

// NewClock creates a Clock started at the current time.
//
// Parameters:
//   - options: functional options to configure the clock
//
// Returns:
//   - Clock: the started clock
func NewClock(options ...ClockBuilderOption) Clock {
	c := &clockImpl{
		now: time.Now,
	}
	for _, option := range options {
		option(c)
	}
	c.start = c.now()
	return c
}

func (c *clockImpl) Start() time.Time {
	return c.start
}

func (c *clockImpl) Elapsed() time.Duration {
	// time.Now carries a monotonic reading, so Sub is immune to wall clock jumps.
	return c.now().Sub(c.start)
}

func (c *clockImpl) ElapsedSeconds() float64 {
	return c.Elapsed().Seconds()
}
