package animator

import "time"

// ClockBuilderOption is a functional option for configuring a Clock during construction.
type ClockBuilderOption func(*clockImpl)

// WithNow replaces the time source. Intended for tests that need a controllable clock.
//
// Parameters:
//   - now: function returning the current time
//
// Returns:
//   - ClockBuilderOption: a function that sets the clock's time source
func WithNow(now func() time.Time) ClockBuilderOption {
	return func(c *clockImpl) {
		c.now = now
	}
}
