package game

import "fmt"

// hoursPerDay is when the hour counter rolls over.
const hoursPerDay = 24

// Clock tracks simulated time as a day counter and an hour within the day.
type Clock struct {
	Day  uint
	Hour float64

	step float64 // hours per tick
}

// NewClock creates a clock at day 0, hour 0 advancing step hours per tick.
func NewClock(step float64) Clock {
	return Clock{step: step}
}

// Advance moves the clock forward one tick. The hour resets to 0 and the day
// increments when the hour reaches 24.
func (c *Clock) Advance() {
	c.Hour += c.step
	if c.Hour >= hoursPerDay {
		c.Hour = 0
		c.Day++
	}
}

// Days returns elapsed time in fractional days.
func (c Clock) Days() float64 {
	return float64(c.Day) + c.Hour/hoursPerDay
}

// String renders the clock the way the board header shows it.
func (c Clock) String() string {
	return fmt.Sprintf("DAY: %d HOUR: %02d", c.Day, int(c.Hour))
}
