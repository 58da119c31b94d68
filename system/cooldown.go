package system

import "time"

// Cooldown gates a repeated action on elapsed clock time. An unmarked
// cooldown is always ready.
type Cooldown struct {
	Min time.Duration
	// Strict requires strictly more than Min to have elapsed.
	Strict bool

	last   time.Duration
	marked bool
}

func (c *Cooldown) Ready(now time.Duration) bool {
	if !c.marked {
		return true
	}
	elapsed := now - c.last
	if c.Strict {
		return elapsed > c.Min
	}
	return elapsed >= c.Min
}

func (c *Cooldown) Mark(now time.Duration) {
	c.last = now
	c.marked = true
}
