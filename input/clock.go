package input

import "time"

// Clock is a monotonic time source measured from an arbitrary origin.
type Clock interface {
	Now() time.Duration
}

// SystemClock reads the process monotonic clock.
type SystemClock struct {
	start time.Time
}

func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

func (c *SystemClock) Now() time.Duration {
	return time.Since(c.start)
}

// StepClock advances only when told to. Headless runs and tests tick it once
// per logical frame.
type StepClock struct {
	Step time.Duration
	now  time.Duration
}

func NewStepClock(step time.Duration) *StepClock {
	return &StepClock{Step: step}
}

func (c *StepClock) Now() time.Duration {
	return c.now
}

// Advance moves the clock forward by one step.
func (c *StepClock) Advance() {
	c.now += c.Step
}

// Set moves the clock to t.
func (c *StepClock) Set(t time.Duration) {
	c.now = t
}
