package blackjack

import "time"

// countdown is a single pending delayed action. It does not read the clock
// itself; the engine credits elapsed time on each tick and skips crediting
// while paused, which freezes the remaining duration.
type countdown struct {
	label     string
	remaining time.Duration
	action    func()
}

// schedule replaces any pending action
func (c *countdown) schedule(label string, d time.Duration, action func()) {
	c.label = label
	c.remaining = d
	c.action = action
}

func (c *countdown) cancel() {
	c.label = ""
	c.remaining = 0
	c.action = nil
}

func (c *countdown) pending() bool {
	return c.action != nil
}

func (c *countdown) elapse(d time.Duration) {
	if c.action != nil {
		c.remaining -= d
	}
}

// take returns the action if it is due and disarms the countdown
func (c *countdown) take() func() {
	if c.action == nil || c.remaining > 0 {
		return nil
	}
	fn := c.action
	c.cancel()
	return fn
}
