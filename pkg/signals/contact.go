package signals

import "github.com/teslashibe/go-beetle/pkg/motion"

// Contact tracks press/release timing for tap and flick detection.
//
// Press and Release arrive between frames. A release is published by the next
// Step as JustReleased and cleared again by the Step after that, so the flag
// is visible to exactly one classification pass.
type Contact struct {
	active  bool
	elapsed float64

	pending         bool
	pendingDuration float64

	justReleased bool
	duration     float64
	exitVelocity float64
}

// Press records contact-down.
func (c *Contact) Press() {
	c.active = true
	c.elapsed = 0
}

// Release records contact-up. Releasing without a press is ignored.
func (c *Contact) Release() {
	if !c.active {
		return
	}
	c.active = false
	c.pending = true
	c.pendingDuration = c.elapsed
}

// Step publishes any queued release and advances the contact clock.
// velocity is the pointer velocity sampled this frame.
func (c *Contact) Step(velocity, dt float64) {
	if !motion.ValidDelta(dt) {
		return
	}
	c.justReleased = false
	if c.pending {
		c.pending = false
		c.justReleased = true
		c.duration = c.pendingDuration
		c.exitVelocity = velocity
	}
	if c.active {
		c.elapsed += dt
	}
}

// Active reports whether contact is currently down.
func (c *Contact) Active() bool { return c.active }

// JustReleased is true for the single frame after a release.
func (c *Contact) JustReleased() bool { return c.justReleased }

// Duration returns how long the last released contact lasted.
func (c *Contact) Duration() float64 { return c.duration }

// ExitVelocity returns pointer velocity at the last release.
func (c *Contact) ExitVelocity() float64 { return c.exitVelocity }
