// Package signals derives continuous gesture signals from motion samples.
//
// The Classifier runs once per frame after the motion.Sampler. It computes
// directional consistency, angular velocity around screen center, approach
// speed and hover duration, and drives four independent sub-machines: Hold,
// Contact (tap/flick), Hesitation and Spiral. Each sub-machine owns its own
// phase and timer; the Classifier only composes them in a fixed order.
package signals

import (
	"github.com/teslashibe/go-beetle/pkg/motion"
)

// Snapshot is the classifier's view of one frame, consumed by gesture
// resolution and by external observers.
type Snapshot struct {
	Time     float64     `json:"time"`
	Position motion.Vec2 `json:"position"`
	Delta    motion.Vec2 `json:"delta"`
	Velocity float64     `json:"velocity"`
	RawSpeed float64     `json:"raw_speed"`

	IdleTime    float64 `json:"idle_time"`
	FranticTime float64 `json:"frantic_time"`

	DirectionalConsistency float64     `json:"directional_consistency"`
	Direction              motion.Vec2 `json:"direction"`
	AngularVelocity        float64     `json:"angular_velocity"`
	ApproachSpeed          float64     `json:"approach_speed"`
	HoverDuration          float64     `json:"hover_duration"`

	Holding      bool        `json:"holding"`
	HoldDuration float64     `json:"hold_duration"`
	HoldAnchor   motion.Vec2 `json:"hold_anchor"`

	Contact         bool    `json:"contact"`
	JustReleased    bool    `json:"just_released"`
	ContactDuration float64 `json:"contact_duration"`
	ExitVelocity    float64 `json:"exit_velocity"`

	JustStopped        bool `json:"just_stopped"`
	RecentHighVelocity bool `json:"recent_high_velocity"`

	Hesitation          HesitationPhase `json:"hesitation"`
	HesitationCompleted bool            `json:"hesitation_completed"`

	OrbitRadius float64 `json:"orbit_radius"`
	ShrinkRate  float64 `json:"shrink_rate"`
	Spiraling   bool    `json:"spiraling"`
}

// Classifier computes derived signals from a motion.Sampler.
// It is not safe for concurrent use.
type Classifier struct {
	cfg     Config
	sampler *motion.Sampler

	hold       *Hold
	contact    *Contact
	hesitation *Hesitation
	spiral     *Spiral

	// Directional consistency window
	directions  []motion.Vec2
	dirNext     int
	dirCount    int
	consistency float64
	direction   motion.Vec2

	prevAngle       float64
	hasAngle        bool
	angularVelocity float64

	prevDistance  float64
	hasDistance   bool
	approachSpeed float64

	hoverAnchor   motion.Vec2
	hasHover      bool
	hoverDuration float64

	justStopped       bool
	sinceHighVelocity float64
	seenHighVelocity  bool

	time float64
}

// NewClassifier creates a classifier reading from sampler.
func NewClassifier(cfg Config, sampler *motion.Sampler) *Classifier {
	if cfg.DirectionWindow < 1 {
		cfg.DirectionWindow = 1
	}
	return &Classifier{
		cfg:        cfg,
		sampler:    sampler,
		hold:       NewHold(cfg.HoldDriftRadius),
		contact:    &Contact{},
		hesitation: NewHesitation(cfg.Hesitation),
		spiral:     NewSpiral(cfg.Spiral),
		directions: make([]motion.Vec2, cfg.DirectionWindow),
	}
}

// PointerDown starts a hold and a contact at the current position. Motion is
// measured from the contact point onward.
func (c *Classifier) PointerDown() {
	c.sampler.Rebase()
	c.hold.Begin(c.sampler.Position())
	c.contact.Press()
}

// PointerUp ends the hold and queues a release for the next frame.
func (c *Classifier) PointerUp() {
	c.hold.End()
	c.contact.Release()
}

// PointerLeave behaves like PointerUp; the pointer left the surface and its
// next position starts a fresh track.
func (c *Classifier) PointerLeave() {
	c.PointerUp()
	c.sampler.Detach()
}

// Update advances every derived signal by one frame. Call after Sampler.Update.
func (c *Classifier) Update(dt float64) {
	if !motion.ValidDelta(dt) {
		return
	}
	c.time += dt

	pos := c.sampler.Position()
	radius := pos.Len()
	if c.sampler.Rebased() {
		c.hasAngle = false
		c.hasDistance = false
	}

	c.updateDirection(c.sampler.LastDelta())
	c.updateAngular(pos, radius, dt)
	c.updateApproach(radius, dt)
	c.updateHover(pos, dt)
	c.updateStrike(dt)

	c.hold.Step(pos, dt)
	c.contact.Step(c.sampler.Velocity(), dt)
	c.hesitation.Step(c.approachSpeed, dt)
	c.spiral.Step(radius, c.angularVelocity, dt)
}

func (c *Classifier) updateDirection(delta motion.Vec2) {
	if delta.Len() <= c.cfg.MinDirectionStep {
		return
	}
	dir := delta.Normalize()

	c.directions[c.dirNext] = dir
	c.dirNext = (c.dirNext + 1) % len(c.directions)
	if c.dirCount < len(c.directions) {
		c.dirCount++
	}

	var sum motion.Vec2
	for i := 0; i < c.dirCount; i++ {
		sum = sum.Add(c.directions[i])
	}
	c.consistency = motion.Clamp(sum.Scale(1/float64(c.dirCount)).Len(), 0, 1)
	c.direction = c.direction.Lerp(dir, c.cfg.DirectionSmoothing)
}

func (c *Classifier) updateAngular(pos motion.Vec2, radius, dt float64) {
	if radius < c.cfg.MinOrbitRadius {
		// Angle is meaningless near center; let the orbit estimate fade out.
		c.hasAngle = false
		c.angularVelocity -= c.angularVelocity * c.cfg.AngularSmoothing
		return
	}
	angle := pos.Angle()
	if c.hasAngle {
		inst := motion.WrapAngle(angle-c.prevAngle) / dt
		if motion.Finite(inst) {
			c.angularVelocity += (inst - c.angularVelocity) * c.cfg.AngularSmoothing
		}
	}
	c.prevAngle = angle
	c.hasAngle = true
}

func (c *Classifier) updateApproach(radius, dt float64) {
	if c.hasDistance {
		inst := (radius - c.prevDistance) / dt
		if motion.Finite(inst) {
			c.approachSpeed += (inst - c.approachSpeed) * c.cfg.ApproachSmoothing
		}
	}
	c.prevDistance = radius
	c.hasDistance = true
}

func (c *Classifier) updateHover(pos motion.Vec2, dt float64) {
	if !c.hasHover || pos.Dist(c.hoverAnchor) > c.cfg.HoverRadius {
		c.hoverAnchor = pos
		c.hoverDuration = 0
		c.hasHover = true
		return
	}
	c.hoverDuration += dt
}

// updateStrike keeps the bookkeeping poke detection needs: whether movement
// stopped this frame and how long ago the last fast sample was.
func (c *Classifier) updateStrike(dt float64) {
	raw := c.sampler.RawSpeed()
	c.justStopped = c.sampler.PrevRawSpeed() >= c.cfg.IdleVelocity && raw < c.cfg.IdleVelocity

	if raw > c.cfg.HighVelocity {
		c.sinceHighVelocity = 0
		c.seenHighVelocity = true
	} else if c.seenHighVelocity {
		c.sinceHighVelocity += dt
	}
}

// Snapshot returns this frame's signals.
func (c *Classifier) Snapshot() Snapshot {
	return Snapshot{
		Time:     c.time,
		Position: c.sampler.Position(),
		Delta:    c.sampler.LastDelta(),
		Velocity: c.sampler.Velocity(),
		RawSpeed: c.sampler.RawSpeed(),

		IdleTime:    c.sampler.IdleTime(),
		FranticTime: c.sampler.FranticTime(),

		DirectionalConsistency: c.consistency,
		Direction:              c.direction,
		AngularVelocity:        c.angularVelocity,
		ApproachSpeed:          c.approachSpeed,
		HoverDuration:          c.hoverDuration,

		Holding:      c.hold.IsHolding(),
		HoldDuration: c.hold.Duration(),
		HoldAnchor:   c.hold.Anchor(),

		Contact:         c.contact.Active(),
		JustReleased:    c.contact.JustReleased(),
		ContactDuration: c.contact.Duration(),
		ExitVelocity:    c.contact.ExitVelocity(),

		JustStopped:        c.justStopped,
		RecentHighVelocity: c.seenHighVelocity && c.sinceHighVelocity <= c.cfg.PokeWindow,

		Hesitation:          c.hesitation.Phase(),
		HesitationCompleted: c.hesitation.Completed(),

		OrbitRadius: c.spiral.OrbitRadius(),
		ShrinkRate:  c.spiral.ShrinkRate(),
		Spiraling:   c.spiral.IsSpiraling(),
	}
}

// Hesitation exposes the hesitation sub-machine for inspection.
func (c *Classifier) Hesitation() *Hesitation { return c.hesitation }

// Spiral exposes the spiral sub-machine for inspection.
func (c *Classifier) Spiral() *Spiral { return c.spiral }

// Hold exposes the hold sub-machine for inspection.
func (c *Classifier) Hold() *Hold { return c.hold }
