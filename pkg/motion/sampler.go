// Package motion turns raw pointer positions into per-frame motion metrics.
//
// The Sampler is the leaf of the frame pipeline: the input collaborator sets the
// latest pointer position, then Update(dt) derives displacement, a smoothed
// velocity and idle/frantic accumulators for that frame.
package motion

// Sampler tracks the pointer across frames.
// It is not safe for concurrent use; one driver goroutine owns it.
type Sampler struct {
	cfg Config

	pos      Vec2
	prev     Vec2
	hasPrev  bool
	detached bool
	rebased  bool

	// Ring buffer of instantaneous speeds
	speeds []float64
	next   int
	count  int

	velocity     float64
	rawSpeed     float64
	prevRawSpeed float64
	lastDelta    Vec2

	idleTime    float64
	franticTime float64
}

// NewSampler creates a sampler with the given configuration.
func NewSampler(cfg Config) *Sampler {
	if cfg.HistorySize < 1 {
		cfg.HistorySize = 1
	}
	return &Sampler{
		cfg:    cfg,
		speeds: make([]float64, cfg.HistorySize),
	}
}

// SetPosition records the latest pointer position. Values are clamped to the
// normalized range; non-finite positions are ignored.
func (s *Sampler) SetPosition(p Vec2) {
	if !p.IsFinite() {
		return
	}
	if s.detached {
		s.hasPrev = false
		s.detached = false
	}
	s.pos = p.Clamp()
}

// Rebase makes the next Update measure motion from the current position, so
// a pointer that lands somewhere new does not count as a jump.
func (s *Sampler) Rebase() {
	s.hasPrev = false
}

// Detach marks the pointer as off the surface. The next position it reports
// starts a fresh track instead of being measured against the last one.
func (s *Sampler) Detach() {
	s.hasPrev = false
	s.detached = true
}

// Update advances the sampler by one frame of dt seconds.
func (s *Sampler) Update(dt float64) {
	if !ValidDelta(dt) {
		return
	}

	s.rebased = !s.hasPrev
	if !s.hasPrev {
		s.prev = s.pos
		s.hasPrev = true
	}

	delta := s.pos.Sub(s.prev)
	s.lastDelta = delta
	s.prev = s.pos

	speed := delta.Len() / dt
	if !Finite(speed) {
		// Keep the stale sample rather than poisoning the average
		speed = s.rawSpeed
	}
	s.prevRawSpeed = s.rawSpeed
	s.rawSpeed = speed
	s.push(speed)
	s.velocity = s.mean()

	switch {
	case s.velocity < s.cfg.IdleVelocity:
		s.idleTime += dt
		s.franticTime = 0
	case s.velocity > s.cfg.FranticVelocity:
		s.franticTime += dt
		s.idleTime = 0
	default:
		s.idleTime = 0
		s.franticTime = 0
	}
}

func (s *Sampler) push(speed float64) {
	s.speeds[s.next] = speed
	s.next = (s.next + 1) % len(s.speeds)
	if s.count < len(s.speeds) {
		s.count++
	}
}

func (s *Sampler) mean() float64 {
	if s.count == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < s.count; i++ {
		sum += s.speeds[i]
	}
	return sum / float64(s.count)
}

// Reset clears all history. The current position is kept.
func (s *Sampler) Reset() {
	s.hasPrev, s.detached, s.rebased = false, false, false
	for i := range s.speeds {
		s.speeds[i] = 0
	}
	s.next, s.count = 0, 0
	s.velocity, s.rawSpeed, s.prevRawSpeed = 0, 0, 0
	s.lastDelta = Vec2{}
	s.idleTime, s.franticTime = 0, 0
}

// Position returns the current pointer position.
func (s *Sampler) Position() Vec2 { return s.pos }

// Velocity returns the mean speed over the last HistorySize frames (units/s).
func (s *Sampler) Velocity() float64 { return s.velocity }

// RawSpeed returns this frame's instantaneous speed (units/s).
func (s *Sampler) RawSpeed() float64 { return s.rawSpeed }

// PrevRawSpeed returns the previous frame's instantaneous speed.
func (s *Sampler) PrevRawSpeed() float64 { return s.prevRawSpeed }

// Rebased reports whether this frame started a fresh track with no
// previous position to measure against.
func (s *Sampler) Rebased() bool { return s.rebased }

// LastDelta returns this frame's displacement.
func (s *Sampler) LastDelta() Vec2 { return s.lastDelta }

// DistanceFromCenter returns the pointer's distance from screen center.
func (s *Sampler) DistanceFromCenter() float64 { return s.pos.Len() }

// IdleTime returns how long velocity has stayed below IdleVelocity.
func (s *Sampler) IdleTime() float64 { return s.idleTime }

// FranticTime returns how long velocity has stayed above FranticVelocity.
func (s *Sampler) FranticTime() float64 { return s.franticTime }
