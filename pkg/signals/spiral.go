package signals

import (
	"math"

	"github.com/teslashibe/go-beetle/pkg/motion"
)

// Spiral detects circling motion that tightens toward the center.
type Spiral struct {
	cfg        SpiralConfig
	radius     float64
	hasRadius  bool
	shrinkRate float64
	spiraling  bool
}

// NewSpiral creates a spiral detector.
func NewSpiral(cfg SpiralConfig) *Spiral {
	return &Spiral{cfg: cfg}
}

// Step records this frame's orbit radius and re-evaluates the spiral condition.
func (s *Spiral) Step(radius, angularVelocity, dt float64) {
	if !motion.ValidDelta(dt) || !motion.Finite(radius) {
		return
	}

	if s.hasRadius {
		inst := (radius - s.radius) / dt
		if motion.Finite(inst) {
			s.shrinkRate += (inst - s.shrinkRate) * s.cfg.Smoothing
		}
	}
	s.radius = radius
	s.hasRadius = true

	s.spiraling = math.Abs(angularVelocity) > s.cfg.MinAngularVelocity &&
		s.shrinkRate < s.cfg.ShrinkThreshold
}

// Reset clears radius history.
func (s *Spiral) Reset() {
	*s = Spiral{cfg: s.cfg}
}

// OrbitRadius returns the last recorded distance from center.
func (s *Spiral) OrbitRadius() float64 { return s.radius }

// ShrinkRate returns the smoothed radius change (units/s, negative = inward).
func (s *Spiral) ShrinkRate() float64 { return s.shrinkRate }

// IsSpiraling reports whether the pointer is spiraling inward.
func (s *Spiral) IsSpiraling() bool { return s.spiraling }
