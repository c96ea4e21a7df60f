package signals

import (
	"math"

	"github.com/teslashibe/go-beetle/pkg/motion"
)

// HesitationPhase is the state of the hesitation detector.
type HesitationPhase int

const (
	// HesitationNone means no approach is in progress.
	HesitationNone HesitationPhase = iota

	// HesitationApproaching means the pointer is closing in on the creature.
	HesitationApproaching

	// HesitationPaused means the approach stopped short.
	HesitationPaused

	// HesitationRetreating means the pointer backed off after a pause.
	HesitationRetreating
)

// String returns a human-readable phase name.
func (p HesitationPhase) String() string {
	switch p {
	case HesitationNone:
		return "none"
	case HesitationApproaching:
		return "approaching"
	case HesitationPaused:
		return "paused"
	case HesitationRetreating:
		return "retreating"
	default:
		return "unknown"
	}
}

// MarshalText encodes the phase by name.
func (p HesitationPhase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Hesitation detects approach → pause → retreat sequences from approach speed.
// Exactly one phase is active at a time; the timer belongs to that phase.
type Hesitation struct {
	cfg       HesitationConfig
	phase     HesitationPhase
	timer     float64
	completed bool
}

// NewHesitation creates a detector in HesitationNone.
func NewHesitation(cfg HesitationConfig) *Hesitation {
	return &Hesitation{cfg: cfg}
}

// Step advances the detector by one frame.
// approachSpeed is negative while the pointer moves toward the center.
func (h *Hesitation) Step(approachSpeed, dt float64) {
	if !motion.ValidDelta(dt) || !motion.Finite(approachSpeed) {
		return
	}
	h.completed = false

	a := approachSpeed
	switch h.phase {
	case HesitationNone:
		if a < h.cfg.ApproachThreshold {
			h.enter(HesitationApproaching)
		}

	case HesitationApproaching:
		switch {
		case math.Abs(a) < h.cfg.PauseThreshold:
			h.enter(HesitationPaused)
		case a > h.cfg.RetreatThreshold:
			// Backed off without stopping first
			h.enter(HesitationNone)
		default:
			h.timer += dt
			if h.timer >= h.cfg.ApproachTimeout {
				h.enter(HesitationNone)
			}
		}

	case HesitationPaused:
		// The pause length is judged before this frame's time is added.
		switch {
		case a > h.cfg.RetreatThreshold:
			if h.timer >= h.cfg.MinPause {
				h.enter(HesitationRetreating)
				h.completed = true
			} else {
				h.enter(HesitationNone)
			}
		case a < h.cfg.ApproachThreshold:
			h.enter(HesitationApproaching)
		default:
			h.timer += dt
			if h.timer > h.cfg.MaxPause {
				h.enter(HesitationNone)
			}
		}

	case HesitationRetreating:
		h.timer += dt
		if h.timer >= h.cfg.RetreatGrace {
			h.enter(HesitationNone)
		}
	}
}

func (h *Hesitation) enter(p HesitationPhase) {
	h.phase = p
	h.timer = 0
}

// Reset returns the detector to HesitationNone.
func (h *Hesitation) Reset() {
	h.enter(HesitationNone)
	h.completed = false
}

// Phase returns the current phase.
func (h *Hesitation) Phase() HesitationPhase { return h.phase }

// Timer returns time spent in the current phase.
func (h *Hesitation) Timer() float64 { return h.timer }

// Completed is true only on the frame a paused approach turned into a retreat.
func (h *Hesitation) Completed() bool { return h.completed }
