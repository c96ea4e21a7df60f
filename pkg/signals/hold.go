package signals

import "github.com/teslashibe/go-beetle/pkg/motion"

// Hold measures how long a pressed pointer stays near one spot.
type Hold struct {
	driftRadius float64
	holding     bool
	anchor      motion.Vec2
	duration    float64
}

// NewHold creates a hold tracker that re-anchors beyond driftRadius.
func NewHold(driftRadius float64) *Hold {
	return &Hold{driftRadius: driftRadius}
}

// Begin starts a hold anchored at pos.
func (h *Hold) Begin(pos motion.Vec2) {
	h.holding = true
	h.anchor = pos
	h.duration = 0
}

// End stops the hold (contact-up or pointer-leave).
func (h *Hold) End() {
	h.holding = false
	h.duration = 0
}

// Step accumulates hold time, or re-anchors if the pointer drifted too far.
func (h *Hold) Step(pos motion.Vec2, dt float64) {
	if !h.holding || !motion.ValidDelta(dt) {
		return
	}
	if pos.Dist(h.anchor) < h.driftRadius {
		h.duration += dt
		return
	}
	h.anchor = pos
	h.duration = 0
}

// IsHolding reports whether contact is down.
func (h *Hold) IsHolding() bool { return h.holding }

// Duration returns time spent within the drift radius of the anchor.
func (h *Hold) Duration() float64 { return h.duration }

// Anchor returns the current hold anchor.
func (h *Hold) Anchor() motion.Vec2 { return h.anchor }
