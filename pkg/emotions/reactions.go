package emotions

import (
	"math"

	"github.com/teslashibe/go-beetle/pkg/gesture"
)

// ReactionBank holds four gesture accumulators that run every frame
// regardless of phase. Each rises on its own gesture and decays otherwise.
type ReactionBank struct {
	cfg ReactionConfig
	r   Reactions
}

// NewReactionBank creates an empty bank.
func NewReactionBank(cfg ReactionConfig) *ReactionBank {
	return &ReactionBank{cfg: cfg}
}

// Update advances the accumulators by one frame and reports whether a poke
// startle fired this frame.
func (b *ReactionBank) Update(label gesture.Label, dt float64) (poked bool) {
	if !validDelta(dt) {
		return false
	}
	c := b.cfg

	b.r.StrokeCalm = rise(b.r.StrokeCalm, label == gesture.Stroke, c.StrokeGain, c.StrokeDecay, dt)
	b.r.OrbitSync = rise(b.r.OrbitSync, label == gesture.Orbit, c.OrbitGain, c.OrbitDecay, dt)
	b.r.TrembleNervous = rise(b.r.TrembleNervous, label == gesture.Tremble, c.TrembleGain, c.TrembleDecay, dt)

	if label == gesture.Poke && b.r.PokeStartle < c.PokeDebounce {
		b.r.PokeStartle = 1
		return true
	}
	b.r.PokeStartle = clamp01(b.r.PokeStartle - c.PokeDecay*dt)
	return false
}

func rise(v float64, active bool, gain, decay, dt float64) float64 {
	if active {
		return clamp01(v + gain*dt)
	}
	return clamp01(v - decay*dt)
}

// BreathMultiplier applies the gesture modifiers to a phase breathing
// multiplier. angular is the current angular velocity in rad/s.
func (b *ReactionBank) BreathMultiplier(base, angular float64) float64 {
	c := b.cfg
	m := base * (1 - c.StrokeBreathDamp*b.r.StrokeCalm)

	if c.OrbitMaxAngular > 0 {
		speed := clamp01(math.Abs(angular) / c.OrbitMaxAngular)
		m = lerp(m, lerp(c.SlowOrbitBreath, c.FastOrbitBreath, speed), b.r.OrbitSync)
	}

	tn := b.r.TrembleNervous
	m *= lerp(1, lerp(c.TrembleBreathMin, c.TrembleBreathMax, tn), tn)
	return m
}

// Goosebumps returns the gesture-driven goosebump intensity.
func (b *ReactionBank) Goosebumps() float64 {
	return math.Max(b.r.PokeStartle, b.r.TrembleNervous)
}

// Values returns a copy of the accumulators.
func (b *ReactionBank) Values() Reactions { return b.r }

// Reset zeroes every accumulator.
func (b *ReactionBank) Reset() { b.r = Reactions{} }
