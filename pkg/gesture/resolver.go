package gesture

import (
	"math"

	"github.com/teslashibe/go-beetle/pkg/signals"
)

// Rule pairs a label with the guard that selects it.
type Rule struct {
	Label Label
	Match func(cfg Config, s signals.Snapshot) bool
}

// RulesVersion identifies the priority order in rules. Any reordering changes
// which label wins for overlapping signals and must bump this version.
const RulesVersion = 1

// rules is evaluated top to bottom; the first match wins. Later rules assume
// the earlier ones did not match.
var rules = []Rule{
	{Idle, func(c Config, s signals.Snapshot) bool {
		return s.Velocity < c.IdleVelocity
	}},
	{Tap, func(c Config, s signals.Snapshot) bool {
		return s.JustReleased && s.ContactDuration < c.TapMaxDuration && s.ExitVelocity < c.TapMaxExitVelocity
	}},
	{Flick, func(c Config, s signals.Snapshot) bool {
		return s.JustReleased && s.ExitVelocity >= c.FlickMinExitVelocity
	}},
	{Poke, func(c Config, s signals.Snapshot) bool {
		return s.JustStopped && s.RecentHighVelocity
	}},
	{Spiral, func(c Config, s signals.Snapshot) bool {
		return s.Spiraling
	}},
	{Hesitation, func(c Config, s signals.Snapshot) bool {
		return s.HesitationCompleted || s.Hesitation == signals.HesitationRetreating
	}},
	{Orbit, func(c Config, s signals.Snapshot) bool {
		return math.Abs(s.AngularVelocity) > c.OrbitMinAngularVelocity && s.Velocity > c.OrbitMinVelocity
	}},
	{Tremble, func(c Config, s signals.Snapshot) bool {
		return s.Velocity > c.TrembleMinVelocity && s.DirectionalConsistency < c.TrembleMaxConsistency
	}},
	{Stroke, func(c Config, s signals.Snapshot) bool {
		return s.Velocity < c.StrokeMaxVelocity && s.DirectionalConsistency > c.StrokeMinConsistency
	}},
	{Moving, func(Config, signals.Snapshot) bool {
		return true
	}},
}

// Rules returns a copy of the priority table, highest priority first.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Resolver picks exactly one label per frame.
type Resolver struct {
	cfg Config
}

// NewResolver creates a resolver with the given thresholds.
func NewResolver(cfg Config) *Resolver {
	return &Resolver{cfg: cfg}
}

// Classify returns the highest-priority label whose guard matches s.
// It has no side effects.
func (r *Resolver) Classify(s signals.Snapshot) Label {
	for _, rule := range rules {
		if rule.Match(r.cfg, s) {
			return rule.Label
		}
	}
	return Moving
}

// Config returns the resolver's thresholds.
func (r *Resolver) Config() Config { return r.cfg }

// SetConfig replaces the thresholds. The rule order is unaffected.
func (r *Resolver) SetConfig(cfg Config) { r.cfg = cfg }
