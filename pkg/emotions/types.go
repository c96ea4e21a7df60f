// Package emotions turns per-frame gestures into the creature's mood.
//
// The Orchestrator is a six-state machine (Peace, Listening, Tension,
// Bleeding, Trauma, Healing) running alongside a ReactionBank of four gesture
// accumulators. Each call to Update consumes one frame of input and produces
// a smoothed Output for rendering and audio collaborators.
package emotions

import (
	"fmt"

	"github.com/teslashibe/go-beetle/pkg/gesture"
	"github.com/teslashibe/go-beetle/pkg/motion"
)

// Phase is the creature's top-level emotional state.
type Phase int

const (
	// Peace is the resting state.
	Peace Phase = iota

	// Listening is the short attentive pause after the pointer goes idle.
	Listening

	// Tension follows sustained movement.
	Tension

	// Bleeding follows sustained fast movement while tense.
	Bleeding

	// Trauma is the brief shock after heavy bleeding.
	Trauma

	// Healing restores breathing and responsiveness toward baseline.
	Healing
)

var phaseNames = [...]string{
	Peace:     "peace",
	Listening: "listening",
	Tension:   "tension",
	Bleeding:  "bleeding",
	Trauma:    "trauma",
	Healing:   "healing",
}

// String returns a human-readable phase name.
func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a phase name.
func (p *Phase) UnmarshalText(b []byte) error {
	parsed, err := ParsePhase(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePhase returns the phase with the given name.
func ParsePhase(name string) (Phase, error) {
	for i, n := range phaseNames {
		if n == name {
			return Phase(i), nil
		}
	}
	return Peace, fmt.Errorf("%w: %q", ErrUnknownPhase, name)
}

// Input is one frame of upstream signals.
type Input struct {
	Gesture         gesture.Label
	Velocity        float64
	AngularVelocity float64
	Position        motion.Vec2
	Delta           motion.Vec2
	Contact         bool

	// IdleTime is the motion sampler's idle accumulator: how long velocity
	// has stayed below the idle threshold.
	IdleTime float64

	// Touch metrics only scale effect strengths. Zero means not reported.
	Radius   float64
	Pressure float64
}

// Reactions holds the gesture accumulators, each in [0,1].
type Reactions struct {
	StrokeCalm     float64 `json:"stroke_calm"`
	PokeStartle    float64 `json:"poke_startle"`
	OrbitSync      float64 `json:"orbit_sync"`
	TrembleNervous float64 `json:"tremble_nervous"`
}

// Effects are one-shot or per-frame requests for the rendering collaborator.
type Effects struct {
	StartBleeding  bool `json:"start_bleeding,omitempty"`
	StopBleeding   bool `json:"stop_bleeding,omitempty"`
	ReturnToOrigin bool `json:"return_to_origin,omitempty"`

	// Evaporation is the particle evaporation rate requested this frame.
	Evaporation float64 `json:"evaporation,omitempty"`

	Ripple         bool        `json:"ripple,omitempty"`
	RippleOrigin   motion.Vec2 `json:"ripple_origin"`
	RippleStrength float64     `json:"ripple_strength,omitempty"`
}

// Output is the parameter set produced by one Update.
type Output struct {
	Phase         Phase         `json:"phase"`
	PreviousPhase Phase         `json:"previous_phase"`
	PhaseChanged  bool          `json:"phase_changed"`
	Gesture       gesture.Label `json:"gesture"`

	BreathSpeed   float64 `json:"breath_speed"` // rad/s
	BreathDepth   float64 `json:"breath_depth"`
	PauseFactor   float64 `json:"pause_factor"`
	ResponseLag   float64 `json:"response_lag"`
	ColorProgress float64 `json:"color_progress"`
	NoiseAmount   float64 `json:"noise_amount"`
	Goosebumps    float64 `json:"goosebumps"`

	Trauma  float64 `json:"trauma"`
	Tension float64 `json:"tension"`

	RollStrength     float64 `json:"roll_strength"`
	CursorInfluence  float64 `json:"cursor_influence"`
	CursorAttraction float64 `json:"cursor_attraction"`

	Reactions Reactions `json:"reactions"`
	Effects   Effects   `json:"effects"`
}
