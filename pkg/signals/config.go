package signals

// Config holds all thresholds for the derived-signal layer.
type Config struct {
	// Directional consistency
	DirectionWindow    int     // Direction vectors averaged for consistency
	DirectionSmoothing float64 // EMA factor for the published direction
	MinDirectionStep   float64 // Displacements shorter than this carry no direction

	// Angular velocity around screen center
	AngularSmoothing float64 // EMA factor
	MinOrbitRadius   float64 // Angle is undefined this close to center

	// Approach speed (rate of change of distance from center)
	ApproachSmoothing float64

	// Hover and hold
	HoverRadius     float64 // Re-anchor hover beyond this drift
	HoldDriftRadius float64 // Re-anchor hold beyond this drift

	// Poke bookkeeping
	IdleVelocity float64 // Raw speed below this counts as stopped
	HighVelocity float64 // Raw speed above this counts as a strike
	PokeWindow   float64 // Strike must precede the stop by at most this (s)

	Hesitation HesitationConfig
	Spiral     SpiralConfig
}

// HesitationConfig tunes the approach/pause/retreat detector.
type HesitationConfig struct {
	ApproachThreshold float64 // approachSpeed below this starts an approach
	PauseThreshold    float64 // |approachSpeed| below this counts as paused
	RetreatThreshold  float64 // approachSpeed above this counts as retreating
	ApproachTimeout   float64 // Give up on an approach that never pauses (s)
	MinPause          float64 // Shortest pause that completes a hesitation (s)
	MaxPause          float64 // Abandon a pause that never resolves (s)
	RetreatGrace      float64 // How long retreating stays observable (s)
}

// SpiralConfig tunes the inward-spiral detector.
type SpiralConfig struct {
	Smoothing          float64 // EMA factor for shrink rate
	MinAngularVelocity float64 // |angularVelocity| must exceed this (rad/s)
	ShrinkThreshold    float64 // Shrink rate must fall below this (units/s)
}

// DefaultConfig returns the tuned classifier thresholds.
func DefaultConfig() Config {
	return Config{
		DirectionWindow:    15,
		DirectionSmoothing: 0.3,
		MinDirectionStep:   1e-4,

		AngularSmoothing: 0.2,
		MinOrbitRadius:   0.02,

		ApproachSmoothing: 0.3,

		HoverRadius:     0.05,
		HoldDriftRadius: 0.08,

		IdleVelocity: 0.01,
		HighVelocity: 0.25,
		PokeWindow:   0.15,

		Hesitation: HesitationConfig{
			ApproachThreshold: -0.15,
			PauseThreshold:    0.05,
			RetreatThreshold:  0.1,
			ApproachTimeout:   2.0,
			MinPause:          0.3,
			MaxPause:          3.0,
			RetreatGrace:      0.5,
		},
		Spiral: SpiralConfig{
			Smoothing:          0.2,
			MinAngularVelocity: 0.8,
			ShrinkThreshold:    -0.08,
		},
	}
}
