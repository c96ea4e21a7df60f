package gesture

// Config holds the thresholds used by the priority rules.
type Config struct {
	IdleVelocity float64 // idle: velocity below this

	TapMaxDuration     float64 // tap: contact shorter than this (s)
	TapMaxExitVelocity float64 // tap: released slower than this

	FlickMinExitVelocity float64 // flick: released at least this fast

	OrbitMinAngularVelocity float64 // orbit: |angular velocity| above this (rad/s)
	OrbitMinVelocity        float64 // orbit: velocity above this

	TrembleMinVelocity    float64 // tremble: velocity above this
	TrembleMaxConsistency float64 // tremble: consistency below this

	StrokeMaxVelocity    float64 // stroke: velocity below this
	StrokeMinConsistency float64 // stroke: consistency above this
}

// DefaultConfig returns the tuned gesture thresholds.
func DefaultConfig() Config {
	return Config{
		IdleVelocity: 0.01,

		TapMaxDuration:     0.3,
		TapMaxExitVelocity: 0.1,

		FlickMinExitVelocity: 0.3,

		OrbitMinAngularVelocity: 1.5,
		OrbitMinVelocity:        0.05,

		TrembleMinVelocity:    0.18,
		TrembleMaxConsistency: 0.35,

		StrokeMaxVelocity:    0.15,
		StrokeMinConsistency: 0.7,
	}
}
