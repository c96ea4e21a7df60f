package motion

// Config holds the thresholds used by the motion sampler.
type Config struct {
	HistorySize     int     // Speed samples averaged into Velocity
	IdleVelocity    float64 // Below this the pointer counts as idle
	FranticVelocity float64 // Above this the pointer counts as frantic
}

// DefaultConfig returns the tuned sampler thresholds.
func DefaultConfig() Config {
	return Config{
		HistorySize:     10,
		IdleVelocity:    0.01,
		FranticVelocity: 0.15,
	}
}
