package emotions

// Config holds every threshold, rate and duration used by the Orchestrator.
// Rates are per second, durations in seconds.
type Config struct {
	IdleVelocity float64

	// Listening
	ListenIdleMin           float64
	ListenIdleMax           float64
	ListenResetVelocity     float64
	ListenInterruptVelocity float64
	ListenDuration          float64
	ListenDepthBoost        float64

	// Tension
	TensionVelocity  float64
	TensionSustain   float64
	TensionGainRate  float64
	TensionDecayRate float64

	StrokeTensionDrain float64
	TrembleTensionFeed float64
	PokeTensionSpike   float64
	PokeTensionCap     float64

	// Bleeding
	BleedVelocity    float64
	BleedSustain     float64
	BleedIdleExit    float64
	BleedTraumaRate  float64
	BleedTraumaDelay float64
	EvaporationRate  float64
	TraumaThreshold  float64

	// Trauma and healing
	TraumaMinAge       float64
	ExitVelocity       float64
	HealingDuration    float64
	HealingExitTrauma  float64
	HealingRestoreRate float64
	HealingTraumaDecay float64
	IdleTraumaDecay    float64

	// Breathing
	BaseBreathSpeed float64
	TensionBreath   float64
	TraumaBreath    float64
	PhaseBlendRate  float64
	DepthRelaxRate  float64
	MaxBreathDepth  float64

	// Color and surface
	ColorVelocityWeight float64
	ColorTensionWeight  float64
	ColorBleedBoost     float64
	ColorSmoothing      float64
	GoosebumpSmoothing  float64 // fraction per frame
	BaseNoise           float64

	// Response lag
	TraumaLagBase   float64
	TraumaLagSpan   float64
	ResidualLagSpan float64
	MinResponseLag  float64

	ReturnToOriginIdle float64

	Reactions ReactionConfig
}

// ReactionConfig holds the gesture accumulator rates and their breathing
// modifiers.
type ReactionConfig struct {
	StrokeGain   float64
	StrokeDecay  float64
	PokeDebounce float64
	PokeDecay    float64
	OrbitGain    float64
	OrbitDecay   float64
	TrembleGain  float64
	TrembleDecay float64

	StrokeBreathDamp float64
	StrokeNoiseDamp  float64
	SlowOrbitBreath  float64
	FastOrbitBreath  float64
	OrbitMaxAngular  float64
	TrembleBreathMin float64
	TrembleBreathMax float64
}

// DefaultConfig returns the tuned orchestrator constants.
func DefaultConfig() Config {
	return Config{
		IdleVelocity: 0.01,

		ListenIdleMin:           0.3,
		ListenIdleMax:           0.6,
		ListenResetVelocity:     0.02,
		ListenInterruptVelocity: 0.05,
		ListenDuration:          0.06,
		ListenDepthBoost:        1.1,

		TensionVelocity:  0.1,
		TensionSustain:   0.15,
		TensionGainRate:  1.0,
		TensionDecayRate: 0.5,

		StrokeTensionDrain: 0.6,
		TrembleTensionFeed: 0.4,
		PokeTensionSpike:   0.3,
		PokeTensionCap:     0.5,

		BleedVelocity:    0.15,
		BleedSustain:     0.25,
		BleedIdleExit:    0.3,
		BleedTraumaRate:  0.25,
		BleedTraumaDelay: 2.0,
		EvaporationRate:  0.15,
		TraumaThreshold:  0.3,

		TraumaMinAge:       0.5,
		ExitVelocity:       0.1,
		HealingDuration:    3.0,
		HealingExitTrauma:  0.1,
		HealingRestoreRate: 1.2,
		HealingTraumaDecay: 0.1,
		IdleTraumaDecay:    0.01,

		BaseBreathSpeed: 1.2,
		TensionBreath:   1.4,
		TraumaBreath:    0.6,
		PhaseBlendRate:  4.0,
		DepthRelaxRate:  0.5,
		MaxBreathDepth:  1.5,

		ColorVelocityWeight: 0.8,
		ColorTensionWeight:  0.3,
		ColorBleedBoost:     0.3,
		ColorSmoothing:      0.4,
		GoosebumpSmoothing:  0.15,
		BaseNoise:           0.12,

		TraumaLagBase:   0.7,
		TraumaLagSpan:   0.4,
		ResidualLagSpan: 0.3,
		MinResponseLag:  0.1,

		ReturnToOriginIdle: 1.0,

		Reactions: DefaultReactionConfig(),
	}
}

// DefaultReactionConfig returns the tuned gesture accumulator constants.
func DefaultReactionConfig() ReactionConfig {
	return ReactionConfig{
		StrokeGain:   0.8,
		StrokeDecay:  0.3,
		PokeDebounce: 0.1,
		PokeDecay:    2.0,
		OrbitGain:    0.5,
		OrbitDecay:   0.4,
		TrembleGain:  1.5,
		TrembleDecay: 0.5,

		StrokeBreathDamp: 0.3,
		StrokeNoiseDamp:  0.5,
		SlowOrbitBreath:  0.5,
		FastOrbitBreath:  1.2,
		OrbitMaxAngular:  3.0,
		TrembleBreathMin: 1.3,
		TrembleBreathMax: 1.7,
	}
}
