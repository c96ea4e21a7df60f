package creature

import "math"

// Tuning holds the real-time adjustable creature parameters.
// These can be modified via the tuning API or a tuning file without restarting.
type Tuning struct {
	// Breathing
	BaseBreathSpeed float64 `json:"base_breath_speed" yaml:"base_breath_speed"` // rad/s at rest
	BaseNoise       float64 `json:"base_noise" yaml:"base_noise"`               // Surface noise amplitude

	// Tension
	TensionGainRate    float64 `json:"tension_gain_rate" yaml:"tension_gain_rate"`
	TensionDecayRate   float64 `json:"tension_decay_rate" yaml:"tension_decay_rate"`
	StrokeTensionDrain float64 `json:"stroke_tension_drain" yaml:"stroke_tension_drain"`
	TrembleTensionFeed float64 `json:"tremble_tension_feed" yaml:"tremble_tension_feed"`

	// Bleeding and healing
	BleedTraumaRate    float64 `json:"bleed_trauma_rate" yaml:"bleed_trauma_rate"`
	BleedTraumaDelay   float64 `json:"bleed_trauma_delay" yaml:"bleed_trauma_delay"`
	EvaporationRate    float64 `json:"evaporation_rate" yaml:"evaporation_rate"`
	HealingDuration    float64 `json:"healing_duration" yaml:"healing_duration"`
	HealingRestoreRate float64 `json:"healing_restore_rate" yaml:"healing_restore_rate"`
	HealingTraumaDecay float64 `json:"healing_trauma_decay" yaml:"healing_trauma_decay"`

	// Smoothing
	ColorSmoothing     float64 `json:"color_smoothing" yaml:"color_smoothing"`
	ReturnToOriginIdle float64 `json:"return_to_origin_idle" yaml:"return_to_origin_idle"`

	// Gesture thresholds
	OrbitMinAngularVelocity float64 `json:"orbit_min_angular_velocity" yaml:"orbit_min_angular_velocity"`
	TrembleMinVelocity      float64 `json:"tremble_min_velocity" yaml:"tremble_min_velocity"`
	StrokeMinConsistency    float64 `json:"stroke_min_consistency" yaml:"stroke_min_consistency"`
}

// fields lists every tunable value with its name, for validation.
func (t *Tuning) fields() []struct {
	name string
	v    float64
} {
	return []struct {
		name string
		v    float64
	}{
		{"base_breath_speed", t.BaseBreathSpeed},
		{"base_noise", t.BaseNoise},
		{"tension_gain_rate", t.TensionGainRate},
		{"tension_decay_rate", t.TensionDecayRate},
		{"stroke_tension_drain", t.StrokeTensionDrain},
		{"tremble_tension_feed", t.TrembleTensionFeed},
		{"bleed_trauma_rate", t.BleedTraumaRate},
		{"bleed_trauma_delay", t.BleedTraumaDelay},
		{"evaporation_rate", t.EvaporationRate},
		{"healing_duration", t.HealingDuration},
		{"healing_restore_rate", t.HealingRestoreRate},
		{"healing_trauma_decay", t.HealingTraumaDecay},
		{"color_smoothing", t.ColorSmoothing},
		{"return_to_origin_idle", t.ReturnToOriginIdle},
		{"orbit_min_angular_velocity", t.OrbitMinAngularVelocity},
		{"tremble_min_velocity", t.TrembleMinVelocity},
		{"stroke_min_consistency", t.StrokeMinConsistency},
	}
}

// Validate rejects negative or non-finite values. Zero means "keep current".
func (t Tuning) Validate() error {
	for _, f := range t.fields() {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return &ValidationError{Field: f.name, Value: f.v, Reason: "must be finite"}
		}
		if f.v < 0 {
			return &ValidationError{Field: f.name, Value: f.v, Reason: "must not be negative"}
		}
	}
	if t.StrokeMinConsistency > 1 {
		return &ValidationError{Field: "stroke_min_consistency", Value: t.StrokeMinConsistency, Reason: "must not exceed 1"}
	}
	return nil
}

// GetTuning returns the current tuning parameters from the engine.
func (e *Engine) GetTuning() Tuning {
	em := e.cfg.Emotions
	g := e.cfg.Gesture
	return Tuning{
		BaseBreathSpeed:         em.BaseBreathSpeed,
		BaseNoise:               em.BaseNoise,
		TensionGainRate:         em.TensionGainRate,
		TensionDecayRate:        em.TensionDecayRate,
		StrokeTensionDrain:      em.StrokeTensionDrain,
		TrembleTensionFeed:      em.TrembleTensionFeed,
		BleedTraumaRate:         em.BleedTraumaRate,
		BleedTraumaDelay:        em.BleedTraumaDelay,
		EvaporationRate:         em.EvaporationRate,
		HealingDuration:         em.HealingDuration,
		HealingRestoreRate:      em.HealingRestoreRate,
		HealingTraumaDecay:      em.HealingTraumaDecay,
		ColorSmoothing:          em.ColorSmoothing,
		ReturnToOriginIdle:      em.ReturnToOriginIdle,
		OrbitMinAngularVelocity: g.OrbitMinAngularVelocity,
		TrembleMinVelocity:      g.TrembleMinVelocity,
		StrokeMinConsistency:    g.StrokeMinConsistency,
	}
}

// ApplyTuning updates tuning parameters at runtime.
// Only non-zero values are applied. It must be called from the goroutine
// that drives Update.
func (e *Engine) ApplyTuning(t Tuning) error {
	if err := t.Validate(); err != nil {
		return err
	}

	em := &e.cfg.Emotions
	set(&em.BaseBreathSpeed, t.BaseBreathSpeed)
	set(&em.BaseNoise, t.BaseNoise)
	set(&em.TensionGainRate, t.TensionGainRate)
	set(&em.TensionDecayRate, t.TensionDecayRate)
	set(&em.StrokeTensionDrain, t.StrokeTensionDrain)
	set(&em.TrembleTensionFeed, t.TrembleTensionFeed)
	set(&em.BleedTraumaRate, t.BleedTraumaRate)
	set(&em.BleedTraumaDelay, t.BleedTraumaDelay)
	set(&em.EvaporationRate, t.EvaporationRate)
	set(&em.HealingDuration, t.HealingDuration)
	set(&em.HealingRestoreRate, t.HealingRestoreRate)
	set(&em.HealingTraumaDecay, t.HealingTraumaDecay)
	set(&em.ColorSmoothing, t.ColorSmoothing)
	set(&em.ReturnToOriginIdle, t.ReturnToOriginIdle)

	g := &e.cfg.Gesture
	set(&g.OrbitMinAngularVelocity, t.OrbitMinAngularVelocity)
	set(&g.TrembleMinVelocity, t.TrembleMinVelocity)
	set(&g.StrokeMinConsistency, t.StrokeMinConsistency)

	e.orchestrator.SetConfig(e.cfg.Emotions)
	e.resolver.SetConfig(e.cfg.Gesture)

	e.log.Info("tuning applied", "tuning", e.GetTuning())
	return nil
}

func set(dst *float64, v float64) {
	if v > 0 {
		*dst = v
	}
}
