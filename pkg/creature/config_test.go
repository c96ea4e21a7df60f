package creature

import (
	"errors"
	"math"
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Config)
		field string
	}{
		{"nan threshold", func(c *Config) { c.Signals.Spiral.MinAngularVelocity = math.NaN() }, "Signals.Spiral.MinAngularVelocity"},
		{"inf rate", func(c *Config) { c.Emotions.TensionGainRate = math.Inf(1) }, "Emotions.TensionGainRate"},
		{"zero history", func(c *Config) { c.Motion.HistorySize = 0 }, "Motion.HistorySize"},
		{"zero queue", func(c *Config) { c.QueueSize = 0 }, "QueueSize"},
		{"negative frame delta", func(c *Config) { c.MaxFrameDelta = -1 }, "MaxFrameDelta"},
		{"listen window inverted", func(c *Config) { c.Emotions.ListenIdleMin = 0.7 }, "Emotions.ListenIdleMin"},
		{"lag above one", func(c *Config) { c.Emotions.MinResponseLag = 2 }, "Emotions.MinResponseLag"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.edit(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Validate() = %v, want ErrInvalidConfig", err)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.field {
				t.Errorf("field = %v, want %s", ve, tt.field)
			}
		})
	}
}

func TestTuningRoundTrip(t *testing.T) {
	e, _ := newTestEngine(t)
	got := e.GetTuning()
	if got.BaseBreathSpeed != 1.2 || got.HealingDuration != 3.0 || got.OrbitMinAngularVelocity != 1.5 {
		t.Errorf("GetTuning() = %+v", got)
	}
}

func TestApplyTuning(t *testing.T) {
	e, _ := newTestEngine(t)

	if err := e.ApplyTuning(Tuning{BaseBreathSpeed: 2.0, TrembleMinVelocity: 0.3}); err != nil {
		t.Fatalf("ApplyTuning: %v", err)
	}
	got := e.GetTuning()
	if got.BaseBreathSpeed != 2.0 {
		t.Errorf("BaseBreathSpeed = %v, want 2.0", got.BaseBreathSpeed)
	}
	if got.TrembleMinVelocity != 0.3 {
		t.Errorf("TrembleMinVelocity = %v, want 0.3", got.TrembleMinVelocity)
	}
	if got.TensionGainRate != 1.0 {
		t.Errorf("zero field changed TensionGainRate to %v", got.TensionGainRate)
	}
	if e.Orchestrator().Config().BaseBreathSpeed != 2.0 {
		t.Error("tuning not pushed to orchestrator")
	}

	fr := e.Update(frame)
	if math.Abs(fr.Params.BreathSpeed-2.0) > 1e-9 {
		t.Errorf("breath speed = %v, want 2.0", fr.Params.BreathSpeed)
	}
}

func TestApplyTuningRejects(t *testing.T) {
	e, _ := newTestEngine(t)
	tests := []Tuning{
		{BaseNoise: -0.1},
		{EvaporationRate: math.NaN()},
		{StrokeMinConsistency: 1.5},
	}
	for _, tu := range tests {
		if err := e.ApplyTuning(tu); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("ApplyTuning(%+v) = %v, want ErrInvalidConfig", tu, err)
		}
	}
	if e.GetTuning().BaseNoise != 0.12 {
		t.Error("rejected tuning must not be applied")
	}
}
