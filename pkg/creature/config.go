package creature

import (
	"math"
	"reflect"

	"github.com/teslashibe/go-beetle/pkg/emotions"
	"github.com/teslashibe/go-beetle/pkg/gesture"
	"github.com/teslashibe/go-beetle/pkg/motion"
	"github.com/teslashibe/go-beetle/pkg/signals"
)

// Config aggregates the configuration of every pipeline stage plus the loop
// driver. It is injected at construction and treated as immutable; runtime
// changes go through Tuning.
type Config struct {
	Motion   motion.Config
	Signals  signals.Config
	Gesture  gesture.Config
	Emotions emotions.Config

	// Loop
	Rate          float64 // frames per second
	MaxFrameDelta float64 // seconds; longer wall-clock gaps are clamped
	QueueSize     int     // buffered input events
}

// DefaultConfig returns the tuned configuration at 60 Hz.
func DefaultConfig() Config {
	return Config{
		Motion:   motion.DefaultConfig(),
		Signals:  signals.DefaultConfig(),
		Gesture:  gesture.DefaultConfig(),
		Emotions: emotions.DefaultConfig(),

		Rate:          60,
		MaxFrameDelta: 0.1,
		QueueSize:     256,
	}
}

// Validate rejects non-finite thresholds and non-positive rates, sizes and
// durations.
func (c Config) Validate() error {
	if err := checkFinite("", reflect.ValueOf(c)); err != nil {
		return err
	}

	if c.Motion.HistorySize <= 0 {
		return &ValidationError{Field: "Motion.HistorySize", Value: c.Motion.HistorySize, Reason: "must be positive"}
	}
	if c.Signals.DirectionWindow <= 0 {
		return &ValidationError{Field: "Signals.DirectionWindow", Value: c.Signals.DirectionWindow, Reason: "must be positive"}
	}
	if c.QueueSize <= 0 {
		return &ValidationError{Field: "QueueSize", Value: c.QueueSize, Reason: "must be positive"}
	}

	positive := []struct {
		name string
		v    float64
	}{
		{"Rate", c.Rate},
		{"MaxFrameDelta", c.MaxFrameDelta},
		{"Motion.IdleVelocity", c.Motion.IdleVelocity},
		{"Signals.PokeWindow", c.Signals.PokeWindow},
		{"Signals.Hesitation.ApproachTimeout", c.Signals.Hesitation.ApproachTimeout},
		{"Signals.Hesitation.MaxPause", c.Signals.Hesitation.MaxPause},
		{"Signals.Hesitation.RetreatGrace", c.Signals.Hesitation.RetreatGrace},
		{"Gesture.IdleVelocity", c.Gesture.IdleVelocity},
		{"Emotions.IdleVelocity", c.Emotions.IdleVelocity},
		{"Emotions.ListenDuration", c.Emotions.ListenDuration},
		{"Emotions.HealingDuration", c.Emotions.HealingDuration},
		{"Emotions.BaseBreathSpeed", c.Emotions.BaseBreathSpeed},
		{"Emotions.MinResponseLag", c.Emotions.MinResponseLag},
	}
	for _, p := range positive {
		if p.v <= 0 {
			return &ValidationError{Field: p.name, Value: p.v, Reason: "must be positive"}
		}
	}

	if c.Emotions.ListenIdleMin >= c.Emotions.ListenIdleMax {
		return &ValidationError{Field: "Emotions.ListenIdleMin", Value: c.Emotions.ListenIdleMin, Reason: "must be below ListenIdleMax"}
	}
	if c.Emotions.MinResponseLag > 1 {
		return &ValidationError{Field: "Emotions.MinResponseLag", Value: c.Emotions.MinResponseLag, Reason: "must not exceed 1"}
	}
	if g := c.Emotions.GoosebumpSmoothing; g < 0 || g > 1 {
		return &ValidationError{Field: "Emotions.GoosebumpSmoothing", Value: g, Reason: "must be within [0,1]"}
	}
	return nil
}

// checkFinite walks every float64 field of v and rejects NaN or Inf.
func checkFinite(prefix string, v reflect.Value) error {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		name := t.Field(i).Name
		if prefix != "" {
			name = prefix + "." + name
		}
		switch f.Kind() {
		case reflect.Struct:
			if err := checkFinite(name, f); err != nil {
				return err
			}
		case reflect.Float64:
			if x := f.Float(); math.IsNaN(x) || math.IsInf(x, 0) {
				return &ValidationError{Field: name, Value: x, Reason: "must be finite"}
			}
		}
	}
	return nil
}
