// Package creature wires the motion, signal, gesture and emotion stages into
// a single frame pipeline and drives it from a fixed-rate loop.
//
// Each Engine.Update runs the stages in a fixed order:
//
//	motion.Sampler -> signals.Classifier -> gesture.Resolver -> emotions.Orchestrator -> Renderer
//
// Time only advances through the dt passed to Update; nothing inside the
// pipeline reads the wall clock. The Loop is the one place that converts
// wall-clock ticks into dt.
package creature

import (
	"fmt"
	"log/slog"

	"github.com/teslashibe/go-beetle/internal/log"
	"github.com/teslashibe/go-beetle/pkg/emotions"
	"github.com/teslashibe/go-beetle/pkg/gesture"
	"github.com/teslashibe/go-beetle/pkg/motion"
	"github.com/teslashibe/go-beetle/pkg/signals"
)

// Frame is the result of one Engine.Update.
type Frame struct {
	Seq     uint64           `json:"seq"`
	Time    float64          `json:"time"` // simulated seconds since start
	Delta   float64          `json:"dt"`
	Gesture gesture.Label    `json:"gesture"`
	Phase   emotions.Phase   `json:"phase"`
	Params  emotions.Output  `json:"params"`
	Signals signals.Snapshot `json:"signals"`
}

// Engine owns one instance of every pipeline stage. It is not safe for
// concurrent use; the Loop serializes access.
type Engine struct {
	cfg      Config
	renderer Renderer
	log      *slog.Logger

	sampler      *motion.Sampler
	classifier   *signals.Classifier
	resolver     *gesture.Resolver
	orchestrator *emotions.Orchestrator

	radius   float64
	pressure float64
	contact  bool

	seq     uint64
	time    float64
	frame   Frame
	lastTag gesture.Label
}

// NewEngine validates cfg and builds the pipeline. A nil renderer is
// replaced by NopRenderer.
func NewEngine(cfg Config, r Renderer) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("creature config: %w", err)
	}
	if r == nil {
		r = NopRenderer{}
	}
	e := &Engine{
		cfg:      cfg,
		renderer: r,
		log:      log.Component("creature"),
	}
	e.build()
	return e, nil
}

func (e *Engine) build() {
	e.sampler = motion.NewSampler(e.cfg.Motion)
	e.classifier = signals.NewClassifier(e.cfg.Signals, e.sampler)
	e.resolver = gesture.NewResolver(e.cfg.Gesture)
	e.orchestrator = emotions.NewOrchestrator(e.cfg.Emotions)
	e.radius, e.pressure, e.contact = 0, 0, false
	e.seq, e.time = 0, 0
	e.lastTag = gesture.Idle
	e.frame = Frame{
		Phase:   e.orchestrator.Phase(),
		Params:  e.orchestrator.Output(),
		Signals: e.classifier.Snapshot(),
	}
}

// Reset rebuilds every stage from the engine's current configuration.
func (e *Engine) Reset() {
	e.build()
	e.log.Info("engine reset")
}

// SetPointer sets the pointer position in normalized [-1,1] coordinates.
func (e *Engine) SetPointer(x, y float64) {
	e.sampler.SetPosition(motion.Vec2{X: x, Y: y})
}

// PointerDown starts a contact at the current position.
func (e *Engine) PointerDown() {
	e.contact = true
	e.classifier.PointerDown()
}

// PointerUp ends the current contact.
func (e *Engine) PointerUp() {
	e.contact = false
	e.classifier.PointerUp()
	e.radius, e.pressure = 0, 0
}

// PointerLeave ends the current contact because the pointer left the surface.
func (e *Engine) PointerLeave() {
	e.contact = false
	e.classifier.PointerLeave()
	e.radius, e.pressure = 0, 0
}

// SetTouchMetrics records the contact radius and pressure. They scale effect
// strengths only; classification thresholds ignore them.
func (e *Engine) SetTouchMetrics(radius, pressure float64) {
	if !motion.Finite(radius) || !motion.Finite(pressure) {
		return
	}
	e.radius = motion.Clamp(radius, 0, 1)
	e.pressure = motion.Clamp(pressure, 0, 1)
}

// Apply dispatches an input event to the matching operation.
func (e *Engine) Apply(ev Event) {
	switch ev.Kind {
	case EventMove:
		e.SetPointer(ev.Position.X, ev.Position.Y)
	case EventDown:
		e.PointerDown()
	case EventUp:
		e.PointerUp()
	case EventLeave:
		e.PointerLeave()
	case EventTouch:
		e.SetTouchMetrics(ev.Radius, ev.Pressure)
	}
}

// Update advances the pipeline by dt seconds and pushes the resulting
// parameters to the renderer. A non-positive or non-finite dt returns the
// previous frame without touching any state.
func (e *Engine) Update(dt float64) Frame {
	if !motion.ValidDelta(dt) {
		return e.frame
	}

	e.sampler.Update(dt)
	e.classifier.Update(dt)
	snap := e.classifier.Snapshot()
	label := e.resolver.Classify(snap)

	out := e.orchestrator.Update(emotions.Input{
		Gesture:         label,
		Velocity:        snap.Velocity,
		AngularVelocity: snap.AngularVelocity,
		Position:        snap.Position,
		Delta:           snap.Delta,
		Contact:         e.contact,
		IdleTime:        snap.IdleTime,
		Radius:          e.radius,
		Pressure:        e.pressure,
	}, dt)

	e.seq++
	e.time += dt
	e.render(out, snap, dt)

	if out.PhaseChanged {
		e.log.Info("phase changed",
			"from", out.PreviousPhase,
			"to", out.Phase,
			"seq", e.seq,
			"trauma", out.Trauma,
		)
	}
	if label != e.lastTag {
		e.log.Debug("gesture", "label", label, "velocity", snap.Velocity, "seq", e.seq)
		e.lastTag = label
	}

	e.frame = Frame{
		Seq:     e.seq,
		Time:    e.time,
		Delta:   dt,
		Gesture: label,
		Phase:   out.Phase,
		Params:  out,
		Signals: snap,
	}
	return e.frame
}

// render forwards one frame of output to the renderer.
func (e *Engine) render(out emotions.Output, snap signals.Snapshot, dt float64) {
	r := e.renderer
	fx := out.Effects

	r.SetBreathSpeed(out.BreathSpeed)
	r.SetBreathDepth(out.BreathDepth)
	r.SetPauseFactor(out.PauseFactor)
	r.SetResponseLag(out.ResponseLag)
	r.SetColorProgress(out.ColorProgress)
	r.SetNoiseAmount(out.NoiseAmount)
	r.SetGoosebumps(out.Goosebumps)

	if out.RollStrength > 0 {
		r.ApplyRolling(snap.Delta, out.RollStrength)
	}
	if fx.ReturnToOrigin {
		r.ReturnToOrigin()
	}
	if fx.StartBleeding {
		r.StartBleeding()
	}
	if fx.Evaporation > 0 {
		r.ProcessEvaporation(dt, fx.Evaporation)
	}
	if fx.StopBleeding {
		r.StopBleeding()
	}
	if fx.Ripple {
		r.TriggerRipple(fx.RippleOrigin, fx.RippleStrength)
	}

	r.SetCursorWorldPos(snap.Position)
	r.SetCursorInfluence(out.CursorInfluence)
	r.SetCursorAttraction(out.CursorAttraction)
}

// Frame returns the most recent frame.
func (e *Engine) Frame() Frame { return e.frame }

// Config returns the engine's configuration including applied tuning.
func (e *Engine) Config() Config { return e.cfg }

// Orchestrator exposes the emotion stage for inspection.
func (e *Engine) Orchestrator() *emotions.Orchestrator { return e.orchestrator }

// Classifier exposes the signal stage for inspection.
func (e *Engine) Classifier() *signals.Classifier { return e.classifier }
