package creature

import "github.com/teslashibe/go-beetle/pkg/motion"

// Renderer receives the per-frame parameters of the creature. The engine
// calls it synchronously from Update, after the orchestrator has run.
type Renderer interface {
	SetBreathSpeed(radPerSec float64)
	SetBreathDepth(depth float64)
	SetPauseFactor(f float64)
	SetResponseLag(lag float64)
	SetColorProgress(p float64)
	SetNoiseAmount(amplitude float64)
	SetGoosebumps(intensity float64)

	ApplyRolling(delta motion.Vec2, strength float64)
	ReturnToOrigin()

	StartBleeding()
	StopBleeding()
	ProcessEvaporation(dt, rate float64)
	TriggerRipple(origin motion.Vec2, strength float64)

	SetCursorWorldPos(p motion.Vec2)
	SetCursorInfluence(v float64)
	SetCursorAttraction(v float64)
}

// NopRenderer discards every call.
type NopRenderer struct{}

func (NopRenderer) SetBreathSpeed(float64) {}
func (NopRenderer) SetBreathDepth(float64) {}
func (NopRenderer) SetPauseFactor(float64) {}
func (NopRenderer) SetResponseLag(float64) {}
func (NopRenderer) SetColorProgress(float64) {}
func (NopRenderer) SetNoiseAmount(float64) {}
func (NopRenderer) SetGoosebumps(float64) {}
func (NopRenderer) ApplyRolling(motion.Vec2, float64) {}
func (NopRenderer) ReturnToOrigin() {}
func (NopRenderer) StartBleeding() {}
func (NopRenderer) StopBleeding() {}
func (NopRenderer) ProcessEvaporation(float64, float64) {}
func (NopRenderer) TriggerRipple(motion.Vec2, float64) {}
func (NopRenderer) SetCursorWorldPos(motion.Vec2) {}
func (NopRenderer) SetCursorInfluence(float64) {}
func (NopRenderer) SetCursorAttraction(float64) {}

// FrameSink consumes finished frames. Sinks are called on the loop
// goroutine and must not block.
type FrameSink interface {
	OnFrame(Frame)
}

// FrameSinkFunc adapts a function to FrameSink.
type FrameSinkFunc func(Frame)

// OnFrame calls f(fr).
func (f FrameSinkFunc) OnFrame(fr Frame) { f(fr) }
