package hub

import (
	"sync/atomic"

	"github.com/teslashibe/go-beetle/pkg/creature"
	"github.com/teslashibe/go-beetle/pkg/emotions"
	"github.com/teslashibe/go-beetle/pkg/protocol"
)

// DefaultBroadcastRate is how many frames per simulated second reach viewers
const DefaultBroadcastRate = 30.0

// FrameBroadcaster is a creature.FrameSink that publishes frames to a Hub.
//
// Frames are throttled by simulated time, not wall time, so a stalled loop
// sends nothing. One-shot effects that occur on frames that are skipped are
// folded into the next broadcast so viewers never miss a ripple.
type FrameBroadcaster struct {
	hub      *Hub
	interval float64

	acc     float64
	pending protocol.EffectsData
	dirty   bool

	sent atomic.Uint64
}

// NewFrameBroadcaster creates a broadcaster publishing at most rate frames
// per simulated second. A non-positive rate uses DefaultBroadcastRate.
func NewFrameBroadcaster(h *Hub, rate float64) *FrameBroadcaster {
	if rate <= 0 {
		rate = DefaultBroadcastRate
	}
	return &FrameBroadcaster{hub: h, interval: 1 / rate}
}

// OnFrame implements creature.FrameSink. It must be called from a single goroutine.
func (b *FrameBroadcaster) OnFrame(f creature.Frame) {
	b.collect(f.Params.Effects)
	b.acc += f.Delta
	if b.acc+1e-9 < b.interval {
		return
	}
	b.acc -= b.interval
	if b.acc >= b.interval {
		b.acc = 0
	}

	data := FrameData(f)
	if b.dirty {
		fx := b.pending
		data.Effects = &fx
	}
	if f.Phase == emotions.Bleeding {
		if data.Effects == nil {
			data.Effects = &protocol.EffectsData{}
		}
		data.Effects.Bleeding = true
	}
	b.pending, b.dirty = protocol.EffectsData{}, false

	msg, err := protocol.NewFrameMessage(data)
	if err != nil {
		return
	}
	payload, err := msg.Bytes()
	if err != nil {
		return
	}
	b.hub.Broadcast(NewJSONMessage(payload))
	b.sent.Add(1)
}

// Sent returns the number of frames handed to the hub
func (b *FrameBroadcaster) Sent() uint64 {
	return b.sent.Load()
}

func (b *FrameBroadcaster) collect(fx emotions.Effects) {
	if fx.Ripple {
		origin := protocol.PointerData{X: fx.RippleOrigin.X, Y: fx.RippleOrigin.Y}
		b.pending.Ripple = true
		b.pending.RippleOrigin = &origin
		if fx.RippleStrength > b.pending.RippleStrength {
			b.pending.RippleStrength = fx.RippleStrength
		}
		b.dirty = true
	}
	if fx.StartBleeding {
		b.pending.StartBleeding = true
		b.dirty = true
	}
	if fx.StopBleeding {
		b.pending.StopBleeding = true
		b.dirty = true
	}
	if fx.ReturnToOrigin {
		b.pending.ReturnToOrigin = true
		b.dirty = true
	}
}

// FrameData converts an engine frame to its wire form without effects.
func FrameData(f creature.Frame) protocol.FrameData {
	p := f.Params
	return protocol.FrameData{
		Seq:           f.Seq,
		Time:          f.Time,
		Phase:         f.Phase.String(),
		Gesture:       f.Gesture.String(),
		BreathSpeed:   p.BreathSpeed,
		BreathDepth:   p.BreathDepth,
		PauseFactor:   p.PauseFactor,
		ResponseLag:   p.ResponseLag,
		ColorProgress: p.ColorProgress,
		NoiseAmount:   p.NoiseAmount,
		Goosebumps:    p.Goosebumps,
		Trauma:        p.Trauma,
		Tension:       p.Tension,
		Pointer:       protocol.PointerData{X: f.Signals.Position.X, Y: f.Signals.Position.Y},
		Velocity:      f.Signals.Velocity,
		Contact:       f.Signals.Contact,
	}
}
