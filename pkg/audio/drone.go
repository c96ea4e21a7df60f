package audio

import (
	"math"
	"math/rand"
	"sync/atomic"

	"github.com/gopxl/beep"

	"github.com/teslashibe/go-beetle/pkg/creature"
	"github.com/teslashibe/go-beetle/pkg/emotions"
)

// slewTime is how long parameter changes take to settle, in seconds
const slewTime = 0.05

// param is a float64 shared between the frame loop and the audio thread
type param struct{ bits atomic.Uint64 }

func (p *param) Load() float64   { return math.Float64frombits(p.bits.Load()) }
func (p *param) Store(v float64) { p.bits.Store(math.Float64bits(v)) }

// Drone is an endless beep.Streamer. Frames arrive through OnFrame on the
// loop goroutine while Stream runs on the audio thread; they only share the
// atomic targets.
type Drone struct {
	sr beep.SampleRate

	volume  param
	freq    param
	tremolo param
	noise   param
	breath  param // rad/s
	stopped atomic.Bool

	// audio thread state
	cur      Voice
	curInit  bool
	osc      float64
	tremPh   float64
	breathPh float64
	rng      *rand.Rand
}

// NewDrone creates a drone at sample rate sr, initially voicing Peace.
func NewDrone(sr beep.SampleRate) *Drone {
	d := &Drone{
		sr:  sr,
		rng: rand.New(rand.NewSource(1)),
	}
	d.SetVoice(Mapping(emotions.Peace, 0, 0), emotions.DefaultConfig().BaseBreathSpeed)
	return d
}

// SetVoice sets the target voice and breathing speed in rad/s.
func (d *Drone) SetVoice(v Voice, breathSpeed float64) {
	d.volume.Store(v.Volume)
	d.freq.Store(v.Frequency)
	d.tremolo.Store(v.TremoloRate)
	d.noise.Store(v.Noise)
	if breathSpeed >= 0 && !math.IsInf(breathSpeed, 0) && !math.IsNaN(breathSpeed) {
		d.breath.Store(breathSpeed)
	}
}

// Target returns the voice the drone is moving toward.
func (d *Drone) Target() Voice {
	return Voice{
		Volume:      d.volume.Load(),
		Frequency:   d.freq.Load(),
		TremoloRate: d.tremolo.Load(),
		Noise:       d.noise.Load(),
	}
}

// OnFrame implements creature.FrameSink.
func (d *Drone) OnFrame(f creature.Frame) {
	d.SetVoice(Mapping(f.Phase, f.Params.ColorProgress, f.Params.Trauma), f.Params.BreathSpeed)
}

// Stop makes the next Stream call report the end of the stream.
func (d *Drone) Stop() {
	d.stopped.Store(true)
}

// Stream implements beep.Streamer.
func (d *Drone) Stream(samples [][2]float64) (n int, ok bool) {
	if d.stopped.Load() {
		return 0, false
	}

	target := d.Target()
	breath := d.breath.Load()
	if !d.curInit {
		d.cur, d.curInit = target, true
	}

	rate := float64(d.sr)
	k := 1 - math.Exp(-1/(slewTime*rate))

	for i := range samples {
		d.cur.Volume += (target.Volume - d.cur.Volume) * k
		d.cur.Frequency += (target.Frequency - d.cur.Frequency) * k
		d.cur.TremoloRate += (target.TremoloRate - d.cur.TremoloRate) * k
		d.cur.Noise += (target.Noise - d.cur.Noise) * k

		tone := 0.8*math.Sin(2*math.Pi*d.osc) + 0.2*math.Sin(4*math.Pi*d.osc)
		noise := d.rng.Float64()*2 - 1
		val := tone*(1-d.cur.Noise) + noise*d.cur.Noise

		// inhale swells, exhale fades
		amp := d.cur.Volume * (0.6 + 0.4*math.Sin(d.breathPh))
		if d.cur.TremoloRate > 0 {
			amp *= 0.75 + 0.25*math.Sin(2*math.Pi*d.tremPh)
		}
		val *= amp

		samples[i][0] = val
		samples[i][1] = val

		d.osc = wrap(d.osc + d.cur.Frequency/rate)
		d.tremPh = wrap(d.tremPh + d.cur.TremoloRate/rate)
		d.breathPh = math.Mod(d.breathPh+breath/rate, 2*math.Pi)
	}
	return len(samples), true
}

// Err implements beep.Streamer.
func (d *Drone) Err() error { return nil }

func wrap(p float64) float64 {
	return p - math.Floor(p)
}
