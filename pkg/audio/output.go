package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/teslashibe/go-beetle/internal/log"
)

// SampleRate is the output sample rate.
const SampleRate = beep.SampleRate(48000)

// Output plays a Drone on the default audio device.
type Output struct {
	mu      sync.Mutex
	drone   *Drone
	ctrl    *beep.Ctrl
	volume  *effects.Volume
	started bool
}

// NewOutput wraps d for playback. gain is linear, 1 leaves the drone as is.
func NewOutput(d *Drone, gain float64) *Output {
	ctrl := &beep.Ctrl{Streamer: d}
	return &Output{
		drone:  d,
		ctrl:   ctrl,
		volume: gainStreamer(ctrl, gain),
	}
}

func gainStreamer(s beep.Streamer, gain float64) *effects.Volume {
	if gain <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(gain)}
}

// Start opens the speaker and begins playback. A failure leaves the
// creature running silently; callers should log it and carry on.
func (o *Output) Start() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.started {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(o.volume)
	o.started = true

	log.Info("audio started", "sample_rate", int(SampleRate))
	return nil
}

// SetPaused mutes or resumes the drone without closing the device.
func (o *Output) SetPaused(paused bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.started {
		o.ctrl.Paused = paused
		return
	}
	speaker.Lock()
	o.ctrl.Paused = paused
	speaker.Unlock()
}

// Close stops playback and releases the device.
func (o *Output) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.drone.Stop()
	if !o.started {
		return
	}
	speaker.Clear()
	speaker.Close()
	o.started = false
}
