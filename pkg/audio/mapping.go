// Package audio gives the creature a voice: a breathing drone whose pitch,
// loudness and roughness follow its emotional state.
package audio

import (
	"math"

	"github.com/teslashibe/go-beetle/pkg/emotions"
)

const (
	baseFrequency = 110.0 // A2
	maxVolume     = 0.25
	maxNoise      = 0.5
)

// Voice is the set of synthesis parameters for one emotional state.
type Voice struct {
	Volume      float64 // linear amplitude, 0..maxVolume
	Frequency   float64 // fundamental in Hz
	TremoloRate float64 // Hz, 0 disables tremolo
	Noise       float64 // share of noise mixed into the tone, 0..maxNoise
}

// phaseVoice holds per-phase starting points before color and trauma shape them.
var phaseVoice = map[emotions.Phase]Voice{
	emotions.Peace:     {Volume: 0.08},
	emotions.Listening: {Volume: 0.06},
	emotions.Tension:   {Volume: 0.12, TremoloRate: 4},
	emotions.Bleeding:  {Volume: 0.18, TremoloRate: 9, Noise: 0.2},
	emotions.Trauma:    {Volume: 0.10, TremoloRate: 2},
	emotions.Healing:   {Volume: 0.09, TremoloRate: 1},
}

// Mapping converts the creature's phase, color progress and trauma into
// synthesis parameters. It is pure; unknown phases sound like Peace.
func Mapping(phase emotions.Phase, colorProgress, trauma float64) Voice {
	c := clamp01(colorProgress)
	tr := clamp01(trauma)

	v, ok := phaseVoice[phase]
	if !ok {
		v = phaseVoice[emotions.Peace]
	}

	v.Volume = clamp(v.Volume+0.05*c, 0, maxVolume)
	v.Frequency = baseFrequency * (1 + 0.5*c) * (1 - 0.25*tr)

	switch phase {
	case emotions.Tension:
		v.TremoloRate += 6 * c
	case emotions.Trauma:
		v.TremoloRate += 4 * tr
	}

	v.Noise = clamp(v.Noise+0.02+0.3*tr, 0, maxNoise)
	return v
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return clamp(v, 0, 1)
}
