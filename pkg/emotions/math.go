package emotions

import (
	"math"
)

// lerp performs linear interpolation between two values.
func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// clamp restricts a value to a range.
func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

// approach moves current toward target with a frame-rate independent
// exponential filter: the remaining gap shrinks by 1 - e^(-rate*dt).
func approach(current, target, rate, dt float64) float64 {
	return current + (target-current)*(1-math.Exp(-rate*dt))
}

func validDelta(dt float64) bool {
	return dt > 0 && !math.IsNaN(dt) && !math.IsInf(dt, 0)
}
