package motion

import "math"

// Vec2 is a point or direction in normalized screen space.
// Screen center is the origin; both axes span [-1, 1].
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Scale returns v * k.
func (v Vec2) Scale(k float64) Vec2 {
	return Vec2{v.X * k, v.Y * k}
}

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Dist returns the distance between v and o.
func (v Vec2) Dist(o Vec2) float64 {
	return v.Sub(o).Len()
}

// Normalize returns v scaled to unit length, or the zero vector if v is too short
// to have a meaningful direction.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l < 1e-9 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Lerp moves v toward o by factor t.
func (v Vec2) Lerp(o Vec2, t float64) Vec2 {
	return Vec2{v.X + (o.X-v.X)*t, v.Y + (o.Y-v.Y)*t}
}

// Angle returns the angle of v around the origin in radians (atan2).
func (v Vec2) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// IsFinite reports whether both components are finite numbers.
func (v Vec2) IsFinite() bool {
	return Finite(v.X) && Finite(v.Y)
}

// Clamp limits both components to [-1, 1].
func (v Vec2) Clamp() Vec2 {
	return Vec2{Clamp(v.X, -1, 1), Clamp(v.Y, -1, 1)}
}

// Finite reports whether f is neither NaN nor ±Inf.
func Finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ValidDelta reports whether dt can advance a frame. Zero, negative and
// non-finite deltas leave all state untouched.
func ValidDelta(dt float64) bool {
	return dt > 0 && Finite(dt)
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// WrapAngle maps an angle difference into (-π, π].
func WrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}
