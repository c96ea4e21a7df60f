package emotions

import (
	"testing"

	"github.com/teslashibe/go-beetle/pkg/gesture"
)

func TestReactionAccumulators(t *testing.T) {
	b := NewReactionBank(DefaultReactionConfig())
	for i := 0; i < 10; i++ {
		b.Update(gesture.Stroke, 0.1)
	}
	if got := b.Values().StrokeCalm; abs(got-0.8) > 1e-9 {
		t.Errorf("stroke calm after 1s = %v, want 0.8", got)
	}
	for i := 0; i < 10; i++ {
		b.Update(gesture.Idle, 0.1)
	}
	if got := b.Values().StrokeCalm; abs(got-0.5) > 1e-9 {
		t.Errorf("stroke calm after 1s decay = %v, want 0.5", got)
	}

	for i := 0; i < 20; i++ {
		b.Update(gesture.Tremble, 0.1)
	}
	if got := b.Values().TrembleNervous; got != 1 {
		t.Errorf("tremble nervous = %v, want clamped to 1", got)
	}
	for i := 0; i < 10; i++ {
		b.Update(gesture.Orbit, 0.1)
	}
	v := b.Values()
	if abs(v.OrbitSync-0.5) > 1e-9 {
		t.Errorf("orbit sync = %v, want 0.5", v.OrbitSync)
	}
	if abs(v.TrembleNervous-0.5) > 1e-9 {
		t.Errorf("tremble nervous after decay = %v, want 0.5", v.TrembleNervous)
	}
}

func TestPokeDebounce(t *testing.T) {
	b := NewReactionBank(DefaultReactionConfig())
	var fired []int
	for i := 1; i <= 7; i++ {
		if b.Update(gesture.Poke, 0.1) {
			fired = append(fired, i)
		}
	}
	if len(fired) != 2 || fired[0] != 1 || fired[1] != 7 {
		t.Errorf("poke fired on calls %v, want [1 7]", fired)
	}
}

func TestReactionUpdateIgnoresInvalidDelta(t *testing.T) {
	b := NewReactionBank(DefaultReactionConfig())
	if b.Update(gesture.Poke, 0) {
		t.Error("poke should not fire on zero delta")
	}
	if b.Values() != (Reactions{}) {
		t.Errorf("values changed on zero delta: %+v", b.Values())
	}
}

func TestBreathMultiplier(t *testing.T) {
	tests := []struct {
		name    string
		r       Reactions
		angular float64
		want    float64
	}{
		{"neutral", Reactions{}, 0, 1},
		{"full stroke", Reactions{StrokeCalm: 1}, 0, 0.7},
		{"slow orbit", Reactions{OrbitSync: 1}, 0, 0.5},
		{"fast orbit", Reactions{OrbitSync: 1}, -5, 1.2},
		{"full tremble", Reactions{TrembleNervous: 1}, 0, 1.7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewReactionBank(DefaultReactionConfig())
			b.r = tt.r
			if got := b.BreathMultiplier(1, tt.angular); abs(got-tt.want) > 1e-9 {
				t.Errorf("BreathMultiplier() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTouchIntensity(t *testing.T) {
	if got := touchIntensity(0, 0); got != 1 {
		t.Errorf("no touch metrics = %v, want 1", got)
	}
	if got := touchIntensity(0.05, 1); abs(got-1.5) > 1e-9 {
		t.Errorf("firm press = %v, want 1.5", got)
	}
	if got := touchIntensity(0.01, 0.1); abs(got-0.62) > 1e-9 {
		t.Errorf("light press = %v, want 0.62", got)
	}
}
