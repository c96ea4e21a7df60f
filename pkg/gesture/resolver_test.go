package gesture

import (
	"testing"

	"github.com/teslashibe/go-beetle/pkg/signals"
)

func TestClassifyLabels(t *testing.T) {
	tests := []struct {
		name string
		snap signals.Snapshot
		want Label
	}{
		{"idle", signals.Snapshot{Velocity: 0.005}, Idle},
		{"tap", signals.Snapshot{Velocity: 0.05, JustReleased: true, ContactDuration: 0.1, ExitVelocity: 0.05}, Tap},
		{"flick", signals.Snapshot{Velocity: 0.4, JustReleased: true, ContactDuration: 0.5, ExitVelocity: 0.5}, Flick},
		{"poke", signals.Snapshot{Velocity: 0.2, JustStopped: true, RecentHighVelocity: true}, Poke},
		{"spiral", signals.Snapshot{Velocity: 0.1, Spiraling: true}, Spiral},
		{"hesitation completed", signals.Snapshot{Velocity: 0.05, HesitationCompleted: true}, Hesitation},
		{"hesitation retreating", signals.Snapshot{Velocity: 0.05, Hesitation: signals.HesitationRetreating}, Hesitation},
		{"orbit", signals.Snapshot{Velocity: 0.1, AngularVelocity: -2.0}, Orbit},
		{"tremble", signals.Snapshot{Velocity: 0.25, DirectionalConsistency: 0.2}, Tremble},
		{"stroke", signals.Snapshot{Velocity: 0.08, DirectionalConsistency: 0.9}, Stroke},
		{"moving", signals.Snapshot{Velocity: 0.3, DirectionalConsistency: 0.9}, Moving},
	}

	r := NewResolver(DefaultConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Classify(tt.snap); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIdleShortCircuits(t *testing.T) {
	r := NewResolver(DefaultConfig())
	snap := signals.Snapshot{
		Velocity:            0.0,
		JustReleased:        true,
		ContactDuration:     0.1,
		JustStopped:         true,
		RecentHighVelocity:  true,
		Spiraling:           true,
		HesitationCompleted: true,
	}
	if got := r.Classify(snap); got != Idle {
		t.Errorf("Classify() = %v, want idle", got)
	}
}

func TestPriorityOrder(t *testing.T) {
	r := NewResolver(DefaultConfig())

	// Tap and flick both need a release; tap wins when both could apply.
	snap := signals.Snapshot{Velocity: 0.5, JustReleased: true, ContactDuration: 0.1, ExitVelocity: 0.05, JustStopped: true, RecentHighVelocity: true}
	if got := r.Classify(snap); got != Tap {
		t.Errorf("release + poke: got %v, want tap", got)
	}

	snap = signals.Snapshot{Velocity: 0.5, Spiraling: true, AngularVelocity: 3, HesitationCompleted: true}
	if got := r.Classify(snap); got != Spiral {
		t.Errorf("spiral + orbit + hesitation: got %v, want spiral", got)
	}

	snap = signals.Snapshot{Velocity: 0.3, AngularVelocity: 2, DirectionalConsistency: 0.1}
	if got := r.Classify(snap); got != Orbit {
		t.Errorf("orbit + tremble: got %v, want orbit", got)
	}
}

func TestBoundariesAreExclusive(t *testing.T) {
	r := NewResolver(DefaultConfig())

	if got := r.Classify(signals.Snapshot{Velocity: 0.01}); got == Idle {
		t.Error("velocity at idle threshold should not be idle")
	}
	snap := signals.Snapshot{Velocity: 0.1, AngularVelocity: 1.5}
	if got := r.Classify(snap); got == Orbit {
		t.Error("angular velocity at orbit threshold should not be orbit")
	}
	snap = signals.Snapshot{Velocity: 0.2, JustReleased: true, ContactDuration: 0.5, ExitVelocity: 0.3}
	if got := r.Classify(snap); got != Flick {
		t.Errorf("exit velocity at flick threshold: got %v, want flick", got)
	}
}

func TestRulesTable(t *testing.T) {
	got := Rules()
	want := []Label{Idle, Tap, Flick, Poke, Spiral, Hesitation, Orbit, Tremble, Stroke, Moving}
	if len(got) != len(want) {
		t.Fatalf("len(Rules()) = %d, want %d", len(got), len(want))
	}
	for i, r := range got {
		if r.Label != want[i] {
			t.Errorf("rule %d = %v, want %v", i, r.Label, want[i])
		}
	}

	got[0].Label = Moving
	if Rules()[0].Label != Idle {
		t.Error("Rules() should return a copy")
	}
}

func TestLabelText(t *testing.T) {
	for l := Idle; l <= Moving; l++ {
		var back Label
		b, _ := l.MarshalText()
		if err := back.UnmarshalText(b); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", b, err)
		}
		if back != l {
			t.Errorf("round trip %v = %v", l, back)
		}
	}
	if _, err := ParseLabel("wiggle"); err == nil {
		t.Error("expected error for unknown label")
	}
	if Label(42).String() != "unknown" {
		t.Errorf("Label(42).String() = %q", Label(42).String())
	}
}
