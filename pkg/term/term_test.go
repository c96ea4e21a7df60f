package term

import (
	"math"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/teslashibe/go-beetle/pkg/creature"
	"github.com/teslashibe/go-beetle/pkg/emotions"
	"github.com/teslashibe/go-beetle/pkg/gesture"
	"github.com/teslashibe/go-beetle/pkg/motion"
)

const frame = 1.0 / 60

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

func cell(s tcell.Screen, x, y int) (rune, tcell.Style) {
	r, _, st, _ := s.GetContent(x, y)
	return r, st
}

func TestCellMappingRoundTrip(t *testing.T) {
	w, h := 41, 21
	for _, p := range []motion.Vec2{{X: -1, Y: 1}, {X: 0, Y: 0}, {X: 1, Y: -1}, {X: 0.5, Y: -0.5}} {
		x, y, ok := normToCell(p, w, h)
		if !ok {
			t.Fatalf("normToCell(%v) not ok", p)
		}
		back := cellToNorm(x, y, w, h)
		if back.Dist(p) > 0.06 {
			t.Errorf("round trip %v -> (%d,%d) -> %v", p, x, y, back)
		}
	}

	if _, _, ok := normToCell(motion.Vec2{X: 2}, w, h); ok {
		t.Error("points off screen should not map to a cell")
	}
	if _, _, ok := normToCell(motion.Vec2{X: math.NaN()}, w, h); ok {
		t.Error("non-finite points should not map to a cell")
	}
}

func TestDrawBody(t *testing.T) {
	screen := newScreen(t, 41, 21)
	r := NewRenderer(screen)
	r.SetCursorWorldPos(motion.Vec2{X: 0.95, Y: 0.95})
	r.Draw()

	if ch, _ := cell(screen, 20, 10); ch != '█' {
		t.Errorf("center = %q, want body", ch)
	}
	if ch, _ := cell(screen, 0, 0); ch != ' ' {
		t.Errorf("corner = %q, want empty", ch)
	}
}

func TestDrawColorFollowsProgress(t *testing.T) {
	screen := newScreen(t, 41, 21)
	r := NewRenderer(screen)
	r.SetCursorWorldPos(motion.Vec2{X: 0.95, Y: 0.95})

	r.Draw()
	_, calm := cell(screen, 20, 10)
	r.SetColorProgress(1)
	r.Draw()
	_, tense := cell(screen, 20, 10)

	calmFg, _, _ := calm.Decompose()
	tenseFg, _, _ := tense.Decompose()
	if calmFg == tenseFg {
		t.Error("body color should change with color progress")
	}
	if tenseFg != bodyColor(1) {
		t.Errorf("foreground = %v, want %v", tenseFg, bodyColor(1))
	}
}

func TestDrawCursor(t *testing.T) {
	screen := newScreen(t, 41, 21)
	r := NewRenderer(screen)
	r.SetCursorWorldPos(motion.Vec2{X: 1, Y: 1})
	r.Draw()

	if ch, _ := cell(screen, 40, 0); ch != '+' {
		t.Errorf("cursor cell = %q, want +", ch)
	}
}

func TestStatusLine(t *testing.T) {
	screen := newScreen(t, 60, 20)
	r := NewRenderer(screen)

	f := creature.Frame{Seq: 1, Delta: frame, Phase: emotions.Tension, Gesture: gesture.Tremble}
	f.Params.Trauma = 0.25
	r.OnFrame(f)

	if !strings.HasPrefix(r.Status(), "tension") {
		t.Errorf("Status = %q", r.Status())
	}
	if !strings.Contains(r.Status(), "tremble") || !strings.Contains(r.Status(), "0.25") {
		t.Errorf("Status = %q", r.Status())
	}

	var line []rune
	for x := 0; x < 7; x++ {
		ch, _ := cell(screen, x, 19)
		line = append(line, ch)
	}
	if string(line) != "tension" {
		t.Errorf("status row = %q, want tension", string(line))
	}
}

func TestTinyScreen(t *testing.T) {
	screen := newScreen(t, 1, 2)
	r := NewRenderer(screen)
	r.Draw() // must not panic
}

func TestRollingAndReturn(t *testing.T) {
	r := NewRenderer(newScreen(t, 20, 10))

	for i := 0; i < 100; i++ {
		r.ApplyRolling(motion.Vec2{X: 0.05}, 1)
	}
	if got := r.Offset().Len(); math.Abs(got-maxOffset) > 1e-9 {
		t.Errorf("offset = %v, want clamped to %v", got, maxOffset)
	}

	r.ReturnToOrigin()
	for i := 0; i < 300; i++ {
		r.OnFrame(creature.Frame{Delta: frame})
	}
	if r.Offset() != (motion.Vec2{}) {
		t.Errorf("offset = %v, want origin", r.Offset())
	}
}

func TestRipplesExpire(t *testing.T) {
	r := NewRenderer(newScreen(t, 20, 10))
	r.TriggerRipple(motion.Vec2{X: 0.1}, 0.5)
	if r.Ripples() != 1 {
		t.Fatalf("Ripples = %d, want 1", r.Ripples())
	}

	for i := 0; i < 60; i++ {
		r.OnFrame(creature.Frame{Delta: frame})
	}
	if r.Ripples() != 1 {
		t.Errorf("Ripples after 1s = %d, want 1", r.Ripples())
	}
	for i := 0; i < 60; i++ {
		r.OnFrame(creature.Frame{Delta: frame})
	}
	if r.Ripples() != 0 {
		t.Errorf("Ripples after 2s = %d, want 0", r.Ripples())
	}
}

func TestBleedingParticles(t *testing.T) {
	r := NewRenderer(newScreen(t, 20, 10))

	r.StartBleeding()
	for i := 0; i < 30; i++ {
		r.ProcessEvaporation(frame, 0.15)
	}
	if !r.Bleeding() || r.Particles() != 30 {
		t.Fatalf("bleeding = %v particles = %d, want 30", r.Bleeding(), r.Particles())
	}

	r.StopBleeding()
	for i := 0; i < 600; i++ {
		r.ProcessEvaporation(frame, 0.15)
	}
	if r.Particles() != 0 {
		t.Errorf("particles = %d, want all evaporated", r.Particles())
	}
}

func TestParticleCap(t *testing.T) {
	r := NewRenderer(newScreen(t, 20, 10))
	r.StartBleeding()
	for i := 0; i < maxParticles*3; i++ {
		r.ProcessEvaporation(frame, 0)
	}
	if r.Particles() != maxParticles {
		t.Errorf("particles = %d, want %d", r.Particles(), maxParticles)
	}
}

func TestInputFromEvent(t *testing.T) {
	tests := []struct {
		name    string
		ev      tcell.Event
		pos     motion.Vec2
		pressed bool
		ok      bool
	}{
		{"top left pressed", tcell.NewEventMouse(0, 0, tcell.Button1, tcell.ModNone), motion.Vec2{X: -1, Y: 1}, true, true},
		{"center hover", tcell.NewEventMouse(20, 9, tcell.ButtonNone, tcell.ModNone), motion.Vec2{X: 0, Y: 1 - 18.0/19}, false, true},
		{"status row clamps", tcell.NewEventMouse(40, 20, tcell.ButtonNone, tcell.ModNone), motion.Vec2{X: 1, Y: -1}, false, true},
		{"key", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), motion.Vec2{}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, pressed, ok := InputFromEvent(tt.ev, 41, 21)
			if ok != tt.ok || pressed != tt.pressed {
				t.Fatalf("ok=%v pressed=%v, want %v %v", ok, pressed, tt.ok, tt.pressed)
			}
			if pos.Dist(tt.pos) > 1e-9 {
				t.Errorf("pos = %v, want %v", pos, tt.pos)
			}
		})
	}

	if _, _, ok := InputFromEvent(tcell.NewEventMouse(0, 0, tcell.ButtonNone, tcell.ModNone), 1, 1); ok {
		t.Error("tiny screens should not produce input")
	}
}

func TestMouseTransitions(t *testing.T) {
	var m Mouse
	w, h := 41, 21

	kinds := func(evs []creature.Event) []creature.EventKind {
		out := make([]creature.EventKind, len(evs))
		for i, ev := range evs {
			out[i] = ev.Kind
		}
		return out
	}
	equal := func(a, b []creature.EventKind) bool {
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	}

	steps := []struct {
		btn  tcell.ButtonMask
		want []creature.EventKind
	}{
		{tcell.ButtonNone, []creature.EventKind{creature.EventMove}},
		{tcell.Button1, []creature.EventKind{creature.EventMove, creature.EventDown}},
		{tcell.Button1, []creature.EventKind{creature.EventMove}},
		{tcell.ButtonNone, []creature.EventKind{creature.EventMove, creature.EventUp}},
	}
	for i, s := range steps {
		got := kinds(m.Events(tcell.NewEventMouse(10, 5, s.btn, tcell.ModNone), w, h))
		if !equal(got, s.want) {
			t.Errorf("step %d: events = %v, want %v", i, got, s.want)
		}
	}

	if m.Leave() != nil {
		t.Error("Leave without contact should be empty")
	}
	m.Events(tcell.NewEventMouse(10, 5, tcell.Button1, tcell.ModNone), w, h)
	if got := kinds(m.Leave()); !equal(got, []creature.EventKind{creature.EventLeave}) {
		t.Errorf("Leave = %v", got)
	}
	if m.Down() {
		t.Error("Down should be false after Leave")
	}
}
