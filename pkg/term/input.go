package term

import (
	"github.com/gdamore/tcell/v2"

	"github.com/teslashibe/go-beetle/pkg/creature"
	"github.com/teslashibe/go-beetle/pkg/motion"
)

// The last row holds the status line, so the drawing area is w x (h-1).

// cellToNorm maps a cell to normalized coordinates, +y up.
func cellToNorm(x, y, w, h int) motion.Vec2 {
	return motion.Vec2{
		X: 2*float64(x)/float64(w-1) - 1,
		Y: 1 - 2*float64(y)/float64(h-2),
	}
}

// normToCell maps normalized coordinates to the nearest cell.
func normToCell(p motion.Vec2, w, h int) (x, y int, ok bool) {
	if w < 2 || h < 3 || !p.IsFinite() {
		return 0, 0, false
	}
	x = int((p.X+1)/2*float64(w-1) + 0.5)
	y = int((1-p.Y)/2*float64(h-2) + 0.5)
	if x < 0 || x >= w || y < 0 || y > h-2 {
		return 0, 0, false
	}
	return x, y, true
}

// InputFromEvent converts a mouse event on a w x h screen to a normalized
// pointer position and whether the primary button is held. ok is false for
// non-mouse events or screens too small to draw on.
func InputFromEvent(ev tcell.Event, w, h int) (pos motion.Vec2, pressed, ok bool) {
	me, isMouse := ev.(*tcell.EventMouse)
	if !isMouse || w < 2 || h < 3 {
		return motion.Vec2{}, false, false
	}
	x, y := me.Position()
	pos = cellToNorm(x, y, w, h).Clamp()
	pressed = me.Buttons()&tcell.Button1 != 0
	return pos, pressed, true
}

// Mouse turns a stream of tcell events into creature events, emitting
// contact transitions when the primary button changes state.
type Mouse struct {
	down bool
}

// Events returns the creature events for ev, in the order they should be
// applied.
func (m *Mouse) Events(ev tcell.Event, w, h int) []creature.Event {
	pos, pressed, ok := InputFromEvent(ev, w, h)
	if !ok {
		return nil
	}

	events := []creature.Event{creature.MoveEvent(pos.X, pos.Y)}
	switch {
	case pressed && !m.down:
		events = append(events, creature.ContactEvent(creature.EventDown))
	case !pressed && m.down:
		events = append(events, creature.ContactEvent(creature.EventUp))
	}
	m.down = pressed
	return events
}

// Leave releases any held contact, for when the terminal loses focus.
func (m *Mouse) Leave() []creature.Event {
	if !m.down {
		return nil
	}
	m.down = false
	return []creature.Event{creature.ContactEvent(creature.EventLeave)}
}

// Down reports whether the primary button is held.
func (m *Mouse) Down() bool {
	return m.down
}
