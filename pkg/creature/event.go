package creature

import "github.com/teslashibe/go-beetle/pkg/motion"

// EventKind identifies an input event.
type EventKind int

const (
	EventMove EventKind = iota
	EventDown
	EventUp
	EventLeave
	EventTouch
)

// String returns a human-readable event kind.
func (k EventKind) String() string {
	switch k {
	case EventMove:
		return "move"
	case EventDown:
		return "down"
	case EventUp:
		return "up"
	case EventLeave:
		return "leave"
	case EventTouch:
		return "touch"
	default:
		return "unknown"
	}
}

// Event is one input from a pointer device. Events are applied between
// frames in arrival order.
type Event struct {
	Kind     EventKind
	Position motion.Vec2
	Radius   float64
	Pressure float64
	Source   string // device ID, empty for local input
}

// MoveEvent returns a pointer move to (x, y) in normalized coordinates.
func MoveEvent(x, y float64) Event {
	return Event{Kind: EventMove, Position: motion.Vec2{X: x, Y: y}}
}

// ContactEvent returns a contact transition of the given kind.
func ContactEvent(kind EventKind) Event {
	return Event{Kind: kind}
}

// TouchEvent returns touch metrics for the active contact.
func TouchEvent(radius, pressure float64) Event {
	return Event{Kind: EventTouch, Radius: radius, Pressure: pressure}
}
