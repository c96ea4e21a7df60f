// Package gesture resolves one gesture label per frame from classifier signals.
package gesture

import "fmt"

// Label is the single gesture assigned to a frame.
type Label int

const (
	Idle Label = iota
	Tap
	Flick
	Poke
	Spiral
	Hesitation
	Orbit
	Tremble
	Stroke
	Moving
)

var labelNames = [...]string{
	Idle:       "idle",
	Tap:        "tap",
	Flick:      "flick",
	Poke:       "poke",
	Spiral:     "spiral",
	Hesitation: "hesitation",
	Orbit:      "orbit",
	Tremble:    "tremble",
	Stroke:     "stroke",
	Moving:     "moving",
}

// String returns the label name.
func (l Label) String() string {
	if l < 0 || int(l) >= len(labelNames) {
		return "unknown"
	}
	return labelNames[l]
}

// MarshalText encodes the label by name.
func (l Label) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText decodes a label name.
func (l *Label) UnmarshalText(b []byte) error {
	parsed, err := ParseLabel(string(b))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLabel returns the label with the given name.
func ParseLabel(name string) (Label, error) {
	for i, n := range labelNames {
		if n == name {
			return Label(i), nil
		}
	}
	return Idle, fmt.Errorf("%w: %q", ErrUnknownLabel, name)
}
