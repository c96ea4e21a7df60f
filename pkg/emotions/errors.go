package emotions

import "errors"

var (
	// ErrUnknownPhase is returned when parsing an unrecognized phase name.
	ErrUnknownPhase = errors.New("unknown emotional phase")
)
