package gesture

import "errors"

// ErrUnknownLabel is returned when parsing an unrecognized gesture name.
var ErrUnknownLabel = errors.New("unknown gesture label")
