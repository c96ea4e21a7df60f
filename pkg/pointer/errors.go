package pointer

import "errors"

var (
	// ErrDeviceNotFound is returned when no device with the given ID is connected.
	ErrDeviceNotFound = errors.New("device not connected")

	// ErrConfigRejected is returned for config messages when no handler is set.
	ErrConfigRejected = errors.New("config updates are not accepted")

	// ErrClosed is returned when sending on a closed Client.
	ErrClosed = errors.New("pointer client closed")
)
