package protocol

import "errors"

var (
	// ErrMissingType is returned when a message has no type field.
	ErrMissingType = errors.New("message type missing")

	// ErrInvalidData is returned when message data fails to decode or validate.
	ErrInvalidData = errors.New("invalid message data")

	// ErrUnexpectedType is returned when a getter is used on the wrong message type.
	ErrUnexpectedType = errors.New("unexpected message type")
)
