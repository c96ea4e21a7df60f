package protocol

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// Helper functions for creating messages
// =============================================================================

// NewPointerMessage creates a pointer position message
func NewPointerMessage(x, y float64) (*Message, error) {
	return NewMessage(TypePointer, PointerData{X: x, Y: y})
}

// NewContactMessage creates a contact transition message
func NewContactMessage(state string) (*Message, error) {
	return NewMessage(TypeContact, ContactData{State: state})
}

// NewTouchMessage creates a touch metrics message
func NewTouchMessage(radius, pressure float64) (*Message, error) {
	return NewMessage(TypeTouch, TouchData{Radius: radius, Pressure: pressure})
}

// NewConfigMessage creates a tuning update message. tuning is marshalled as-is.
func NewConfigMessage(tuning interface{}, reset bool) (*Message, error) {
	update := ConfigUpdate{Reset: reset}
	if tuning != nil {
		raw, err := json.Marshal(tuning)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal tuning: %w", err)
		}
		update.Tuning = raw
	}
	return NewMessage(TypeConfig, update)
}

// NewWelcomeMessage creates the greeting sent to a newly connected device
func NewWelcomeMessage(deviceID string) (*Message, error) {
	return NewMessage(TypeWelcome, WelcomeData{DeviceID: deviceID})
}

// NewFrameMessage creates a viewer frame message
func NewFrameMessage(frame FrameData) (*Message, error) {
	return NewMessage(TypeFrame, frame)
}

// NewErrorMessage creates an error message
func NewErrorMessage(format string, args ...interface{}) (*Message, error) {
	return NewMessage(TypeError, ErrorData{Message: fmt.Sprintf(format, args...)})
}

// NewPingMessage creates a ping message
func NewPingMessage(id string) (*Message, error) {
	return NewMessage(TypePing, PingData{
		ID:        id,
		Timestamp: 0, // Will be set by NewMessage
	})
}

// NewPongMessage creates a pong response message
func NewPongMessage(id string, pingTS, pongTS int64) (*Message, error) {
	return NewMessage(TypePong, PongData{
		ID:        id,
		PingTS:    pingTS,
		PongTS:    pongTS,
		LatencyMs: pongTS - pingTS,
	})
}

// =============================================================================
// Helper functions for parsing messages
// =============================================================================

func (m *Message) expect(t MessageType) error {
	if m.Type != t {
		return fmt.Errorf("%w: got %q, want %q", ErrUnexpectedType, m.Type, t)
	}
	return nil
}

// GetPointerData extracts and validates pointer data from a message
func (m *Message) GetPointerData() (*PointerData, error) {
	if err := m.expect(TypePointer); err != nil {
		return nil, err
	}
	var data PointerData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetContactData extracts and validates contact data from a message
func (m *Message) GetContactData() (*ContactData, error) {
	if err := m.expect(TypeContact); err != nil {
		return nil, err
	}
	var data ContactData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetTouchData extracts and validates touch data from a message
func (m *Message) GetTouchData() (*TouchData, error) {
	if err := m.expect(TypeTouch); err != nil {
		return nil, err
	}
	var data TouchData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetConfigUpdate extracts config update from a message
func (m *Message) GetConfigUpdate() (*ConfigUpdate, error) {
	if err := m.expect(TypeConfig); err != nil {
		return nil, err
	}
	var data ConfigUpdate
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetWelcomeData extracts welcome data from a message
func (m *Message) GetWelcomeData() (*WelcomeData, error) {
	var data WelcomeData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetFrameData extracts frame data from a message
func (m *Message) GetFrameData() (*FrameData, error) {
	var data FrameData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetErrorData extracts error data from a message
func (m *Message) GetErrorData() (*ErrorData, error) {
	var data ErrorData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetPingData extracts ping data from a message
func (m *Message) GetPingData() (*PingData, error) {
	var data PingData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetPongData extracts pong data from a message
func (m *Message) GetPongData() (*PongData, error) {
	var data PongData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}
