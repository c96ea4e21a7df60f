// Package protocol defines the WebSocket message types exchanged between
// pointer devices, the creature server and frame viewers.
package protocol

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// MessageType identifies the type of WebSocket message
type MessageType string

const (
	// Device → Server messages
	TypePointer MessageType = "pointer" // Normalized pointer position
	TypeContact MessageType = "contact" // Contact down/up/leave
	TypeTouch   MessageType = "touch"   // Touch radius and pressure
	TypeConfig  MessageType = "config"  // Tuning update

	// Server → Client messages
	TypeWelcome MessageType = "welcome" // Assigned device ID
	TypeFrame   MessageType = "frame"   // Creature state for viewers
	TypeError   MessageType = "error"   // Rejected message

	// Bidirectional
	TypePing MessageType = "ping" // Health check
	TypePong MessageType = "pong" // Health check response
)

// Message is the base wrapper for all WebSocket messages
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"ts,omitempty"` // Unix milliseconds
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(msgType MessageType, data interface{}) (*Message, error) {
	var rawData json.RawMessage
	if data != nil {
		var err error
		rawData, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal message data: %w", err)
		}
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		Data:      rawData,
	}, nil
}

// ParseData unmarshals the message data into the provided struct
func (m *Message) ParseData(v interface{}) error {
	if m.Data == nil {
		return nil
	}
	if err := json.Unmarshal(m.Data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	return nil
}

// Bytes returns the JSON-encoded message
func (m *Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses a JSON message from bytes
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	if msg.Type == "" {
		return nil, fmt.Errorf("failed to parse message: %w", ErrMissingType)
	}
	return &msg, nil
}

// =============================================================================
// Device → Server Message Types
// =============================================================================

// PointerData is a pointer position in normalized [-1,1] coordinates
type PointerData struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Validate rejects non-finite or out-of-range coordinates
func (p PointerData) Validate() error {
	if !finite(p.X) || !finite(p.Y) {
		return fmt.Errorf("%w: pointer must be finite", ErrInvalidData)
	}
	if math.Abs(p.X) > 1 || math.Abs(p.Y) > 1 {
		return fmt.Errorf("%w: pointer (%v, %v) outside [-1,1]", ErrInvalidData, p.X, p.Y)
	}
	return nil
}

// Contact states
const (
	ContactDown  = "down"
	ContactUp    = "up"
	ContactLeave = "leave"
)

// ContactData is a contact transition
type ContactData struct {
	State string `json:"state"` // "down", "up", "leave"
}

// Validate rejects unknown contact states
func (c ContactData) Validate() error {
	switch c.State {
	case ContactDown, ContactUp, ContactLeave:
		return nil
	}
	return fmt.Errorf("%w: contact state %q", ErrInvalidData, c.State)
}

// TouchData carries touch-only metrics for the active contact
type TouchData struct {
	Radius   float64 `json:"radius"`   // Normalized contact radius
	Pressure float64 `json:"pressure"` // 0.0 to 1.0
}

// Validate rejects non-finite or negative metrics
func (t TouchData) Validate() error {
	if !finite(t.Radius) || !finite(t.Pressure) || t.Radius < 0 || t.Pressure < 0 {
		return fmt.Errorf("%w: touch radius=%v pressure=%v", ErrInvalidData, t.Radius, t.Pressure)
	}
	return nil
}

// ConfigUpdate contains a tuning change. Tuning is decoded by the server
// into its tuning parameters; zero fields keep their current value.
type ConfigUpdate struct {
	Tuning json.RawMessage `json:"tuning,omitempty"`
	Reset  bool            `json:"reset,omitempty"`
}

// =============================================================================
// Server → Client Message Types
// =============================================================================

// WelcomeData is sent once when a device connects
type WelcomeData struct {
	DeviceID string `json:"device_id"`
}

// FrameData is a snapshot of the creature for viewers
type FrameData struct {
	Seq     uint64  `json:"seq"`
	Time    float64 `json:"time"`
	Phase   string  `json:"phase"`
	Gesture string  `json:"gesture"`

	BreathSpeed   float64 `json:"breath_speed"`
	BreathDepth   float64 `json:"breath_depth"`
	PauseFactor   float64 `json:"pause_factor"`
	ResponseLag   float64 `json:"response_lag"`
	ColorProgress float64 `json:"color_progress"`
	NoiseAmount   float64 `json:"noise_amount"`
	Goosebumps    float64 `json:"goosebumps"`
	Trauma        float64 `json:"trauma"`
	Tension       float64 `json:"tension"`

	Pointer  PointerData `json:"pointer"`
	Velocity float64     `json:"velocity"`
	Contact  bool        `json:"contact"`

	Effects *EffectsData `json:"effects,omitempty"`
}

// EffectsData lists the one-shot effects since the previous broadcast
type EffectsData struct {
	Ripple         bool         `json:"ripple,omitempty"`
	RippleOrigin   *PointerData `json:"ripple_origin,omitempty"`
	RippleStrength float64      `json:"ripple_strength,omitempty"`
	Bleeding       bool         `json:"bleeding,omitempty"`
	StartBleeding  bool         `json:"start_bleeding,omitempty"`
	StopBleeding   bool         `json:"stop_bleeding,omitempty"`
	ReturnToOrigin bool         `json:"return_to_origin,omitempty"`
}

// ErrorData describes a rejected message
type ErrorData struct {
	Message string `json:"message"`
}

// =============================================================================
// Bidirectional Message Types
// =============================================================================

// PingData contains ping information
type PingData struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"ts"`
}

// PongData contains pong response
type PongData struct {
	ID        string `json:"id"`
	PingTS    int64  `json:"ping_ts"`
	PongTS    int64  `json:"pong_ts"`
	LatencyMs int64  `json:"latency_ms"`
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
