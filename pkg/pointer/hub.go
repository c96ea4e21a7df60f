// Package pointer accepts input devices over WebSocket and turns their
// messages into creature events.
package pointer

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/teslashibe/go-beetle/internal/log"
	"github.com/teslashibe/go-beetle/pkg/creature"
	"github.com/teslashibe/go-beetle/pkg/protocol"
)

// Submitter receives input events. *creature.Loop satisfies it.
type Submitter interface {
	Submit(ev creature.Event) error
}

// ConfigHandler applies a tuning update sent by a device. When reset is
// true the creature should return to its initial state.
type ConfigHandler func(deviceID string, tuning *creature.Tuning, reset bool) error

// Device is a connected input device
type Device struct {
	ID        string
	Conn      *websocket.Conn
	Connected time.Time
	LastSeen  time.Time

	contact bool
	mu      sync.Mutex
}

// Send writes a message to the device
func (d *Device) Send(msg *protocol.Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	data, err := msg.Bytes()
	if err != nil {
		return err
	}

	return d.Conn.WriteMessage(websocket.TextMessage, data)
}

// Hub manages WebSocket connections from pointer devices
type Hub struct {
	mu       sync.RWMutex
	devices  map[string]*Device
	events   Submitter
	onConfig ConfigHandler
	log      *slog.Logger

	messagesReceived atomic.Uint64
	messagesSent     atomic.Uint64
	messagesRejected atomic.Uint64
	eventsSubmitted  atomic.Uint64
	eventsDropped    atomic.Uint64
}

// NewHub creates a device hub delivering events to s
func NewHub(s Submitter) *Hub {
	return &Hub{
		devices: make(map[string]*Device),
		events:  s,
		log:     log.Component("pointer"),
	}
}

// OnConfig sets the handler for config messages. Without one, config
// messages are rejected.
func (h *Hub) OnConfig(fn ConfigHandler) {
	h.mu.Lock()
	h.onConfig = fn
	h.mu.Unlock()
}

// RegisterRoutes registers the device WebSocket routes on a Fiber app
func (h *Hub) RegisterRoutes(app *fiber.App) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/pointer", websocket.New(h.handleDevice))
	app.Get("/ws/pointer/:id", websocket.New(h.handleDevice))
}

func (h *Hub) handleDevice(c *websocket.Conn) {
	id := c.Params("id")
	if id == "" {
		id = generateDeviceID()
	}

	now := time.Now()
	dev := &Device{
		ID:        id,
		Conn:      c,
		Connected: now,
		LastSeen:  now,
	}

	h.mu.Lock()
	if old, ok := h.devices[id]; ok {
		// same ID reconnected; the newest connection wins
		old.Conn.Close()
	}
	h.devices[id] = dev
	count := len(h.devices)
	h.mu.Unlock()

	h.log.Info("device connected", "device", id, "devices", count)

	if msg, err := protocol.NewWelcomeMessage(id); err == nil {
		h.send(dev, msg)
	}

	defer func() {
		h.mu.Lock()
		if h.devices[id] == dev {
			delete(h.devices, id)
		}
		count := len(h.devices)
		h.mu.Unlock()

		// a device that vanishes mid-touch must not leave the creature held
		dev.mu.Lock()
		held := dev.contact
		dev.mu.Unlock()
		if held {
			h.submit(id, creature.ContactEvent(creature.EventLeave))
		}

		h.log.Info("device disconnected", "device", id, "devices", count)
	}()

	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			h.log.Debug("device read error", "device", id, "error", err)
			return
		}

		dev.mu.Lock()
		dev.LastSeen = time.Now()
		dev.mu.Unlock()

		h.messagesReceived.Add(1)
		if err := h.handleMessage(dev, data); err != nil {
			h.messagesRejected.Add(1)
			h.log.Debug("message rejected", "device", id, "error", err)
			if msg, merr := protocol.NewErrorMessage("%v", err); merr == nil {
				h.send(dev, msg)
			}
		}
	}
}

// handleMessage converts one device message into events
func (h *Hub) handleMessage(dev *Device, data []byte) error {
	msg, err := protocol.ParseMessage(data)
	if err != nil {
		return err
	}

	switch msg.Type {
	case protocol.TypePointer:
		p, err := msg.GetPointerData()
		if err != nil {
			return err
		}
		h.submit(dev.ID, creature.MoveEvent(p.X, p.Y))

	case protocol.TypeContact:
		cd, err := msg.GetContactData()
		if err != nil {
			return err
		}
		kind, err := contactKind(cd.State)
		if err != nil {
			return err
		}
		dev.mu.Lock()
		dev.contact = kind == creature.EventDown
		dev.mu.Unlock()
		h.submit(dev.ID, creature.ContactEvent(kind))

	case protocol.TypeTouch:
		td, err := msg.GetTouchData()
		if err != nil {
			return err
		}
		h.submit(dev.ID, creature.TouchEvent(td.Radius, td.Pressure))

	case protocol.TypeConfig:
		return h.handleConfig(dev.ID, msg)

	case protocol.TypePing:
		ping, err := msg.GetPingData()
		if err != nil {
			return err
		}
		pong, err := protocol.NewPongMessage(ping.ID, msg.Timestamp, time.Now().UnixMilli())
		if err != nil {
			return err
		}
		h.send(dev, pong)

	case protocol.TypePong:
		// keepalive only

	default:
		return fmt.Errorf("%w: %q", protocol.ErrUnexpectedType, msg.Type)
	}
	return nil
}

func (h *Hub) handleConfig(id string, msg *protocol.Message) error {
	update, err := msg.GetConfigUpdate()
	if err != nil {
		return err
	}

	h.mu.RLock()
	fn := h.onConfig
	h.mu.RUnlock()
	if fn == nil {
		return ErrConfigRejected
	}

	var tuning *creature.Tuning
	if len(update.Tuning) > 0 && string(update.Tuning) != "null" {
		tuning = &creature.Tuning{}
		if err := json.Unmarshal(update.Tuning, tuning); err != nil {
			return fmt.Errorf("%w: %v", protocol.ErrInvalidData, err)
		}
	}
	return fn(id, tuning, update.Reset)
}

func (h *Hub) submit(id string, ev creature.Event) {
	ev.Source = id
	if err := h.events.Submit(ev); err != nil {
		h.eventsDropped.Add(1)
		h.log.Debug("event dropped", "device", id, "kind", ev.Kind, "error", err)
		return
	}
	h.eventsSubmitted.Add(1)
}

func (h *Hub) send(dev *Device, msg *protocol.Message) {
	if err := dev.Send(msg); err != nil {
		h.log.Debug("send failed", "device", dev.ID, "error", err)
		return
	}
	h.messagesSent.Add(1)
}

// SendTo sends a message to a specific device
func (h *Hub) SendTo(id string, msg *protocol.Message) error {
	h.mu.RLock()
	dev, ok := h.devices[id]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrDeviceNotFound, id)
	}

	if err := dev.Send(msg); err != nil {
		return err
	}
	h.messagesSent.Add(1)
	return nil
}

// Broadcast sends a message to all connected devices
func (h *Hub) Broadcast(msg *protocol.Message) {
	for _, dev := range h.GetDevices() {
		h.send(dev, msg)
	}
}

// GetDevice returns a device by ID, or nil
func (h *Hub) GetDevice(id string) *Device {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.devices[id]
}

// GetDevices returns all connected devices
func (h *Hub) GetDevices() []*Device {
	h.mu.RLock()
	defer h.mu.RUnlock()

	devices := make([]*Device, 0, len(h.devices))
	for _, d := range h.devices {
		devices = append(devices, d)
	}
	return devices
}

// DeviceCount returns the number of connected devices
func (h *Hub) DeviceCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.devices)
}

// Stats contains hub statistics
type Stats struct {
	DeviceCount      int    `json:"device_count"`
	MessagesReceived uint64 `json:"messages_received"`
	MessagesSent     uint64 `json:"messages_sent"`
	MessagesRejected uint64 `json:"messages_rejected"`
	EventsSubmitted  uint64 `json:"events_submitted"`
	EventsDropped    uint64 `json:"events_dropped"`
}

// GetStats returns hub statistics
func (h *Hub) GetStats() Stats {
	return Stats{
		DeviceCount:      h.DeviceCount(),
		MessagesReceived: h.messagesReceived.Load(),
		MessagesSent:     h.messagesSent.Load(),
		MessagesRejected: h.messagesRejected.Load(),
		EventsSubmitted:  h.eventsSubmitted.Load(),
		EventsDropped:    h.eventsDropped.Load(),
	}
}

// DeviceInfo contains info about a connected device
type DeviceInfo struct {
	ID        string    `json:"id"`
	Connected time.Time `json:"connected"`
	LastSeen  time.Time `json:"last_seen"`
	Contact   bool      `json:"contact"`
}

func (d *Device) info() DeviceInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	return DeviceInfo{
		ID:        d.ID,
		Connected: d.Connected,
		LastSeen:  d.LastSeen,
		Contact:   d.contact,
	}
}

// GetDeviceInfos returns info about all connected devices
func (h *Hub) GetDeviceInfos() []DeviceInfo {
	devices := h.GetDevices()
	infos := make([]DeviceInfo, 0, len(devices))
	for _, d := range devices {
		infos = append(infos, d.info())
	}
	return infos
}

// RegisterAPIRoutes registers REST routes for device inspection
func (h *Hub) RegisterAPIRoutes(api fiber.Router) {
	devices := api.Group("/devices")

	devices.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"devices": h.GetDeviceInfos(),
			"count":   h.DeviceCount(),
		})
	})

	devices.Get("/stats", func(c *fiber.Ctx) error {
		return c.JSON(h.GetStats())
	})

	devices.Get("/:id", func(c *fiber.Ctx) error {
		dev := h.GetDevice(c.Params("id"))
		if dev == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": ErrDeviceNotFound.Error()})
		}
		return c.JSON(dev.info())
	})
}

func contactKind(state string) (creature.EventKind, error) {
	switch state {
	case protocol.ContactDown:
		return creature.EventDown, nil
	case protocol.ContactUp:
		return creature.EventUp, nil
	case protocol.ContactLeave:
		return creature.EventLeave, nil
	}
	return 0, fmt.Errorf("%w: contact state %q", protocol.ErrInvalidData, state)
}

func generateDeviceID() string {
	return uuid.NewString()
}
