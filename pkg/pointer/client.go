package pointer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/teslashibe/go-beetle/internal/log"
	"github.com/teslashibe/go-beetle/pkg/protocol"
)

// Client is a remote pointer device. It forwards input to a server's
// /ws/pointer endpoint.
type Client struct {
	conn     *websocket.Conn
	deviceID string
	log      *slog.Logger

	writeMu sync.Mutex
	closed  atomic.Bool
	done    chan struct{}

	lastError atomic.Value // string
	latencyMs atomic.Int64
}

// Dial connects to url (for example ws://localhost:8080/ws/pointer) and
// waits for the server's welcome message.
func Dial(ctx context.Context, url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	deadline := time.Now().Add(5 * time.Second)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	conn.SetReadDeadline(deadline)
	_, data, err := conn.ReadMessage()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("read welcome: %w", err)
	}
	conn.SetReadDeadline(time.Time{})

	msg, err := protocol.ParseMessage(data)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("read welcome: %w", err)
	}
	if msg.Type != protocol.TypeWelcome {
		conn.Close()
		return nil, fmt.Errorf("read welcome: %w: %q", protocol.ErrUnexpectedType, msg.Type)
	}
	welcome, err := msg.GetWelcomeData()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("read welcome: %w", err)
	}

	c := &Client{
		conn:     conn,
		deviceID: welcome.DeviceID,
		log:      log.Component("pointer-client").With("device", welcome.DeviceID),
		done:     make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// DeviceID returns the ID the server assigned to this client
func (c *Client) DeviceID() string {
	return c.deviceID
}

// Done is closed when the connection is lost or closed
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// LastError returns the most recent error reported by the server
func (c *Client) LastError() string {
	s, _ := c.lastError.Load().(string)
	return s
}

// Latency returns the round trip of the last answered ping
func (c *Client) Latency() time.Duration {
	return time.Duration(c.latencyMs.Load()) * time.Millisecond
}

func (c *Client) readLoop() {
	defer close(c.done)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if !c.closed.Load() {
				c.log.Warn("connection lost", "error", err)
			}
			return
		}

		msg, err := protocol.ParseMessage(data)
		if err != nil {
			continue
		}
		switch msg.Type {
		case protocol.TypeError:
			if e, err := msg.GetErrorData(); err == nil {
				c.lastError.Store(e.Message)
				c.log.Warn("server rejected message", "error", e.Message)
			}
		case protocol.TypePong:
			if p, err := msg.GetPongData(); err == nil {
				c.latencyMs.Store(time.Now().UnixMilli() - p.PingTS)
			}
		}
	}
}

func (c *Client) send(msg *protocol.Message, err error) error {
	if err != nil {
		return err
	}
	if c.closed.Load() {
		return ErrClosed
	}
	data, err := msg.Bytes()
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// SendPointer sends a normalized pointer position
func (c *Client) SendPointer(x, y float64) error {
	return c.send(protocol.NewPointerMessage(x, y))
}

// SendContact sends a contact transition (protocol.ContactDown, ContactUp or ContactLeave)
func (c *Client) SendContact(state string) error {
	return c.send(protocol.NewContactMessage(state))
}

// SendTouch sends touch radius and pressure
func (c *Client) SendTouch(radius, pressure float64) error {
	return c.send(protocol.NewTouchMessage(radius, pressure))
}

// SendConfig sends a tuning update
func (c *Client) SendConfig(tuning interface{}, reset bool) error {
	return c.send(protocol.NewConfigMessage(tuning, reset))
}

// Ping sends a ping; the reply updates Latency
func (c *Client) Ping() error {
	return c.send(protocol.NewPingMessage(c.deviceID))
}

// Close sends a close frame and closes the connection
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.writeMu.Lock()
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	c.writeMu.Unlock()
	return c.conn.Close()
}
