package hub

import (
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	fws "github.com/gofiber/websocket/v2"
	"github.com/gorilla/websocket"

	"github.com/teslashibe/go-beetle/pkg/creature"
	"github.com/teslashibe/go-beetle/pkg/emotions"
	"github.com/teslashibe/go-beetle/pkg/gesture"
	"github.com/teslashibe/go-beetle/pkg/motion"
	"github.com/teslashibe/go-beetle/pkg/protocol"
)

const frame = 1.0 / 60

func drain(h *Hub) []Message {
	var out []Message
	for {
		select {
		case m := <-h.broadcast:
			out = append(out, m)
		default:
			return out
		}
	}
}

func decodeFrame(t *testing.T, m Message) *protocol.FrameData {
	t.Helper()
	msg, err := protocol.ParseMessage(m.Data)
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	if msg.Type != protocol.TypeFrame {
		t.Fatalf("Type = %s, want frame", msg.Type)
	}
	fd, err := msg.GetFrameData()
	if err != nil {
		t.Fatalf("GetFrameData: %v", err)
	}
	return fd
}

func TestNew(t *testing.T) {
	h := New("frames")
	if h.Name() != "frames" {
		t.Errorf("Name = %q, want frames", h.Name())
	}
	if h.ClientCount() != 0 {
		t.Errorf("ClientCount = %d, want 0", h.ClientCount())
	}
	if h.IsRunning() {
		t.Error("hub should not be running before Run")
	}
}

func TestBroadcastFullChannel(t *testing.T) {
	h := New("test")
	for i := 0; i < cap(h.broadcast)+10; i++ {
		h.Broadcast(NewJSONMessage([]byte(`{}`)))
	}
	if got := len(drain(h)); got != cap(h.broadcast) {
		t.Errorf("queued = %d, want %d", got, cap(h.broadcast))
	}
}

func TestBroadcastJSON(t *testing.T) {
	h := New("test")
	if err := h.BroadcastJSON(map[string]int{"a": 1}); err != nil {
		t.Fatalf("BroadcastJSON: %v", err)
	}
	msgs := drain(h)
	if len(msgs) != 1 || string(msgs[0].Data) != `{"a":1}` {
		t.Errorf("messages = %v", msgs)
	}
	if err := h.BroadcastJSON(func() {}); err == nil {
		t.Error("BroadcastJSON should fail for unencodable values")
	}
}

func TestRunAndClose(t *testing.T) {
	h := New("test")
	done := make(chan struct{})
	go func() {
		h.Run()
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for !h.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if !h.IsRunning() {
		t.Fatal("hub should be running")
	}

	h.Close()
	h.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Close")
	}
}

func TestBroadcasterThrottle(t *testing.T) {
	h := New("test")
	b := NewFrameBroadcaster(h, 30)

	for i := 0; i < 60; i++ {
		b.OnFrame(creature.Frame{Seq: uint64(i + 1), Delta: frame})
	}

	msgs := drain(h)
	if len(msgs) != 30 {
		t.Errorf("broadcasts = %d, want 30", len(msgs))
	}
	if b.Sent() != 30 {
		t.Errorf("Sent = %d, want 30", b.Sent())
	}
}

func TestBroadcasterDefaultRate(t *testing.T) {
	b := NewFrameBroadcaster(New("test"), 0)
	if b.interval != 1/DefaultBroadcastRate {
		t.Errorf("interval = %v, want %v", b.interval, 1/DefaultBroadcastRate)
	}
}

func TestBroadcasterFoldsEffects(t *testing.T) {
	h := New("test")
	b := NewFrameBroadcaster(h, 30)

	ripple := creature.Frame{Seq: 1, Delta: frame}
	ripple.Params.Effects = emotions.Effects{
		Ripple:         true,
		RippleOrigin:   motion.Vec2{X: 0.2, Y: -0.1},
		RippleStrength: 0.8,
	}
	b.OnFrame(ripple)
	if n := len(drain(h)); n != 0 {
		t.Fatalf("first frame should be throttled, got %d broadcasts", n)
	}

	b.OnFrame(creature.Frame{Seq: 2, Delta: frame})
	msgs := drain(h)
	if len(msgs) != 1 {
		t.Fatalf("broadcasts = %d, want 1", len(msgs))
	}
	fd := decodeFrame(t, msgs[0])
	if fd.Seq != 2 {
		t.Errorf("Seq = %d, want 2", fd.Seq)
	}
	if fd.Effects == nil || !fd.Effects.Ripple {
		t.Fatalf("Effects = %+v, want ripple", fd.Effects)
	}
	if fd.Effects.RippleOrigin == nil || fd.Effects.RippleOrigin.X != 0.2 {
		t.Errorf("RippleOrigin = %+v", fd.Effects.RippleOrigin)
	}
	if fd.Effects.RippleStrength != 0.8 {
		t.Errorf("RippleStrength = %v, want 0.8", fd.Effects.RippleStrength)
	}

	// effects are cleared once sent
	b.OnFrame(creature.Frame{Seq: 3, Delta: frame})
	b.OnFrame(creature.Frame{Seq: 4, Delta: frame})
	msgs = drain(h)
	if len(msgs) != 1 {
		t.Fatalf("broadcasts = %d, want 1", len(msgs))
	}
	if fd := decodeFrame(t, msgs[0]); fd.Effects != nil {
		t.Errorf("Effects = %+v, want none", fd.Effects)
	}
}

func TestBroadcasterMarksBleeding(t *testing.T) {
	h := New("test")
	b := NewFrameBroadcaster(h, 60)

	b.OnFrame(creature.Frame{Seq: 1, Delta: frame, Phase: emotions.Bleeding})
	msgs := drain(h)
	if len(msgs) != 1 {
		t.Fatalf("broadcasts = %d, want 1", len(msgs))
	}
	fd := decodeFrame(t, msgs[0])
	if fd.Phase != "bleeding" {
		t.Errorf("Phase = %q, want bleeding", fd.Phase)
	}
	if fd.Effects == nil || !fd.Effects.Bleeding {
		t.Errorf("Effects = %+v, want bleeding", fd.Effects)
	}
}

func TestFrameData(t *testing.T) {
	f := creature.Frame{
		Seq:     7,
		Time:    1.5,
		Gesture: gesture.Stroke,
		Phase:   emotions.Tension,
	}
	f.Params.BreathSpeed = 1.3
	f.Params.Trauma = 0.25
	f.Signals.Position = motion.Vec2{X: 0.5, Y: -0.5}
	f.Signals.Velocity = 0.1
	f.Signals.Contact = true

	fd := FrameData(f)
	if fd.Seq != 7 || fd.Time != 1.5 {
		t.Errorf("Seq/Time = %d/%v", fd.Seq, fd.Time)
	}
	if fd.Gesture != "stroke" || fd.Phase != "tension" {
		t.Errorf("Gesture/Phase = %q/%q", fd.Gesture, fd.Phase)
	}
	if fd.BreathSpeed != 1.3 || fd.Trauma != 0.25 {
		t.Errorf("BreathSpeed/Trauma = %v/%v", fd.BreathSpeed, fd.Trauma)
	}
	if fd.Pointer.X != 0.5 || fd.Pointer.Y != -0.5 || !fd.Contact || fd.Velocity != 0.1 {
		t.Errorf("pointer = %+v contact=%v velocity=%v", fd.Pointer, fd.Contact, fd.Velocity)
	}
}

func TestWebSocketViewer(t *testing.T) {
	h := New("frames")
	go h.Run()
	defer h.Close()

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use("/ws", func(c *fiber.Ctx) error {
		if fws.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/frames", h.Handler())

	go app.Listen(":18090")
	defer app.Shutdown()
	time.Sleep(100 * time.Millisecond)

	// published before anyone connects; replayed on connect
	h.Broadcast(NewJSONMessage([]byte(`{"type":"frame"}`)))
	time.Sleep(50 * time.Millisecond)

	ws, _, err := websocket.DefaultDialer.Dial("ws://localhost:18090/ws/frames", nil)
	if err != nil {
		t.Fatalf("WebSocket dial error: %v", err)
	}
	defer ws.Close()

	ws.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if string(data) != `{"type":"frame"}` {
		t.Errorf("replayed = %s", data)
	}

	if h.ClientCount() != 1 {
		t.Errorf("ClientCount = %d, want 1", h.ClientCount())
	}

	h.Broadcast(NewJSONMessage([]byte(`{"type":"frame","n":2}`)))
	_, data, err = ws.ReadMessage()
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if string(data) != `{"type":"frame","n":2}` {
		t.Errorf("broadcast = %s", data)
	}

	ws.Close()
	time.Sleep(100 * time.Millisecond)
	if h.ClientCount() != 0 {
		t.Errorf("ClientCount = %d, want 0 after disconnect", h.ClientCount())
	}
}
