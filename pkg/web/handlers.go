package web

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/teslashibe/go-beetle/pkg/creature"
)

// handleHealth reports liveness
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": s.opts.Version,
		"running": s.loop.Stats().Running,
		"devices": s.devices.DeviceCount(),
		"viewers": s.frameHub.ClientCount(),
	})
}

// handleMetrics exposes counters in Prometheus text format
func (s *Server) handleMetrics(c *fiber.Ctx) error {
	ls := s.loop.Stats()
	ds := s.devices.GetStats()
	f := s.loop.Latest()

	c.Set(fiber.HeaderContentType, "text/plain; version=0.0.4")
	return c.SendString(fmt.Sprintf(`# HELP beetle_frames_total Frames processed by the loop
# TYPE beetle_frames_total counter
beetle_frames_total %d

# HELP beetle_events_received_total Input events submitted to the loop
# TYPE beetle_events_received_total counter
beetle_events_received_total %d

# HELP beetle_events_dropped_total Input events dropped on a full queue
# TYPE beetle_events_dropped_total counter
beetle_events_dropped_total %d

# HELP beetle_devices Connected pointer devices
# TYPE beetle_devices gauge
beetle_devices %d

# HELP beetle_viewers Connected frame viewers
# TYPE beetle_viewers gauge
beetle_viewers %d

# HELP beetle_messages_rejected_total Device messages rejected as invalid
# TYPE beetle_messages_rejected_total counter
beetle_messages_rejected_total %d

# HELP beetle_trauma Current trauma level
# TYPE beetle_trauma gauge
beetle_trauma %g

# HELP beetle_phase Current emotional phase (0=peace .. 5=healing)
# TYPE beetle_phase gauge
beetle_phase %d
`, ls.Frames, ls.EventsReceived, ls.EventsDropped, ds.DeviceCount, s.frameHub.ClientCount(),
		ds.MessagesRejected, f.Params.Trauma, int(f.Phase)))
}

// handleStatus returns the creature's current state
func (s *Server) handleStatus(c *fiber.Ctx) error {
	f := s.loop.Latest()
	return c.JSON(Status{
		Phase:     f.Phase.String(),
		Gesture:   f.Gesture.String(),
		Trauma:    f.Params.Trauma,
		Tension:   f.Params.Tension,
		Seq:       f.Seq,
		Time:      f.Time,
		Viewers:   s.frameHub.ClientCount(),
		Devices:   s.devices.DeviceCount(),
		Loop:      s.loop.Stats(),
		Reactions: f.Params.Reactions,
	})
}

// handleGetTuning returns the current tuning values
func (s *Server) handleGetTuning(c *fiber.Ctx) error {
	var t creature.Tuning
	err := s.call(c.UserContext(), func(e *creature.Engine) error {
		t = e.GetTuning()
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(t)
}

// handleSetTuning applies a partial tuning update; zero fields are left alone
func (s *Server) handleSetTuning(c *fiber.Ctx) error {
	var req creature.Tuning
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var applied creature.Tuning
	err := s.call(c.UserContext(), func(e *creature.Engine) error {
		if err := e.ApplyTuning(req); err != nil {
			return err
		}
		applied = e.GetTuning()
		return nil
	})
	if err != nil {
		status := fiber.StatusServiceUnavailable
		if errors.Is(err, creature.ErrInvalidConfig) {
			status = fiber.StatusBadRequest
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	s.AddLog(LogEntry{Type: "tuning", Message: "tuning updated via api"})
	return c.JSON(applied)
}

// handleReset puts the creature back into its initial state
func (s *Server) handleReset(c *fiber.Ctx) error {
	err := s.call(c.UserContext(), func(e *creature.Engine) error {
		e.Reset()
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}

	s.AddLog(LogEntry{Type: "reset", Message: "creature reset via api"})
	return c.JSON(fiber.Map{"status": "reset"})
}

// handleGetLogs returns recent journal entries
func (s *Server) handleGetLogs(c *fiber.Ctx) error {
	s.logsMu.RLock()
	defer s.logsMu.RUnlock()
	return c.JSON(s.logs)
}

// applyDeviceConfig handles config messages from pointer devices
func (s *Server) applyDeviceConfig(deviceID string, tuning *creature.Tuning, reset bool) error {
	err := s.call(context.Background(), func(e *creature.Engine) error {
		if tuning != nil {
			if err := e.ApplyTuning(*tuning); err != nil {
				return err
			}
		}
		if reset {
			e.Reset()
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.AddLog(LogEntry{Type: "tuning", Message: "config from device " + deviceID})
	return nil
}

// call runs fn on the loop goroutine, bounded by the call timeout
func (s *Server) call(ctx context.Context, fn func(*creature.Engine) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.CallTimeout)
	defer cancel()
	return s.loop.Call(ctx, fn)
}
