// Package web serves the creature dashboard: REST status and tuning, frame
// viewers and pointer devices over WebSocket.
package web

import (
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/teslashibe/go-beetle/internal/log"
	"github.com/teslashibe/go-beetle/pkg/creature"
	"github.com/teslashibe/go-beetle/pkg/emotions"
	"github.com/teslashibe/go-beetle/pkg/hub"
	"github.com/teslashibe/go-beetle/pkg/pointer"
)

// maxLogs is the size of the phase journal kept for /api/logs
const maxLogs = 500

// LogEntry is one line of the phase journal
type LogEntry struct {
	Time    string  `json:"time"`
	Type    string  `json:"type"` // phase, gesture, tuning, reset
	Message string  `json:"message"`
	Seq     uint64  `json:"seq,omitempty"`
	Trauma  float64 `json:"trauma,omitempty"`
}

// Status is the snapshot served by /api/status
type Status struct {
	Phase     string             `json:"phase"`
	Gesture   string             `json:"gesture"`
	Trauma    float64            `json:"trauma"`
	Tension   float64            `json:"tension"`
	Seq       uint64             `json:"seq"`
	Time      float64            `json:"time"`
	Viewers   int                `json:"viewers"`
	Devices   int                `json:"devices"`
	Loop      creature.LoopStats `json:"loop"`
	Reactions emotions.Reactions `json:"reactions"`
}

// Options configures a Server
type Options struct {
	Port          string
	StaticDir     string        // served at /, empty disables
	BroadcastRate float64       // frames per simulated second sent to viewers
	CallTimeout   time.Duration // bound on work run on the loop goroutine
	Debug         bool          // log every request
	Version       string
}

// DefaultOptions returns the server defaults
func DefaultOptions() Options {
	return Options{
		Port:          "8080",
		StaticDir:     "./web",
		BroadcastRate: hub.DefaultBroadcastRate,
		CallTimeout:   2 * time.Second,
	}
}

// Server is the dashboard server
type Server struct {
	app  *fiber.App
	opts Options
	loop *creature.Loop

	frameHub    *hub.Hub
	logHub      *hub.Hub
	devices     *pointer.Hub
	broadcaster *hub.FrameBroadcaster

	logs   []LogEntry
	logsMu sync.RWMutex
}

// NewServer creates a dashboard server driving loop. It registers its frame
// sinks on the loop, so call it before loop.Run.
func NewServer(loop *creature.Loop, opts Options) *Server {
	def := DefaultOptions()
	if opts.Port == "" {
		opts.Port = def.Port
	}
	if opts.BroadcastRate <= 0 {
		opts.BroadcastRate = def.BroadcastRate
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = def.CallTimeout
	}

	s := &Server{
		opts:     opts,
		loop:     loop,
		logs:     make([]LogEntry, 0, maxLogs),
		frameHub: hub.New("frames"),
		logHub:   hub.New("logs"),
		devices:  pointer.NewHub(loop),
	}
	s.broadcaster = hub.NewFrameBroadcaster(s.frameHub, opts.BroadcastRate)
	s.devices.OnConfig(s.applyDeviceConfig)

	loop.AddSink(s.broadcaster)
	loop.AddSink(&journal{server: s})

	app := fiber.New(fiber.Config{
		AppName:               "Beetle",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	// CORS for local development
	app.Use(cors.New())
	if opts.Debug {
		app.Use(logger.New())
	}

	app.Get("/health", s.handleHealth)
	app.Get("/metrics", s.handleMetrics)

	if opts.StaticDir != "" {
		app.Static("/", opts.StaticDir)
	}

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/tuning", s.handleGetTuning)
	api.Post("/tuning", s.handleSetTuning)
	api.Post("/reset", s.handleReset)
	api.Get("/logs", s.handleGetLogs)
	s.devices.RegisterAPIRoutes(api)

	// registers the /ws upgrade check along with the device routes
	s.devices.RegisterRoutes(app)
	app.Get("/ws/frames", s.frameHub.Handler())
	app.Get("/ws/logs", s.logHub.Handler())

	s.app = app
	return s
}

// App returns the underlying fiber app
func (s *Server) App() *fiber.App {
	return s.app
}

// Start starts the hubs and blocks serving HTTP
func (s *Server) Start() error {
	log.Info("dashboard listening", "url", fmt.Sprintf("http://localhost:%s", s.opts.Port))

	go s.frameHub.Run()
	go s.logHub.Run()

	return s.app.Listen(":" + s.opts.Port)
}

// StartAsync starts the web server in a goroutine
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("web server error", "error", err)
		}
	}()
}

// Shutdown gracefully stops the web server and disconnects viewers
func (s *Server) Shutdown() error {
	s.frameHub.Close()
	s.logHub.Close()
	return s.app.Shutdown()
}

// AddLog appends a journal entry and broadcasts it to /ws/logs
func (s *Server) AddLog(entry LogEntry) {
	if entry.Time == "" {
		entry.Time = time.Now().Format("15:04:05")
	}

	s.logsMu.Lock()
	s.logs = append(s.logs, entry)
	if len(s.logs) > maxLogs {
		s.logs = s.logs[1:]
	}
	s.logsMu.Unlock()

	s.logHub.BroadcastJSON(entry)
}

// FrameHub returns the viewer hub
func (s *Server) FrameHub() *hub.Hub {
	return s.frameHub
}

// Devices returns the pointer device hub
func (s *Server) Devices() *pointer.Hub {
	return s.devices
}

// journal records phase changes into the server's log
type journal struct {
	server *Server
}

func (j *journal) OnFrame(f creature.Frame) {
	if !f.Params.PhaseChanged {
		return
	}
	j.server.AddLog(LogEntry{
		Type:    "phase",
		Message: fmt.Sprintf("%s -> %s", f.Params.PreviousPhase, f.Phase),
		Seq:     f.Seq,
		Trauma:  f.Params.Trauma,
	})
}
