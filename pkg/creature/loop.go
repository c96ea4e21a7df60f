package creature

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/teslashibe/go-beetle/internal/log"
)

// Loop drives an Engine at a fixed rate. Input events and control functions
// may be submitted from any goroutine; the engine itself is only touched by
// the goroutine running Run (or calling Step).
type Loop struct {
	engine   *Engine
	interval time.Duration
	maxDelta float64

	events chan Event
	ctrl   chan func(*Engine)

	mu     sync.RWMutex
	sinks  []FrameSink
	latest Frame

	// step guards the engine between Step and a Call made while stopped.
	step sync.Mutex

	running   atomic.Bool
	received  atomic.Uint64
	dropped   atomic.Uint64
	processed atomic.Uint64

	log *slog.Logger
}

// LoopStats are counters for diagnostics.
type LoopStats struct {
	Running        bool    `json:"running"`
	Rate           float64 `json:"rate"`
	EventsReceived uint64  `json:"events_received"`
	EventsDropped  uint64  `json:"events_dropped"`
	Frames         uint64  `json:"frames"`
}

// NewLoop creates a loop for e using the rate, frame delta clamp and queue
// size from the engine's configuration.
func NewLoop(e *Engine) *Loop {
	cfg := e.Config()
	return &Loop{
		engine:   e,
		interval: time.Duration(float64(time.Second) / cfg.Rate),
		maxDelta: cfg.MaxFrameDelta,
		events:   make(chan Event, cfg.QueueSize),
		ctrl:     make(chan func(*Engine), 16),
		latest:   e.Frame(),
		log:      log.Component("loop"),
	}
}

// AddSink registers a consumer for every frame.
func (l *Loop) AddSink(s FrameSink) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sinks = append(l.sinks, s)
}

// Submit queues an input event without blocking. It returns ErrQueueFull
// when the event was dropped.
func (l *Loop) Submit(ev Event) error {
	l.received.Add(1)
	select {
	case l.events <- ev:
		return nil
	default:
		l.dropped.Add(1)
		return ErrQueueFull
	}
}

// Do queues fn to run on the loop goroutine before the next frame.
func (l *Loop) Do(fn func(*Engine)) error {
	select {
	case l.ctrl <- fn:
		return nil
	default:
		return ErrQueueFull
	}
}

// Call runs fn on the loop goroutine and waits for it to finish. If the loop
// is not running, fn runs on the caller's goroutine, excluded from any Step
// that starts meanwhile.
func (l *Loop) Call(ctx context.Context, fn func(*Engine) error) error {
	if !l.running.Load() {
		l.step.Lock()
		defer l.step.Unlock()
		return fn(l.engine)
	}
	done := make(chan error, 1)
	if err := l.Do(func(e *Engine) { done <- fn(e) }); err != nil {
		return err
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run ticks the engine until ctx is cancelled. Stopping the loop freezes
// every accumulator in place.
func (l *Loop) Run(ctx context.Context) error {
	l.running.Store(true)
	defer l.running.Store(false)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.log.Info("loop started", "hz", 1.0/l.interval.Seconds())

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			l.log.Info("loop stopped", "frames", l.processed.Load())
			return nil
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if dt > l.maxDelta {
				dt = l.maxDelta
			}
			l.Step(dt)
		}
	}
}

// Step drains queued input, advances the engine by dt and fans the frame out
// to every sink. Concurrent Steps are serialized.
func (l *Loop) Step(dt float64) Frame {
	l.step.Lock()
	l.drain()
	fr := l.engine.Update(dt)
	l.step.Unlock()
	l.processed.Add(1)

	l.mu.Lock()
	l.latest = fr
	sinks := make([]FrameSink, len(l.sinks))
	copy(sinks, l.sinks)
	l.mu.Unlock()

	for _, s := range sinks {
		s.OnFrame(fr)
	}
	return fr
}

func (l *Loop) drain() {
	for {
		select {
		case fn := <-l.ctrl:
			fn(l.engine)
		case ev := <-l.events:
			l.engine.Apply(ev)
		default:
			return
		}
	}
}

// Latest returns the most recent frame. Safe from any goroutine.
func (l *Loop) Latest() Frame {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.latest
}

// Stats returns loop counters. Safe from any goroutine.
func (l *Loop) Stats() LoopStats {
	return LoopStats{
		Running:        l.running.Load(),
		Rate:           1.0 / l.interval.Seconds(),
		EventsReceived: l.received.Load(),
		EventsDropped:  l.dropped.Load(),
		Frames:         l.processed.Load(),
	}
}
