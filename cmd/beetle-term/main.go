// beetle-term: the creature in a terminal, stroked with the mouse
//
// With -remote the mouse drives a running beetle server instead of a local
// engine, and the terminal mirrors nothing but the status line.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/teslashibe/go-beetle/internal/config"
	"github.com/teslashibe/go-beetle/internal/httpc"
	"github.com/teslashibe/go-beetle/internal/log"
	"github.com/teslashibe/go-beetle/pkg/audio"
	"github.com/teslashibe/go-beetle/pkg/creature"
	"github.com/teslashibe/go-beetle/pkg/pointer"
	"github.com/teslashibe/go-beetle/pkg/protocol"
	"github.com/teslashibe/go-beetle/pkg/term"
	"github.com/teslashibe/go-beetle/pkg/web"
)

var (
	remote     = flag.String("remote", "", "Forward mouse input to a beetle server, e.g. http://localhost:8080")
	tuningFile = flag.String("tuning", "", "Tuning file, .yaml or .json")
	withAudio  = flag.Bool("audio", false, "Play the creature's drone")
	rate       = flag.Float64("rate", 60, "Simulation rate in Hz")
)

func main() {
	flag.Parse()

	// logs share the terminal, so only errors unless LOG_LEVEL says otherwise
	if os.Getenv("LOG_LEVEL") == "" {
		os.Setenv("LOG_LEVEL", "error")
	}
	log.Init(config.LogLevel())

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "terminal: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "terminal: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	if *remote != "" {
		err = runRemote(ctx, screen, *remote)
	} else {
		err = runLocal(ctx, screen)
	}

	stop()
	screen.Fini()
	if err != nil {
		fmt.Fprintf(os.Stderr, "beetle-term: %v\n", err)
		os.Exit(1)
	}
}

// pollEvents forwards screen events until the screen is finalized.
func pollEvents(screen tcell.Screen) <-chan tcell.Event {
	ch := make(chan tcell.Event, 64)
	go func() {
		defer close(ch)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			ch <- ev
		}
	}()
	return ch
}

func quit(ev tcell.Event) bool {
	k, ok := ev.(*tcell.EventKey)
	if !ok {
		return false
	}
	return k.Key() == tcell.KeyEscape || k.Key() == tcell.KeyCtrlC || (k.Key() == tcell.KeyRune && k.Rune() == 'q')
}

func runLocal(ctx context.Context, screen tcell.Screen) error {
	renderer := term.NewRenderer(screen)

	cfg := creature.DefaultConfig()
	cfg.Rate = *rate
	engine, err := creature.NewEngine(cfg, renderer)
	if err != nil {
		return err
	}
	if *tuningFile != "" {
		tuning, err := config.LoadTuning(*tuningFile)
		if err != nil {
			return err
		}
		if err := engine.ApplyTuning(tuning); err != nil {
			return err
		}
	}

	loop := creature.NewLoop(engine)
	loop.AddSink(renderer)

	if *withAudio {
		drone := audio.NewDrone(audio.SampleRate)
		out := audio.NewOutput(drone, 1)
		if err := out.Start(); err == nil {
			loop.AddSink(drone)
			defer out.Close()
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go loop.Run(ctx)

	var mouse term.Mouse
	events := pollEvents(screen)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok || quit(ev) {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventFocus:
				if !ev.Focused {
					submitAll(loop, mouse.Leave())
				}
			default:
				w, h := screen.Size()
				submitAll(loop, mouse.Events(ev, w, h))
			}
		}
	}
}

func submitAll(loop *creature.Loop, events []creature.Event) {
	for _, ev := range events {
		loop.Submit(ev)
	}
}

func runRemote(ctx context.Context, screen tcell.Screen, base string) error {
	base = strings.TrimRight(base, "/")

	var status web.Status
	if err := httpc.GetJSON(ctx, base+"/api/status", &status); err != nil {
		return fmt.Errorf("reach %s: %w", base, err)
	}

	if *tuningFile != "" {
		tuning, err := config.LoadTuning(*tuningFile)
		if err != nil {
			return err
		}
		if err := httpc.PostJSON(ctx, base+"/api/tuning", tuning, nil); err != nil {
			return fmt.Errorf("push tuning: %w", err)
		}
	}

	wsURL, err := pointerURL(base)
	if err != nil {
		return err
	}
	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	client, err := pointer.Dial(dialCtx, wsURL)
	cancel()
	if err != nil {
		return err
	}
	defer client.Close()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	var mouse term.Mouse
	events := pollEvents(screen)
	drawStatus(screen, client.DeviceID(), status)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-client.Done():
			return fmt.Errorf("connection to %s lost", base)
		case <-ticker.C:
			client.Ping()
			if err := httpc.GetJSON(ctx, base+"/api/status", &status); err == nil {
				drawStatus(screen, client.DeviceID(), status)
			}
		case ev, ok := <-events:
			if !ok || quit(ev) {
				return nil
			}
			w, h := screen.Size()
			for _, e := range mouse.Events(ev, w, h) {
				forward(client, e)
			}
		}
	}
}

func forward(c *pointer.Client, ev creature.Event) {
	switch ev.Kind {
	case creature.EventMove:
		c.SendPointer(ev.Position.X, ev.Position.Y)
	case creature.EventDown:
		c.SendContact(protocol.ContactDown)
	case creature.EventUp:
		c.SendContact(protocol.ContactUp)
	case creature.EventLeave:
		c.SendContact(protocol.ContactLeave)
	}
}

func drawStatus(screen tcell.Screen, device string, st web.Status) {
	screen.Clear()
	line := fmt.Sprintf("remote %s  %-9s %-10s trauma %.2f  tension %.2f", device, st.Phase, st.Gesture, st.Trauma, st.Tension)
	_, h := screen.Size()
	for i, ch := range line {
		screen.SetContent(i, h-1, ch, nil, tcell.StyleDefault)
	}
	screen.Show()
}

// pointerURL turns http://host:port into ws://host:port/ws/pointer.
func pointerURL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("remote url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http", "":
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws/pointer"
	return u.String(), nil
}
