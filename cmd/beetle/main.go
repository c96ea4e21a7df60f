// beetle: runs the creature engine and serves it to browsers and pointer devices
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/teslashibe/go-beetle/internal/config"
	"github.com/teslashibe/go-beetle/internal/log"
	"github.com/teslashibe/go-beetle/pkg/audio"
	"github.com/teslashibe/go-beetle/pkg/creature"
	"github.com/teslashibe/go-beetle/pkg/web"
)

var (
	version    = "0.1.0"
	port       = flag.String("port", "", "HTTP server port (default $BEETLE_PORT or 8080)")
	rate       = flag.Float64("rate", 60, "Simulation rate in Hz")
	tuningFile = flag.String("tuning", "", "Tuning file, .yaml or .json (default $BEETLE_TUNING)")
	withAudio  = flag.Bool("audio", false, "Play the creature's drone on the default audio device")
	gain       = flag.Float64("gain", 1, "Audio gain")
	static     = flag.String("static", "./web", "Directory served at /")
	debug      = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	level := config.LogLevel()
	if *debug {
		level = "debug"
	}
	log.Init(level)

	if err := run(); err != nil {
		log.Error("beetle failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if *port == "" {
		*port = config.Port()
	}
	if *tuningFile == "" {
		*tuningFile = config.TuningPath()
	}

	cfg := creature.DefaultConfig()
	cfg.Rate = *rate

	engine, err := creature.NewEngine(cfg, nil)
	if err != nil {
		return err
	}

	if *tuningFile != "" {
		tuning, err := config.LoadTuning(*tuningFile)
		if err != nil {
			return err
		}
		if err := engine.ApplyTuning(tuning); err != nil {
			return fmt.Errorf("apply %s: %w", *tuningFile, err)
		}
	}

	loop := creature.NewLoop(engine)

	if *withAudio {
		drone := audio.NewDrone(audio.SampleRate)
		out := audio.NewOutput(drone, *gain)
		if err := out.Start(); err != nil {
			log.Warn("audio unavailable, continuing silently", "error", err)
		} else {
			loop.AddSink(drone)
			defer out.Close()
		}
	}

	server := web.NewServer(loop, web.Options{
		Port:      *port,
		StaticDir: *static,
		Debug:     *debug,
		Version:   version,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- server.Start() }()

	log.Info("beetle started",
		"version", version,
		"rate", cfg.Rate,
		"viewer", fmt.Sprintf("ws://localhost:%s/ws/frames", *port),
		"pointer", fmt.Sprintf("ws://localhost:%s/ws/pointer", *port),
	)

	loopDone := make(chan error, 1)
	go func() { loopDone <- loop.Run(ctx) }()

	select {
	case <-ctx.Done():
	case err := <-errc:
		stop()
		<-loopDone
		return fmt.Errorf("web server: %w", err)
	}

	log.Info("shutting down")
	<-loopDone

	done := make(chan error, 1)
	go func() { done <- server.Shutdown() }()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("shutdown timed out")
	}
}
