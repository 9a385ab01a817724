package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Versifine/stride/internal/animation"
	"github.com/Versifine/stride/internal/body"
	"github.com/Versifine/stride/internal/config"
	"github.com/Versifine/stride/internal/debug"
	"github.com/Versifine/stride/internal/event"
	"github.com/Versifine/stride/internal/logger"
	"github.com/Versifine/stride/internal/metrics"
	"github.com/Versifine/stride/internal/physics"
	"github.com/getsentry/sentry-go"
	"github.com/go-gl/mathgl/mgl64"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the config file")
	archetype := flag.String("archetype", "", "archetype to simulate (defaults to the configured one)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	}); err != nil {
		slog.Error("Failed to init logger", "error", err)
		os.Exit(1)
	}
	defer logger.Close()

	bus := event.NewBus()
	bus.Subscribe(event.EventConfigIssue, event.IssueLogHandler)

	reporters := config.MultiReporter{config.BusReporter{Bus: bus}}
	if cfg.Reporting.SentryDSN != "" {
		sr, err := config.NewSentryReporter(sentry.ClientOptions{
			Dsn:         cfg.Reporting.SentryDSN,
			Environment: cfg.Reporting.Environment,
		})
		if err != nil {
			slog.Warn("Sentry reporting disabled", "error", err)
		} else {
			reporters = append(reporters, sr)
			defer sr.Flush(2 * time.Second)
		}
	}
	if n := cfg.Check(reporters); n > 0 {
		slog.Warn("Config issues corrected", "count", n)
	}

	name := *archetype
	if name == "" {
		name = cfg.Simulation.Archetype
	}
	arch, err := cfg.Archetype(name)
	if err != nil {
		slog.Error("Failed to select archetype", "error", err)
		os.Exit(1)
	}

	spawn := mgl64.Vec3(cfg.Simulation.Spawn)
	grid := demoGrid()
	motor := physics.NewMotor(grid, spawn)
	collector := metrics.New(nil)

	b, err := body.New(arch, motor, physics.NewWorld(grid),
		body.WithName(name),
		body.WithFixedStep(cfg.FixedStep()),
		body.WithObserver(collector),
		body.WithClips(animation.NewClipPlayer(cfg.Animation.Clips)),
		body.WithBus(bus),
		body.WithLogger(logger.For("body")),
	)
	if err != nil {
		slog.Error("Failed to create body", "error", err)
		os.Exit(1)
	}
	slog.Info("Body ready", "id", b.ID(), "archetype", name, "physics_hz", cfg.Simulation.PhysicsRateHz)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Listen != "" {
		go func() {
			if err := debug.Serve(ctx, cfg.Metrics.Listen, debug.NewRouter(b, collector.Handler())); err != nil {
				slog.Error("Debug server stopped", "error", err)
			}
		}()
	}

	frame := time.Duration(cfg.FrameStep() * float64(time.Second))
	console := debug.NewConsole(timedBody{Body: b, metrics: collector}, spawn, frame)
	if err := console.Start(ctx); err != nil {
		slog.Error("Console stopped", "error", err)
		os.Exit(1)
	}
}

// timedBody records the average physics tick cost of each Advance.
type timedBody struct {
	*body.Body
	metrics *metrics.Collector
}

func (t timedBody) Advance(in body.Input, cam body.Camera, dt float64) int {
	start := time.Now()
	steps := t.Body.Advance(in, cam, dt)
	if steps > 0 {
		t.metrics.RecordTick(time.Since(start) / time.Duration(steps))
	}
	return steps
}

// demoGrid builds a small course: a floor, a step, a slab stair, a walkable
// ramp, a steep slope and a ledge over a lower floor.
func demoGrid() *physics.Grid {
	g := physics.NewGrid()
	g.Fill(-16, -1, -16, 16, -1, 16, physics.LayerGround)

	g.Fill(-2, 0, 4, 2, 0, 4, physics.LayerGround)
	for i := 0; i < 4; i++ {
		g.SetSlab(4+i, 0, 0, 0.25*float64(i+1))
	}
	for x := -6; x >= -8; x-- {
		g.SetSlope(x, 0, 0, mgl64.Vec3{0.5, 1, 0})
	}
	for z := -4; z >= -6; z-- {
		g.SetSlope(0, 0, z, mgl64.Vec3{0, 1, 2})
	}

	g.Fill(10, 0, 8, 14, 3, 14, physics.LayerGround)
	g.Fill(10, -6, 16, 14, -6, 24, physics.LayerGround)
	g.Set(-4, 0, 8, physics.LayerProp)
	return g
}
