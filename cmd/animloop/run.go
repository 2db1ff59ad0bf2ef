package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/fkcurrie/hub75-animloop/internal/config"
	"github.com/fkcurrie/hub75-animloop/internal/display"
	"github.com/fkcurrie/hub75-animloop/internal/frames"
	"github.com/fkcurrie/hub75-animloop/internal/playback"
	"github.com/fkcurrie/hub75-animloop/internal/preview"
	"github.com/fkcurrie/hub75-animloop/internal/sink"
	"github.com/fkcurrie/hub75-animloop/internal/status"
	"github.com/fkcurrie/hub75-animloop/internal/types"
)

// newLogger builds the process logger from the log section; verbose forces
// debug level.
func newLogger(w io.Writer, cfg types.LogConfig, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			level = slog.LevelInfo
		}
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func printBanner(logger *slog.Logger, cfg *config.Config) {
	d := cfg.Display
	logger.Info("hub75-animloop starting",
		"width", d.Width,
		"height", d.Height,
		"bit_depth", d.BitDepth,
		"sink", cfg.Sink.Kind,
		"clips", len(cfg.Playback.Clips),
		"assets", cfg.Assets.Path)
	logger.Info("legacy clips are scaled 2x",
		"legacy_tile", fmt.Sprintf("%dx%d", d.Width/2, d.Height/2),
		"target_tile", fmt.Sprintf("%dx%d", d.Width, d.Height))
	if cfg.Sink.Kind == types.SinkHUB75 && d.Height/2 > 16 {
		logger.Info("panel needs the E address line", "rows", d.Height, "gpio", cfg.Sink.HUB75.Pins.E)
	}
}

// run wires the show together and plays it until ctx is done or cycles
// passes have completed.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, cycles int) error {
	printBanner(logger, cfg)

	panel, err := sink.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s sink: %w", cfg.Sink.Kind, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	matrix := panel
	if cfg.Preview.Enabled {
		p := preview.NewServer(cfg.Display.Width, cfg.Display.Height, logger)
		matrix = display.Tee{panel, p}

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := p.ListenAndServe(ctx, cfg.Preview.Addr); err != nil {
				logger.Error("preview server failed", "error", err)
			}
		}()
	}
	defer func() {
		cancel()
		wg.Wait()
		if err := matrix.Close(); err != nil {
			logger.Warn("failed to close panel", "error", err)
		}
	}()

	var reporter playback.Reporter = playback.NopReporter{}
	if cfg.MQTT.Broker != "" {
		client, err := status.Connect(cfg.MQTT, logger)
		if err != nil {
			logger.Warn("status reporting disabled", "error", err)
		} else {
			defer client.Disconnect(250)
			reporter = status.NewMQTTReporter(client, cfg.MQTT.Topic, logger)
		}
	}

	clock := types.SystemClock{}
	if cfg.Splash.Enabled {
		if err := splash(matrix, cfg, clock); err != nil {
			logger.Warn("splash skipped", "error", err)
		}
	}

	surface := display.NewSurface(matrix)
	source := frames.NewSource(
		frames.DirStore{Path: cfg.Assets.Path, Extension: cfg.Assets.Extension},
		frames.Geometry{Width: cfg.Display.Width, Height: cfg.Display.Height},
	)
	director := playback.NewDirector(source, surface, playback.Options{
		Clips:            cfg.Clips(),
		TransitionFrames: cfg.Playback.TransitionFrames,
		Cadence:          types.Seconds(cfg.Playback.AnimationSpeed),
		Clock:            clock,
		Reporter:         reporter,
		Logger:           logger,
	})

	err = director.Run(ctx, cycles)
	if cerr := surface.Clear(); cerr != nil {
		logger.Warn("failed to blank panel", "error", cerr)
	}
	return err
}

func splash(m types.Matrix, cfg *config.Config, clock types.Clock) error {
	img, err := display.LoadSplash(cfg.Splash.Path, cfg.Display.Width, cfg.Display.Height)
	if err != nil {
		return err
	}
	if err := display.ShowSplash(m, img, types.Seconds(cfg.Splash.Seconds), clock); err != nil {
		return err
	}
	return m.Clear()
}
