// File: cmd/framepipe/main.go
// Author: momentics <momentics@gmail.com>
//
// framepipe runs the capture pipeline against a synthetic camera: one
// producer, a display stage and FRAMEPIPE_ANALYZERS analysis stages sharing
// a bounded broadcast pool. Configuration comes from FRAMEPIPE_* variables
// or a .env file. On exit the debug probes are dumped to stdout as JSON.

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/momentics/framepipe/config"
	"github.com/momentics/framepipe/control"
	"github.com/momentics/framepipe/logger"
	"github.com/momentics/framepipe/pipeline"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg config.Pipeline
	config.MustLoad(&cfg)

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	log := logger.New(level, logger.Format(cfg.LogFormat), os.Stderr, logger.Component("framepipe"))
	if err := cfg.Validate(); err != nil {
		log.Error("Invalid configuration", logger.Error(err))
		os.Exit(1)
	}

	src, err := pipeline.NewTestPattern(cfg.Width, cfg.Height, cfg.FPS)
	if err != nil {
		log.Error("Failed to create source", logger.Error(err))
		os.Exit(1)
	}

	var sink pipeline.Sink = pipeline.DiscardSink{}
	if cfg.SnapshotDir != "" {
		bmpSink, err := pipeline.NewBMPSink(cfg.SnapshotDir, cfg.SnapshotEvery)
		if err != nil {
			log.Error("Failed to create snapshot sink", logger.Error(err))
			os.Exit(1)
		}
		sink = bmpSink
	}

	analyzers := make([]pipeline.Analyzer, cfg.Analyzers)
	for i := range analyzers {
		analyzers[i] = pipeline.SpotDetector{}
	}

	ctrl := control.NewController()
	p, err := pipeline.New(pipeline.ConfigFrom(cfg), src, sink, analyzers,
		pipeline.WithLogger(log),
		pipeline.WithController(ctrl),
	)
	if err != nil {
		log.Error("Failed to build pipeline", logger.Error(err))
		os.Exit(1)
	}

	log.Info("Pipeline starting",
		logger.RunID(p.RunID()),
		slog.Int("width", cfg.Width),
		slog.Int("height", cfg.Height),
		slog.Int("consumers", cfg.Consumers()),
		slog.Int("depth", cfg.Depth),
	)
	runErr := p.Run(ctx)

	if err := ctrl.Dump(os.Stdout); err != nil {
		log.Warn("Failed to dump state", logger.Error(err))
	}
	if runErr != nil {
		log.Error("Pipeline failed", logger.Error(runErr))
		os.Exit(1)
	}
	log.Info("Pipeline stopped")
}
