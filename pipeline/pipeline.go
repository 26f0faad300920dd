// File: pipeline/pipeline.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Pipeline wires producer, display and analysis stages around one pipe and
// supervises them with an errgroup.

package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/momentics/framepipe/affinity"
	"github.com/momentics/framepipe/api"
	"github.com/momentics/framepipe/logger"
	"github.com/momentics/framepipe/pool"
)

// Pipeline is one run of the capture pipeline.
type Pipeline struct {
	cfg      Config
	runID    string
	log      *slog.Logger
	opts     options
	pipe     *pool.Pipe
	overlays *Overlays
	producer *Producer
	display  *Display
	analysis []*Analysis
	started  atomic.Bool
}

// New builds the pipe with one display consumer plus one consumer per
// analyzer and prepares every stage. Nothing runs until Run.
func New(cfg Config, src Source, sink Sink, analyzers []Analyzer, opts ...Option) (*Pipeline, error) {
	if err := checkGeometry(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, api.ErrInvalidArgument.WithContext("source", nil)
	}
	if sink == nil {
		sink = DiscardSink{}
	}
	o := options{log: logger.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	var poolOpts []pool.Option
	if o.alloc != nil {
		poolOpts = append(poolOpts, pool.WithAllocator(o.alloc))
	}
	pipe, err := pool.New(1+len(analyzers), cfg.Depth, FrameSize(cfg.Width, cfg.Height), poolOpts...)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	runID := uuid.NewString()
	log := o.log.With(logger.RunID(runID))
	p := &Pipeline{
		cfg:      cfg,
		runID:    runID,
		log:      log,
		opts:     o,
		pipe:     pipe,
		overlays: &Overlays{},
	}
	p.producer = newProducer(pipe, src, cfg.Retry, cfg.MaxFrames, log)
	p.display = newDisplay(newConsumer(pipe, 0, "display", cfg.Retry, log), sink, p.overlays, cfg.Width, cfg.Height)
	for i, a := range analyzers {
		c := newConsumer(pipe, 1+i, "analysis-"+strconv.Itoa(i), cfg.AnalysisRetry, log)
		p.analysis = append(p.analysis, newAnalysis(c, a, p.overlays, cfg.AnalysisInterval, cfg.Width, cfg.Height))
	}
	if o.ctrl != nil {
		p.registerProbes()
	}
	return p, nil
}

// RunID identifies this pipeline in logs and stats.
func (p *Pipeline) RunID() string { return p.runID }

// Overlays returns the store shared by analysis and display.
func (p *Pipeline) Overlays() *Overlays { return p.overlays }

// Run starts every stage and blocks until the producer stops (ctx done,
// source exhausted or frame limit) and the consumers have worked through
// what was queued, or until a stage fails. The pipe is closed on return.
// Run may be called once.
func (p *Pipeline) Run(ctx context.Context) error {
	if !p.started.CompareAndSwap(false, true) {
		return api.ErrInvalidUsage.WithContext("pipeline", "already started")
	}
	defer p.Close()

	g, gctx := errgroup.WithContext(ctx)
	// consumers outlive a cancelled ctx until the producer has stopped
	cctx, stopConsumers := context.WithCancel(context.WithoutCancel(gctx))
	defer stopConsumers()

	g.Go(p.stage(gctx, "producer", p.cfg.ProducerCPU, func(ctx context.Context) error {
		defer stopConsumers()
		return p.producer.Run(ctx)
	}))
	g.Go(p.stage(cctx, "display", p.cfg.DisplayCPU, p.display.Run))
	for _, a := range p.analysis {
		g.Go(p.stage(cctx, a.c.name, p.cfg.AnalysisCPU, a.Run))
	}

	var wg sync.WaitGroup
	reportCtx, stopReport := context.WithCancel(ctx)
	if p.cfg.StatsInterval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.report(reportCtx)
		}()
	}

	err := g.Wait()
	if serr := p.settle(); err == nil {
		err = serr
	}
	stopReport()
	wg.Wait()
	p.publish(p.Stats())
	return err
}

func (p *Pipeline) stage(ctx context.Context, name string, cpu int, run func(context.Context) error) func() error {
	return func() error {
		log := p.log.With(logger.Stage(name))
		if cpu >= 0 {
			unpin, err := affinity.Pin(cpu)
			if err != nil {
				log.Warn("cpu pin failed", slog.Int("cpu", cpu), logger.Error(err))
			} else {
				defer unpin()
			}
		}
		start := time.Now()
		log.Debug("stage started")
		err := run(ctx)
		log.Info("stage stopped", logger.Duration(time.Since(start)), logger.Error(err))
		if err != nil {
			return fmt.Errorf("pipeline: %s: %w", name, err)
		}
		return nil
	}
}

// settle drops whatever a failed stage left queued so the pipe closes with
// every slot free.
func (p *Pipeline) settle() error {
	if err := p.display.c.drain(); err != nil {
		return fmt.Errorf("pipeline: display: %w", err)
	}
	for _, a := range p.analysis {
		if err := a.c.drain(); err != nil {
			return fmt.Errorf("pipeline: %s: %w", a.c.name, err)
		}
	}
	return nil
}

// Close releases the pipe. Run calls it on return; call it directly only
// for a pipeline that is never run.
func (p *Pipeline) Close() error {
	return p.pipe.Close()
}

// Stats collects counters from every stage and the pipe.
func (p *Pipeline) Stats() Stats {
	s := Stats{
		RunID:    p.runID,
		Producer: p.producer.Stats(),
		Display:  p.display.Stats(),
		Analysis: make([]StageStats, len(p.analysis)),
		Pipe:     p.pipe.Inspect(),
	}
	for i, a := range p.analysis {
		s.Analysis[i] = a.Stats()
	}
	return s
}
