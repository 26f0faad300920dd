// File: pipeline/report.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Periodic throughput log lines and control metrics.

package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/momentics/framepipe/logger"
)

func (p *Pipeline) report(ctx context.Context) {
	t := time.NewTicker(p.cfg.StatsInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s := p.Stats()
			p.publish(s)
			p.log.Info("throughput",
				logger.Group("producer", logger.FPS(s.Producer.FPS), logger.Count("published", s.Producer.Published),
					logger.Count("undelivered", s.Producer.Undelivered)),
				logger.Group("display", logger.FPS(s.Display.FPS), logger.Count("missed", s.Display.Missed)),
				slog.Int("free", s.Pipe.Free),
			)
		}
	}
}

// publish mirrors s into the controller metrics.
func (p *Pipeline) publish(s Stats) {
	ctrl := p.opts.ctrl
	if ctrl == nil {
		return
	}
	m := ctrl.Metrics()
	m.Set("producer.fps", s.Producer.FPS)
	m.Set("producer.published", s.Producer.Published)
	m.Set("producer.undelivered", s.Producer.Undelivered)
	m.Set("producer.partial", s.Producer.Partial)
	for _, st := range append([]StageStats{s.Display}, s.Analysis...) {
		m.Set(st.Name+".fps", st.FPS)
		m.Set(st.Name+".frames", st.Frames)
		m.Set(st.Name+".missed", st.Missed)
	}
	m.Set("pipe.free", s.Pipe.Free)
	m.Set("pipe.in_flight", s.Pipe.InFlight)
}

func (p *Pipeline) registerProbes() {
	ctrl := p.opts.ctrl
	ctrl.RegisterProbe("run_id", func() any { return p.runID })
	ctrl.RegisterProbe("pipe", func() any { return p.pipe.Inspect() })
	ctrl.RegisterProbe("pipe.check", func() any {
		if err := p.pipe.Check(); err != nil {
			return err.Error()
		}
		return "ok"
	})
	ctrl.RegisterProbe("stages", func() any { return p.Stats() })
	ctrl.RegisterProbe("overlays", func() any {
		rects, seq := p.overlays.Snapshot(nil)
		return map[string]any{"seq": seq, "regions": rects, "dropped": p.overlays.Dropped()}
	})
}
