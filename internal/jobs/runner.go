package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/sar-ops/rosterd/internal/observability"
)

type Job func(ctx context.Context) error

type Runner struct {
	ctx context.Context
}

func New(ctx context.Context) *Runner { return &Runner{ctx: ctx} }

// Every runs fn on a ticker until the runner's context is cancelled.
// The first run fires immediately so gauges are populated on startup.
func (r *Runner) Every(interval time.Duration, name string, fn Job) {
	go func() {
		run := func() {
			defer func() {
				if rec := recover(); rec != nil {
					observability.CaptureErr(fmt.Errorf("panic in job %s: %v", name, rec))
					jobErrors.WithLabelValues(name).Inc()
				}
			}()
			start := time.Now()
			if err := fn(r.ctx); err != nil {
				observability.CaptureErr(err)
				jobErrors.WithLabelValues(name).Inc()
			}
			jobRuns.WithLabelValues(name).Inc()
			jobDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		}

		run()
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-r.ctx.Done():
				return
			case <-t.C:
				run()
			}
		}
	}()
}
