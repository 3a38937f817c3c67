package prospecting

import (
	"context"
	"time"

	"brokerage_backend/platform/logger"

	"golang.org/x/sync/errgroup"
)

// maxConcurrentScans bounds a full cycle so a dozen monitors never open a
// dozen portal connections at once.
const maxConcurrentScans = 4

// Runner owns the monitor schedule: one ticker per source at the source's
// own interval. A source that errors logs and waits for its next tick;
// nothing a single source does can halt its siblings.
type Runner struct {
	sources      []Source
	agg          *Aggregator
	log          *logger.Logger
	scanDeadline time.Duration
}

func NewRunner(sources []Source, agg *Aggregator, scanDeadline time.Duration, log *logger.Logger) *Runner {
	if scanDeadline <= 0 {
		scanDeadline = 5 * time.Minute
	}
	return &Runner{sources: sources, agg: agg, log: log, scanDeadline: scanDeadline}
}

// Start launches one goroutine per source and blocks until ctx is
// cancelled. Each source scans once at startup and then on its interval.
func (r *Runner) Start(ctx context.Context) {
	grp, ctx := errgroup.WithContext(ctx)
	for _, src := range r.sources {
		grp.Go(func() error {
			r.scanOnce(ctx, src)

			ticker := time.NewTicker(src.Interval())
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					r.scanOnce(ctx, src)
				}
			}
		})
	}
	grp.Wait()
}

// RunCycle scans every source once with bounded concurrency. Used by the
// scheduler's manual sweep endpoint and by tests; errors stay inside each
// scan, so the cycle itself always completes.
func (r *Runner) RunCycle(ctx context.Context) {
	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(maxConcurrentScans)
	for _, src := range r.sources {
		grp.Go(func() error {
			r.scanOnce(ctx, src)
			return nil
		})
	}
	grp.Wait()
}

func (r *Runner) scanOnce(ctx context.Context, src Source) {
	scanCtx, cancel := context.WithTimeout(ctx, r.scanDeadline)
	defer cancel()

	opportunities, err := src.Scan(scanCtx)
	if err != nil {
		r.log.MonitorScan(src.Name(), 0, 0, err)
		return
	}

	created := r.agg.Ingest(scanCtx, opportunities)
	r.log.MonitorScan(src.Name(), len(opportunities), created, nil)
}
