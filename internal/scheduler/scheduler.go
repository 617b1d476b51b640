// Package scheduler triggers periodic crawl runs in the background.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/mizanhq/mizan/internal/crawler"
	"github.com/mizanhq/mizan/internal/logger"
)

// Scheduler runs the crawler on a fixed interval. Runs never overlap: the
// ticker fires into a single loop that executes one run at a time.
type Scheduler struct {
	crawler  *crawler.Crawler
	interval time.Duration

	started  bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// New creates a Scheduler that triggers c every interval.
func New(c *crawler.Crawler, interval time.Duration) *Scheduler {
	return &Scheduler{
		crawler:  c,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the background loop. The first run fires after one full
// interval, so a freshly booted service does not hammer the sources while
// it is still warming up.
func (s *Scheduler) Start(ctx context.Context) {
	s.started = true
	ctx = logger.WithField(ctx, logger.FieldComponent, "scheduler")
	logger.CtxInfo(ctx, "Scheduler started: interval=%s", s.interval)

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.crawler.Run(ctx); err != nil {
					logger.CtxError(ctx, "Scheduled crawl failed: error=%v", err)
				}
			}
		}
	}()
}

// Stop ends the loop and waits for any in-flight run to finish. Calling
// Stop on a scheduler that never started is a no-op.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	if s.started {
		<-s.done
	}
}
