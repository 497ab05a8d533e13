package workers

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/devmatch-hq/devmatch/internal/services"
)

// StatusWorker periodically advances hackathon statuses by wall clock.
// A tick is skipped when the previous sweep is still running.
type StatusWorker struct {
	Hackathons *services.HackathonService
	Interval   time.Duration

	mu sync.Mutex
}

func (w *StatusWorker) Run(ctx context.Context) {
	interval := w.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !w.mu.TryLock() {
				log.Println("status sweep still running, skipping tick")
				continue
			}
			go func() {
				defer w.mu.Unlock()
				if err := w.Hackathons.RecomputeStatuses(ctx, time.Now()); err != nil {
					log.Printf("status sweep error: %v", err)
				}
			}()
		}
	}
}
