// Package cleanup provides the background janitor that drops snapshots past
// their hard expiry.
package cleanup

import (
	"time"

	"github.com/teampulsehq/teampulse-go/internal/infrastructure/caching/manager"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/observability/logging"
)

// Worker periodically purges the snapshot slot once the entry outlives the
// hard expiry. Stale-but-recent entries are left alone so stale fallback
// keeps working during upstream outages.
type Worker struct {
	cache      *manager.Manager
	interval   time.Duration
	hardExpiry time.Duration
	logger     *logging.ChanneledLogger
	stop       chan struct{}
	done       chan struct{}
}

// NewWorker creates a janitor for the given cache manager.
func NewWorker(cache *manager.Manager, interval, hardExpiry time.Duration, logger *logging.ChanneledLogger) *Worker {
	return &Worker{
		cache:      cache,
		interval:   interval,
		hardExpiry: hardExpiry,
		logger:     logger,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start launches the cleanup loop in its own goroutine.
func (w *Worker) Start() {
	w.logger.Cache().Info("Starting cache cleanup worker",
		"interval", w.interval,
		"hardExpiry", w.hardExpiry)

	go w.run()
}

func (w *Worker) run() {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if w.cache.PurgeOlderThan(w.hardExpiry) {
				w.logger.Cache().Debug("Cleanup cycle purged snapshot")
			}
		case <-w.stop:
			return
		}
	}
}

// Stop signals the loop to exit and waits for it to finish.
func (w *Worker) Stop() {
	close(w.stop)
	<-w.done
	w.logger.Cache().Info("Cache cleanup worker stopped")
}
