package feed

import (
	"context"
	"time"

	"github.com/sofaspartan/sofaspartan-backend/pkg/logger"
)

// Refresher re-syncs a coordinator from its store on a fixed interval.
// There is no push channel; polling is the only way fresh records
// arrive, so everything that renders the feed reads whatever the last
// successful refresh produced.
type Refresher struct {
	coordinator *Coordinator
	interval    time.Duration
}

func NewRefresher(coordinator *Coordinator, interval time.Duration) *Refresher {
	return &Refresher{
		coordinator: coordinator,
		interval:    interval,
	}
}

// Run refreshes immediately, then on every tick until ctx is
// cancelled. A failed refresh keeps the previous snapshot and retries
// on the next tick.
func (r *Refresher) Run(ctx context.Context) {
	if err := r.coordinator.Refresh(ctx); err != nil {
		logger.Warn("Initial feed refresh failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("Feed refresher stopped", map[string]interface{}{
				"reason": ctx.Err().Error(),
			})
			return
		case <-ticker.C:
			if err := r.coordinator.Refresh(ctx); err != nil {
				logger.Warn("Feed refresh failed, keeping previous snapshot", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}
}
