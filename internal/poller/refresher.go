package poller

import (
	"context"
	"log"
	"time"
)

// snapshotRefresher is implemented by the analytics service.
type snapshotRefresher interface {
	Refresh(ctx context.Context) error
}

// Refresher recomputes the dashboard snapshot on a fixed interval so the
// dashboard never serves stale numbers for longer than one tick. It replaces
// a blocking reload loop: the refresh runs in the background and readers keep
// serving the previous snapshot while a new one is built.
type Refresher struct {
	interval time.Duration
	timeout  time.Duration
	service  snapshotRefresher
}

func NewRefresher(service snapshotRefresher, interval time.Duration) *Refresher {
	return &Refresher{
		interval: interval,
		timeout:  30 * time.Second,
		service:  service,
	}
}

func (r *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.refresh(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (r *Refresher) refresh(ctx context.Context) {
	refreshCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	if err := r.service.Refresh(refreshCtx); err != nil {
		log.Printf("dashboard refresh failed: %v", err)
	}
}
