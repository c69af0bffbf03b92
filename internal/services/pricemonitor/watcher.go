package pricemonitor

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"qbit-backend/internal/common/logger"
)

// Watcher runs a scan of the configured queries on a cron schedule.
type Watcher struct {
	cron    *cron.Cron
	service *Service
	queries []string
	timeout time.Duration
	logger  logger.Logger
}

func NewWatcher(service *Service, schedule string, queries []string, log logger.Logger) (*Watcher, error) {
	w := &Watcher{
		cron:    cron.New(),
		service: service,
		queries: queries,
		timeout: 5 * time.Minute,
		logger:  log,
	}
	if _, err := w.cron.AddFunc(schedule, w.tick); err != nil {
		return nil, fmt.Errorf("invalid price monitor schedule %q: %w", schedule, err)
	}
	return w, nil
}

func (w *Watcher) Start() {
	w.logger.Info("Price watcher started", map[string]interface{}{
		"queries": w.queries,
	})
	w.cron.Start()
}

// Stop halts the schedule and waits for a running scan to finish or ctx to expire.
func (w *Watcher) Stop(ctx context.Context) {
	done := w.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// RunOnce scans the watch list and returns the number of items kept.
func (w *Watcher) RunOnce(ctx context.Context) int {
	items := w.service.Scan(ctx, w.queries, nil)
	w.logger.Info("Price watcher scan finished", map[string]interface{}{
		"queries": len(w.queries),
		"items":   len(items),
	})
	return len(items)
}

func (w *Watcher) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	w.RunOnce(ctx)
}
