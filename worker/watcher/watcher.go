package watcher

import (
	"context"
	"time"

	"lendpair/core"
	"lendpair/worker"

	"github.com/fox-one/pkg/logger"
)

// Worker samples the price-discount aggregator
type Worker struct {
	worker.TickWorker
	watcherService core.IPriceWatcherService
}

// New new watcher worker
func New(watcherService core.IPriceWatcherService) *Worker {
	return &Worker{
		TickWorker: worker.TickWorker{
			Delay:    5 * time.Minute,
			ErrDelay: 30 * time.Second,
		},
		watcherService: watcherService,
	}
}

// Run run worker
func (w *Worker) Run(ctx context.Context) error {
	return w.StartTick(ctx, func(ctx context.Context) error {
		if err := w.watcherService.Tick(ctx, time.Now()); err != nil {
			logger.FromContext(ctx).WithError(err).Errorln("watcher.Tick")
			return err
		}
		return nil
	})
}
