package interest

import (
	"context"
	"time"

	"lendpair/core"
	"lendpair/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Worker interest worker, accrues interest and refreshes the exchange
// rate on every pair
type Worker struct {
	worker.BaseJob
	Config      *core.Config
	PairStore   core.IPairStore
	PairService core.IPairService
}

// New new interest worker
func New(cfg *core.Config, pairStore core.IPairStore, pairService core.IPairService) *Worker {
	job := Worker{
		Config:      cfg,
		PairStore:   pairStore,
		PairService: pairService,
	}

	l, _ := time.LoadLocation(job.Config.App.Location)
	job.Cron = cron.New(cron.WithLocation(l))
	spec := "@every 1h"
	job.Cron.AddFunc(spec, job.Run)
	job.OnWork = func() error {
		return job.onWork(context.Background())
	}

	return &job
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "interest")

	pairs, err := w.PairStore.All(ctx)
	if err != nil {
		log.WithError(err).Errorln("pairs.All")
		return err
	}

	now := time.Now()
	for _, pair := range pairs {
		if err := w.PairService.AccrueInterest(ctx, nil, pair, now); err != nil {
			log.WithError(err).Errorln("AccrueInterest", pair.Symbol)
			continue
		}
		if err := w.PairService.UpdateExchangeRate(ctx, nil, pair, now); err != nil {
			log.WithError(err).Errorln("UpdateExchangeRate", pair.Symbol)
		}
	}

	return nil
}
