package watcher

import (
	"context"
	"time"

	"lendpair/core"
	"lendpair/internal/ledger"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	"github.com/holiman/uint256"
	"github.com/jinzhu/gorm"
)

const (
	interimAtKey    = "price_watcher_interim_at"
	interimTotalKey = "price_watcher_interim_total"
	periodStartKey  = "price_watcher_period_start"
)

type watcherService struct {
	db          *db.DB
	checkpoints core.ICheckpointStore
	props       property.Store
	oracle      core.IDiscountOracle

	loaded       bool
	interimAt    int64
	periodStart  int64
	interimTotal uint256.Int
}

// New price-discount aggregator backed by the checkpoint store. The
// interim accumulator survives restarts through property rows; a nil
// property store keeps it in memory only.
func New(
	db *db.DB,
	checkpoints core.ICheckpointStore,
	props property.Store,
	oracle core.IDiscountOracle,
) core.IPriceWatcherService {
	return &watcherService{
		db:          db,
		checkpoints: checkpoints,
		props:       props,
		oracle:      oracle,
	}
}

func (s *watcherService) inTx(fn func(tx *db.DB) error) error {
	if s.db == nil {
		return fn(nil)
	}
	return s.db.Tx(fn)
}

func (s *watcherService) load(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	if s.props == nil {
		s.loaded = true
		return nil
	}

	at, err := s.props.Get(ctx, interimAtKey)
	if err != nil {
		return err
	}
	s.interimAt = at.Int64()

	start, err := s.props.Get(ctx, periodStartKey)
	if err != nil {
		return err
	}
	s.periodStart = start.Int64()

	total, err := s.props.Get(ctx, interimTotalKey)
	if err != nil {
		return err
	}
	if raw := total.String(); raw != "" {
		v, err := uint256.FromDecimal(raw)
		if err != nil {
			return err
		}
		s.interimTotal.Set(v)
	}

	s.loaded = true
	return nil
}

func (s *watcherService) persist(ctx context.Context) error {
	if s.props == nil {
		return nil
	}

	if err := s.props.Save(ctx, interimAtKey, s.interimAt); err != nil {
		return err
	}
	if err := s.props.Save(ctx, periodStartKey, s.periodStart); err != nil {
		return err
	}
	return s.props.Save(ctx, interimTotalKey, s.interimTotal.Dec())
}

func (s *watcherService) sample(ctx context.Context) (*uint256.Int, error) {
	price, err := s.oracle.Price(ctx)
	if err != nil {
		return nil, err
	}
	return ledger.DiscountWeight(price), nil
}

func (s *watcherService) Tick(ctx context.Context, now time.Time) error {
	log := logger.FromContext(ctx).WithField("service", "watcher")

	if err := s.load(ctx); err != nil {
		return err
	}

	return s.inTx(func(tx *db.DB) error {
		count, err := s.checkpoints.Count(ctx)
		if err != nil {
			return err
		}

		if count == 0 {
			weight, err := s.sample(ctx)
			if err != nil {
				return err
			}

			genesis := &core.PriceCheckpoint{
				GridTimestamp: ledger.CheckpointGrid(now.Unix()),
				Timestamp:     now.Unix(),
			}
			genesis.Weight.Int.Set(weight)
			if err := s.checkpoints.Create(ctx, tx, genesis); err != nil {
				return err
			}

			s.interimAt = now.Unix()
			s.periodStart = now.Unix()
			s.interimTotal.Clear()
			log.Infoln("genesis checkpoint committed")
			return s.persist(ctx)
		}

		if now.Unix()-s.interimAt < int64(ledger.InterimInterval/time.Second) {
			return nil
		}

		weight, err := s.sample(ctx)
		if err != nil {
			return err
		}

		elapsed := uint256.NewInt(uint64(now.Unix() - s.interimAt))
		s.interimTotal.Add(&s.interimTotal, elapsed.Mul(elapsed, weight))
		s.interimAt = now.Unix()

		if period := now.Unix() - s.periodStart; period >= int64(ledger.CheckpointInterval/time.Second) {
			last, err := s.checkpoints.Last(ctx)
			if err != nil {
				return err
			}

			node := &core.PriceCheckpoint{
				GridTimestamp: ledger.CheckpointGrid(now.Unix()),
				Timestamp:     now.Unix(),
			}
			node.Weight.Int.Div(&s.interimTotal, uint256.NewInt(uint64(period)))
			node.TotalWeight.Int.Add(&last.TotalWeight.Int, &s.interimTotal)

			if err := s.checkpoints.Create(ctx, tx, node); err != nil {
				return err
			}

			s.interimTotal.Clear()
			s.periodStart = now.Unix()
			log.Infof("checkpoint committed at %d", node.Timestamp)
		}

		return s.persist(ctx)
	})
}

func (s *watcherService) CurrentWeight(ctx context.Context) (*uint256.Int, error) {
	return s.sample(ctx)
}

// cumulativeAt extrapolates a node's cumulative weight-seconds forward
// to ts using its stored per-period weight.
func cumulativeAt(node *core.PriceCheckpoint, ts int64) *uint256.Int {
	cum := new(uint256.Int).Set(&node.TotalWeight.Int)
	if ts <= node.Timestamp {
		return cum
	}

	extra := uint256.NewInt(uint64(ts - node.Timestamp))
	return cum.Add(cum, extra.Mul(extra, &node.Weight.Int))
}

func (s *watcherService) FindPairPriceWeight(ctx context.Context, since, now time.Time) (*uint256.Int, error) {
	if !now.After(since) {
		return new(uint256.Int), nil
	}

	last, err := s.checkpoints.Last(ctx)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, core.ErrCheckpointGap
		}
		return nil, err
	}

	interval := int64(ledger.CheckpointInterval / time.Second)
	grid := ledger.CheckpointGrid(since.Unix())

	var start *core.PriceCheckpoint
	for i := 0; i < ledger.MaxCheckpointBackSteps; i++ {
		node, err := s.checkpoints.FindByGrid(ctx, grid)
		if err == nil {
			start = node
			break
		}
		if !gorm.IsRecordNotFoundError(err) {
			return nil, err
		}
		grid -= interval
	}
	if start == nil {
		return nil, core.ErrCheckpointGap
	}

	startCum := cumulativeAt(start, since.Unix())
	endCum := cumulativeAt(last, now.Unix())
	if !endCum.Gt(startCum) {
		return new(uint256.Int), nil
	}

	diff := endCum.Sub(endCum, startCum)
	return diff.Div(diff, uint256.NewInt(uint64(now.Unix()-since.Unix()))), nil
}
