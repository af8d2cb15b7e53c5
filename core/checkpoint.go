package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/holiman/uint256"
)

// PriceCheckpoint is one committed node of the price-discount
// aggregator: a time-weighted average sample on a 12 hour grid.
// The array is append-only; GridTimestamp is the floored-timestamp key
// used for O(1) lookup of the node preceding a query time.
type PriceCheckpoint struct {
	ID            uint64 `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	GridTimestamp int64  `sql:"unique_index:checkpoint_grid_idx" json:"grid_timestamp"`
	Timestamp     int64  `json:"timestamp"`
	// Weight is the average discount weight per second over the period
	// ending at Timestamp.
	Weight BigInt `sql:"type:varchar(80)" json:"weight"`
	// TotalWeight is the cumulative weight-seconds up to Timestamp.
	TotalWeight BigInt    `sql:"type:varchar(80)" json:"total_weight"`
	CreatedAt   time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// ICheckpointStore checkpoint store interface
type ICheckpointStore interface {
	Create(ctx context.Context, tx *db.DB, checkpoint *PriceCheckpoint) error
	FindByGrid(ctx context.Context, grid int64) (*PriceCheckpoint, error)
	Last(ctx context.Context) (*PriceCheckpoint, error)
	Count(ctx context.Context) (int64, error)
}

// IPriceWatcherService is the time-weighted price-discount aggregator.
type IPriceWatcherService interface {
	// Tick samples the discount oracle into the interim accumulator and
	// commits a checkpoint when the long interval has elapsed.
	Tick(ctx context.Context, now time.Time) error
	// CurrentWeight returns the instantaneous discount weight.
	CurrentWeight(ctx context.Context) (*uint256.Int, error)
	// FindPairPriceWeight returns the average discount weight between a
	// pair's last update time and now.
	FindPairPriceWeight(ctx context.Context, since, now time.Time) (*uint256.Int, error)
}
