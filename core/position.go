package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
)

// Position per-account collateral and borrow-share balances for one pair.
// Stored borrow shares may lag the pair's reward epoch and the stored
// collateral may lag the pair's write-off index; both are reconciled
// lazily the next time the position is touched.
type Position struct {
	ID           uint64 `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	PairID       uint64 `sql:"unique_index:position_idx" json:"pair_id"`
	Address      string `sql:"size:66;unique_index:position_idx" json:"address"`
	Collateral   BigInt `sql:"type:varchar(80)" json:"collateral"`
	BorrowShares BigInt `sql:"type:varchar(80)" json:"borrow_shares"`
	RewardEpoch  int64  `sql:"default:0" json:"reward_epoch"`
	// write-off index observed at last sync, 1e18-scaled
	WriteOffSnapshot BigInt    `sql:"type:varchar(80)" json:"write_off_snapshot"`
	Version          int64     `sql:"default:0" json:"version"`
	CreatedAt        time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IPositionStore position store interface
type IPositionStore interface {
	Save(ctx context.Context, tx *db.DB, position *Position) error
	Find(ctx context.Context, pairID uint64, address string) (*Position, error)
	FindByPair(ctx context.Context, pairID uint64) ([]*Position, error)
	Update(ctx context.Context, tx *db.DB, position *Position) error
	All(ctx context.Context) ([]*Position, error)
}
