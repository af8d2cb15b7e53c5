package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
)

// TokenBalance one stablecoin balance row. The registry keeps internal
// accounting rows alongside user balances (minted-per-pair counters).
type TokenBalance struct {
	ID        uint64    `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Address   string    `sql:"size:80;unique_index:token_address_idx" json:"address"`
	Balance   BigInt    `sql:"type:varchar(80)" json:"balance"`
	Version   int64     `sql:"default:0" json:"version"`
	CreatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// ITokenStore token balance store interface
type ITokenStore interface {
	Save(ctx context.Context, tx *db.DB, balance *TokenBalance) error
	Find(ctx context.Context, address string) (*TokenBalance, error)
	Update(ctx context.Context, tx *db.DB, balance *TokenBalance) error
}
