package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
)

// transfer memos written by the engine
const (
	TransferMemoCollateralIn  = "collateral_in"
	TransferMemoCollateralOut = "collateral_out"
	TransferMemoStake         = "stake"
	TransferMemoUnstake       = "unstake"
	TransferMemoSeize         = "seize"
	TransferMemoRedeem        = "redeem"
	TransferMemoMint          = "mint"
	TransferMemoBurn          = "burn"
)

// Transfer is a journal row of every token movement the engine performs.
// Replaying the journal against empty stores reproduces the ledger.
type Transfer struct {
	ID          uint64    `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	TraceID     string    `sql:"type:varchar(36);unique_index:transfer_trace_idx" json:"trace_id"`
	AssetSymbol string    `sql:"size:20" json:"asset_symbol"`
	Source      string    `sql:"size:66" json:"source"`
	Destination string    `sql:"size:66" json:"destination"`
	Amount      BigInt    `sql:"type:varchar(80)" json:"amount"`
	Memo        string    `sql:"size:128" json:"memo"`
	CreatedAt   time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// ITransferStore transfer journal interface
type ITransferStore interface {
	Create(ctx context.Context, tx *db.DB, transfer *Transfer) error
	List(ctx context.Context, fromID uint64, limit int) ([]*Transfer, error)
}
