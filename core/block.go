package core

import (
	"context"
	"time"
)

// IBlockService maps wall-clock time onto the deployment's block grid.
// Interest and exchange-rate caches are idempotent per block.
type IBlockService interface {
	GetBlock(ctx context.Context, t time.Time) (int64, error)
	CurrentBlock(ctx context.Context) (int64, error)
}
