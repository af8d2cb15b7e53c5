package core

import (
	"context"

	"github.com/fox-one/pkg/store/db"
	"github.com/holiman/uint256"
)

// ZeroAddress is the burn-skip sentinel used as the payer during a
// liquidation pass-through repay.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// IRegistry is the stablecoin controller capability: it mints and burns
// the asset token, bounds how much each pair may mint, and resolves the
// privileged protocol actors.
type IRegistry interface {
	Mint(ctx context.Context, tx *db.DB, pairAddress, to string, amount *uint256.Int) error
	Burn(ctx context.Context, tx *db.DB, pairAddress, from string, amount *uint256.Int) error
	GetMaxMintable(ctx context.Context, pairAddress string) (*uint256.Int, error)
	LiquidationHandler() string
	Redeemer() string
	Owner() string
	ClaimRewards(ctx context.Context, tx *db.DB, pairAddress string) error
}
