package core

import (
	"context"
	"time"

	"github.com/holiman/uint256"
)

// ISwapAdapter swaps an exact input for at least minOut along path.
// Returns the actual output amount.
type ISwapAdapter interface {
	SwapExactTokensForTokens(ctx context.Context, amountIn, minOut *uint256.Int, path []string, recipient string, deadline time.Time) (*uint256.Int, error)
}

// ILiquidationHandler receives seized collateral and settles the repaid
// debt against the insurance backstop. Called strictly after the pair's
// own state mutations are in place.
type ILiquidationHandler interface {
	ProcessLiquidationDebt(ctx context.Context, collateralAddress string, collateralAmount, debtRepaid *uint256.Int) error
}
