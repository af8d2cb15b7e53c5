package core

import (
	"context"

	"github.com/holiman/uint256"
)

// IOracle quotes the collateral-per-asset exchange rate, 1e18-scaled.
type IOracle interface {
	GetPrices(ctx context.Context, collateralAddress string) (*uint256.Int, error)
}

// IDiscountOracle quotes the stablecoin market price, 1e18-scaled.
// Consumed by the price-discount aggregator only.
type IDiscountOracle interface {
	Price(ctx context.Context) (*uint256.Int, error)
}
