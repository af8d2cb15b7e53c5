package core

import (
	"context"

	"github.com/holiman/uint256"
)

// NewRate is the rate calculator output for one accrual period.
type NewRate struct {
	RatePerSec *uint256.Int // 1e18-scaled interest per second
	Price      *uint256.Int // collateral venue price fed back into the next call
	Shares     *uint256.Int // collateral venue share supply fed back into the next call
}

// IRateCalculator computes the borrow rate for a pair. The engine caches
// the returned price and shares and hands them back on the next accrual.
type IRateCalculator interface {
	GetNewRate(ctx context.Context, collateralAddress string, elapsed uint64, lastShares, lastPrice *uint256.Int) (*NewRate, error)
}
