package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/holiman/uint256"
)

var (
	// RatePrecision 1e18, scaling of ratePerSec
	RatePrecision = uint256.NewInt(1e18)
	// ExchangePrecision 1e18, scaling of the collateral-per-asset rate
	ExchangePrecision = uint256.NewInt(1e18)
	// LTVPrecision 1e5, scaling of maxLTV (95% == 95000)
	LTVPrecision = uint256.NewInt(1e5)
	// FeePrecision 1e5, scaling of mint/liquidation/redemption fees
	FeePrecision = uint256.NewInt(1e5)
	// WriteOffPrecision 1e18, scaling of the cumulative write-off index
	WriteOffPrecision = uint256.NewInt(1e18)
	// ShareRefactor divisor applied to borrow shares when the
	// amount/shares ratio degrades past 1:ShareRefactor
	ShareRefactor = uint256.NewInt(100)
	// DiscountPrecision divisor turning a 1e18 price discount into a weight
	DiscountPrecision = uint256.NewInt(1e10)
	// TargetPrice the discount reference price, 1e18
	TargetPrice = uint256.NewInt(1e18)

	// MaxUint128 saturation bound of the total-borrow accumulator
	MaxUint128 = uint256.MustFromHex("0xffffffffffffffffffffffffffffffff")
)

const (
	// SecondsPerBlock block grid used by the once-per-block caches
	SecondsPerBlock int64 = 15
	// InterestCooldown accrual is a no-op within this window
	InterestCooldown = time.Hour
	// InterimInterval short sampling interval of the price watcher
	InterimInterval = time.Hour
	// CheckpointInterval long commit interval of the price watcher
	CheckpointInterval = 12 * time.Hour
	// MaxCheckpointBackSteps iteration cap of the checkpoint walk-back
	MaxCheckpointBackSteps = 64
)

// CurrentBlock block number for t
func CurrentBlock(ctx context.Context, secondsPerBlock, genesis int64, t time.Time) (int64, error) {
	if secondsPerBlock <= 0 {
		return 0, errors.New("secondsPerBlock should not be less than or equal zero")
	}

	seconds := t.Unix() - genesis
	if seconds <= 0 {
		return 0, errors.New("invalid blocks")
	}

	return seconds / secondsPerBlock, nil
}

// CheckpointGrid floors a timestamp to the checkpoint grid
func CheckpointGrid(ts int64) int64 {
	interval := int64(CheckpointInterval / time.Second)
	return ts - ts%interval
}
