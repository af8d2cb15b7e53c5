package rate

import (
	"context"

	"lendpair/core"
	"lendpair/internal/ledger"
	"lendpair/pkg/number"

	"github.com/holiman/uint256"
)

const secondsPerYear = 31_536_000

type rateService struct {
	pairs core.IPairStore

	// per-second rates, 1e18-scaled
	base       *uint256.Int
	multiplier *uint256.Int
	jump       *uint256.Int
	// utilization knee, 1e5-scaled
	kink *uint256.Int
}

// New jump rate calculator. Annual config rates are broken down to
// per-second rates once at construction.
func New(config *core.Config, pairs core.IPairStore) core.IRateCalculator {
	return &rateService{
		pairs:      pairs,
		base:       perSec(config.InterestModel.BaseRate),
		multiplier: perSec(config.InterestModel.Multiplier),
		jump:       perSec(config.InterestModel.JumpMultiplier),
		kink:       uint256.NewInt(config.InterestModel.Kink),
	}
}

func perSec(annual string) *uint256.Int {
	v := number.MustFixed(annual, 18)
	return v.Div(v, uint256.NewInt(secondsPerYear))
}

// utilization borrowed/limit, 1e5-scaled and clamped to 1e5
func utilization(pair *core.Pair) *uint256.Int {
	if pair.BorrowLimit.IsZero() {
		return new(uint256.Int)
	}

	u := new(uint256.Int).Mul(&pair.BorrowAmount.Int, ledger.LTVPrecision)
	u.Div(u, &pair.BorrowLimit.Int)
	if u.Gt(ledger.LTVPrecision) {
		u.Set(ledger.LTVPrecision)
	}
	return u
}

func (s *rateService) GetNewRate(ctx context.Context, collateralAddress string, elapsed uint64, lastShares, lastPrice *uint256.Int) (*core.NewRate, error) {
	pairs, err := s.pairs.All(ctx)
	if err != nil {
		return nil, err
	}

	var pair *core.Pair
	for _, p := range pairs {
		if p.CollateralAddress == collateralAddress {
			pair = p
			break
		}
	}
	if pair == nil {
		return nil, core.ErrPairNotFound
	}

	u := utilization(pair)

	rate := new(uint256.Int).Set(s.base)

	low := new(uint256.Int).Set(u)
	if low.Gt(s.kink) {
		low.Set(s.kink)
	}
	low.Mul(low, s.multiplier)
	low.Div(low, ledger.LTVPrecision)
	rate.Add(rate, low)

	if u.Gt(s.kink) {
		high := new(uint256.Int).Sub(u, s.kink)
		high.Mul(high, s.jump)
		high.Div(high, ledger.LTVPrecision)
		rate.Add(rate, high)
	}

	return &core.NewRate{
		RatePerSec: rate,
		Price:      new(uint256.Int).Set(&pair.ExchangeRate.Int),
		Shares:     new(uint256.Int).Set(&pair.BorrowShares.Int),
	}, nil
}
