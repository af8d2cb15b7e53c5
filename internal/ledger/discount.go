package ledger

import (
	"github.com/holiman/uint256"
)

// DiscountWeight instantaneous discount weight of the stablecoin price:
// (TargetPrice - price) / DiscountPrecision, zero at or above the peg.
func DiscountWeight(price *uint256.Int) *uint256.Int {
	if !price.Lt(TargetPrice) {
		return new(uint256.Int)
	}

	weight := new(uint256.Int).Sub(TargetPrice, price)
	return weight.Div(weight, DiscountPrecision)
}
