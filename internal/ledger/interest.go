package ledger

import (
	"github.com/holiman/uint256"
)

// InterestEarned interest for one accrual period:
// elapsed * borrowed * ratePerSec / RatePrecision.
// Saturating policy: if crediting the interest would push the borrow
// accumulator past uint128, the period's interest collapses to zero
// instead of failing the accrual.
func InterestEarned(elapsed uint64, borrowed, ratePerSec *uint256.Int) *uint256.Int {
	interest := new(uint256.Int).Mul(uint256.NewInt(elapsed), borrowed)
	interest.Mul(interest, ratePerSec)
	interest.Div(interest, RatePrecision)

	next := new(uint256.Int).Add(borrowed, interest)
	if next.Lt(borrowed) || next.Gt(MaxUint128) {
		return new(uint256.Int)
	}

	return interest
}
