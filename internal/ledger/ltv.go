package ledger

import (
	"github.com/holiman/uint256"
)

// LTV loan-to-value in LTVPrecision units:
// borrowed * exchangeRate / ExchangePrecision * LTVPrecision / collateral.
// Zero collateral with nonzero debt saturates to max.
func LTV(borrowed, exchangeRate, collateral *uint256.Int) *uint256.Int {
	if borrowed.IsZero() {
		return new(uint256.Int)
	}
	if collateral.IsZero() {
		return new(uint256.Int).Set(MaxUint128)
	}

	debtInCollateral := new(uint256.Int).Mul(borrowed, exchangeRate)
	debtInCollateral.Div(debtInCollateral, ExchangePrecision)

	ltv := debtInCollateral.Mul(debtInCollateral, LTVPrecision)
	return ltv.Div(ltv, collateral)
}

// IsSolvent solvency predicate: debt-free accounts and disabled pairs
// (maxLTV == 0) are always solvent.
func IsSolvent(maxLTV uint64, borrowed, exchangeRate, collateral *uint256.Int) bool {
	if maxLTV == 0 || borrowed.IsZero() {
		return true
	}

	return !LTV(borrowed, exchangeRate, collateral).Gt(uint256.NewInt(maxLTV))
}
