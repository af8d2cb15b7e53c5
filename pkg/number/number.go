package number

import (
	"errors"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// Decimal parses v, zero on malformed input
func Decimal(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

// Fixed scales d by 10^decimals and truncates to an unsigned integer
func Fixed(d decimal.Decimal, decimals int32) (*uint256.Int, error) {
	shifted := d.Shift(decimals).Truncate(0)
	if shifted.Sign() < 0 {
		return nil, errors.New("negative amount")
	}

	return uint256.FromDecimal(shifted.String())
}

// MustFixed Fixed, panics on malformed input. For config values only.
func MustFixed(v string, decimals int32) *uint256.Int {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}

	out, err := Fixed(d, decimals)
	if err != nil {
		panic(err)
	}
	return out
}

// FromFixed renders a fixed-point integer as a human decimal
func FromFixed(v *uint256.Int, decimals int32) decimal.Decimal {
	return Decimal(v.Dec()).Shift(-decimals)
}
