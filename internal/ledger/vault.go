package ledger

import (
	"github.com/holiman/uint256"
)

// VaultAccount pairs a pooled total amount with the shares outstanding
// against it. Conversions round in the caller-specified direction so the
// pool never loses value to rounding: shares owed by a caller round up,
// a caller's claim rounds down.
type VaultAccount struct {
	Amount uint256.Int
	Shares uint256.Int
}

// ToShares shares equivalent to amount against the current totals.
// 1:1 while no shares exist.
func (v *VaultAccount) ToShares(amount *uint256.Int, roundUp bool) *uint256.Int {
	if v.Shares.IsZero() {
		return new(uint256.Int).Set(amount)
	}

	shares := mulDiv(amount, &v.Shares, &v.Amount, roundUp)
	return shares
}

// ToAmount amount equivalent to shares against the current totals.
// 1:1 while no shares exist.
func (v *VaultAccount) ToAmount(shares *uint256.Int, roundUp bool) *uint256.Int {
	if v.Shares.IsZero() {
		return new(uint256.Int).Set(shares)
	}

	amount := mulDiv(shares, &v.Amount, &v.Shares, roundUp)
	return amount
}

// Add credits both sides of the vault
func (v *VaultAccount) Add(amount, shares *uint256.Int) {
	v.Amount.Add(&v.Amount, amount)
	v.Shares.Add(&v.Shares, shares)
}

// Sub debits both sides of the vault
func (v *VaultAccount) Sub(amount, shares *uint256.Int) {
	v.Amount.Sub(&v.Amount, amount)
	v.Shares.Sub(&v.Shares, shares)
}

// mulDiv a * b / c with explicit rounding direction. Denominator of
// zero yields zero; totals are only zero when shares are zero and that
// case never reaches here.
func mulDiv(a, b, c *uint256.Int, roundUp bool) *uint256.Int {
	if c.IsZero() {
		return new(uint256.Int)
	}

	num := new(uint256.Int).Mul(a, b)
	out := new(uint256.Int).Div(num, c)
	if roundUp {
		rem := new(uint256.Int).Mod(num, c)
		if !rem.IsZero() {
			out.AddUint64(out, 1)
		}
	}
	return out
}
