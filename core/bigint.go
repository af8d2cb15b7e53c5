package core

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/holiman/uint256"
)

// BigInt is an unsigned 256-bit integer persisted as a decimal string
// column. Ledger amounts are fixed-point integers (1e18 style scaling),
// so decimal.Decimal is not used for vault math.
type BigInt struct {
	uint256.Int
}

// NewBigInt new BigInt from uint64
func NewBigInt(v uint64) BigInt {
	var b BigInt
	b.SetUint64(v)
	return b
}

// MustBigInt new BigInt from a decimal string, panics on bad input
func MustBigInt(s string) BigInt {
	var b BigInt
	if err := b.setDec(s); err != nil {
		panic(err)
	}
	return b
}

func (b *BigInt) setDec(s string) error {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return err
	}
	b.Int = *v
	return nil
}

// Value implements driver.Valuer
func (b BigInt) Value() (driver.Value, error) {
	return b.Int.Dec(), nil
}

// Scan implements sql.Scanner
func (b *BigInt) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		b.Int.Clear()
		return nil
	case string:
		if v == "" {
			b.Int.Clear()
			return nil
		}
		return b.setDec(v)
	case []byte:
		if len(v) == 0 {
			b.Int.Clear()
			return nil
		}
		return b.setDec(string(v))
	case int64:
		if v < 0 {
			return fmt.Errorf("core: negative value %d for BigInt", v)
		}
		b.Int.SetUint64(uint64(v))
		return nil
	default:
		return fmt.Errorf("core: cannot scan %T into BigInt", src)
	}
}

// MarshalJSON renders the value as a decimal string
func (b BigInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Int.Dec())
}

// UnmarshalJSON accepts a decimal string
func (b *BigInt) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		b.Int.Clear()
		return nil
	}
	return b.setDec(s)
}

func (b BigInt) String() string {
	return b.Int.Dec()
}
