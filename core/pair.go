package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/holiman/uint256"
)

// Pair is one collateralized lending pair: a single collateral token
// backing freshly minted stablecoin debt. All fixed-point fields use the
// precisions declared in internal/ledger.
type Pair struct {
	ID                uint64 `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Address           string `sql:"size:66;unique_index:pair_address_idx" json:"address"`
	Symbol            string `sql:"size:20" json:"symbol"`
	AssetAddress      string `sql:"size:66" json:"asset_address"`
	AssetSymbol       string `sql:"size:20" json:"asset_symbol"`
	CollateralAddress string `sql:"size:66" json:"collateral_address"`
	CollateralSymbol  string `sql:"size:20" json:"collateral_symbol"`

	// risk parameters
	MaxLTV         uint64 `sql:"default:0" json:"max_ltv"`         // 1e5, 0 disables solvency checks
	MintFee        uint64 `sql:"default:0" json:"mint_fee"`        // 1e5
	LiquidationFee uint64 `sql:"default:0" json:"liquidation_fee"` // 1e5
	RedemptionFee  uint64 `sql:"default:0" json:"redemption_fee"`  // 1e5, protocol cut of the redemption spread
	BorrowLimit    BigInt `sql:"type:varchar(80)" json:"borrow_limit"`
	MinimumBorrow  BigInt `sql:"type:varchar(80)" json:"minimum_borrow"`
	MinimumLeftover BigInt `sql:"type:varchar(80)" json:"minimum_leftover"` // redemption liquidity floor

	// vault totals
	BorrowAmount    BigInt `sql:"type:varchar(80)" json:"borrow_amount"`
	BorrowShares    BigInt `sql:"type:varchar(80)" json:"borrow_shares"`
	TotalCollateral BigInt `sql:"type:varchar(80)" json:"total_collateral"`
	ClaimableFees   BigInt `sql:"type:varchar(80)" json:"claimable_fees"`

	// write-off accounting, 1e18-scaled cumulative index
	WriteOffIndex BigInt `sql:"type:varchar(80)" json:"write_off_index"`
	RewardEpoch   int64  `sql:"default:0" json:"reward_epoch"`

	// cached rate calculator state
	RatePerSec     BigInt `sql:"type:varchar(80)" json:"rate_per_sec"`
	RateLastPrice  BigInt `sql:"type:varchar(80)" json:"rate_last_price"`
	RateLastShares BigInt `sql:"type:varchar(80)" json:"rate_last_shares"`
	RateUpdatedAt  int64  `sql:"default:0" json:"rate_updated_at"`
	RateBlock      int64  `sql:"default:0" json:"rate_block"`

	// cached exchange rate, collateral units per asset unit (1e18)
	ExchangeRate      BigInt `sql:"type:varchar(80)" json:"exchange_rate"`
	ExchangeRateBlock int64  `sql:"default:0" json:"exchange_rate_block"`
	ExchangeRateAt    int64  `sql:"default:0" json:"exchange_rate_at"`

	Version   int64     `sql:"default:0" json:"version"`
	CreatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IPairStore pair store interface
type IPairStore interface {
	Save(ctx context.Context, tx *db.DB, pair *Pair) error
	Find(ctx context.Context, address string) (*Pair, error)
	All(ctx context.Context) ([]*Pair, error)
	Update(ctx context.Context, tx *db.DB, pair *Pair) error
}

// IPairService is the lending pair engine. Every mutating operation
// accrues interest and refreshes the exchange rate before its effect,
// runs atomically, and checks solvency on borrow-affecting paths.
type IPairService interface {
	AccrueInterest(ctx context.Context, tx *db.DB, pair *Pair, now time.Time) error
	UpdateExchangeRate(ctx context.Context, tx *db.DB, pair *Pair, now time.Time) error

	AddCollateral(ctx context.Context, pairAddress, source string, amount *uint256.Int, target string, now time.Time) error
	RemoveCollateral(ctx context.Context, pairAddress, caller string, amount *uint256.Int, receiver string, now time.Time) error
	Borrow(ctx context.Context, pairAddress, borrower string, amount, collateralAmount *uint256.Int, receiver string, now time.Time) error
	Repay(ctx context.Context, pairAddress, payer, borrower string, shares *uint256.Int, now time.Time) (*uint256.Int, error)

	Redeem(ctx context.Context, pairAddress, caller string, amount *uint256.Int, feeFraction uint64, receiver string, now time.Time) error
	Liquidate(ctx context.Context, pairAddress, caller, borrower string, now time.Time) error

	LeveragedPosition(ctx context.Context, pairAddress, borrower, swapper string, borrowAmount, initialCollateral, minCollateralOut *uint256.Int, path []string, now time.Time) error
	RepayAssetWithCollateral(ctx context.Context, pairAddress, borrower, swapper string, collateralToSwap, minAssetOut *uint256.Int, path []string, now time.Time) error
}
