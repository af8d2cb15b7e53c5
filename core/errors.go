package core

import "errors"

var (
	// ErrInvalidReceiver receiver is the zero address or the pair itself
	ErrInvalidReceiver = errors.New("invalid receiver")
	// ErrInvalidAmount amount is zero or malformed
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInsufficientAssets protocol-wide borrow capacity exhausted
	ErrInsufficientAssets = errors.New("insufficient assets available")
	// ErrInsufficientBorrowAmount borrow below the minimum floor, on open or on dust remainder
	ErrInsufficientBorrowAmount = errors.New("borrow amount below minimum")
	// ErrInsufficientCollateral withdrawal exceeds the stored collateral balance
	ErrInsufficientCollateral = errors.New("insufficient collateral balance")
	// ErrInsolvent post-condition LTV breach
	ErrInsolvent = errors.New("borrower insolvent")
	// ErrBorrowerSolvent liquidation attempted on a healthy position
	ErrBorrowerSolvent = errors.New("borrower solvent")
	// ErrInvalidRedeemer caller is not the designated redeemer
	ErrInvalidRedeemer = errors.New("invalid redeemer")
	// ErrInvalidLiquidator caller is not the designated liquidation handler
	ErrInvalidLiquidator = errors.New("invalid liquidator")
	// ErrBadSwapper swap adapter not whitelisted
	ErrBadSwapper = errors.New("swapper not approved")
	// ErrInvalidPath swap path endpoints do not match the pair assets
	ErrInvalidPath = errors.New("invalid swap path")
	// ErrSlippageTooHigh swap output below the caller-specified minimum
	ErrSlippageTooHigh = errors.New("slippage too high")
	// ErrInsufficientAssetsForRedemption redemption would breach the minimum liquidity floor
	ErrInsufficientAssetsForRedemption = errors.New("insufficient assets for redemption")
	// ErrCheckpointGap checkpoint walk-back exceeded its iteration cap
	ErrCheckpointGap = errors.New("price checkpoint gap too large")
	// ErrReentrancy nested entry into the pair ledger during an external call
	ErrReentrancy = errors.New("reentrant pair call")
	// ErrPairNotFound no pair
	ErrPairNotFound = errors.New("pair not found")
	// ErrPositionNotFound no position
	ErrPositionNotFound = errors.New("position not found")
)
