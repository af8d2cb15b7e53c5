package pair

import (
	"context"
	"time"

	"lendpair/core"
	"lendpair/internal/ledger"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	foxuuid "github.com/fox-one/pkg/uuid"
	"github.com/holiman/uint256"
	"github.com/jinzhu/gorm"
)

// StakingVenue is the custody account collateral is parked in while
// pledged. Stake and unstake movements are journaled against it.
const StakingVenue = "staking-venue"

const swapDeadline = 5 * time.Minute

type pairService struct {
	db            *db.DB
	pairStore     core.IPairStore
	positionStore core.IPositionStore
	transferStore core.ITransferStore
	registry      core.IRegistry
	oracle        core.IOracle
	rateCalc      core.IRateCalculator
	liquidator    core.ILiquidationHandler
	blockService  core.IBlockService
	swappers      map[string]core.ISwapAdapter

	entered bool
}

// New new pair service
func New(
	db *db.DB,
	pairStore core.IPairStore,
	positionStore core.IPositionStore,
	transferStore core.ITransferStore,
	registry core.IRegistry,
	oracle core.IOracle,
	rateCalc core.IRateCalculator,
	liquidator core.ILiquidationHandler,
	blockService core.IBlockService,
	swappers map[string]core.ISwapAdapter,
) core.IPairService {
	return &pairService{
		db:            db,
		pairStore:     pairStore,
		positionStore: positionStore,
		transferStore: transferStore,
		registry:      registry,
		oracle:        oracle,
		rateCalc:      rateCalc,
		liquidator:    liquidator,
		blockService:  blockService,
		swappers:      swappers,
	}
}

// inTx runs fn atomically. A nil db (unit tests with fake stores) runs
// fn directly.
func (s *pairService) inTx(fn func(tx *db.DB) error) error {
	if s.db == nil {
		return fn(nil)
	}
	return s.db.Tx(fn)
}

// enter marks the ledger busy for the duration of an operation that may
// call out to an external capability. The runtime serializes mutating
// calls, so a second entry can only be a nested one.
func (s *pairService) enter() error {
	if s.entered {
		return core.ErrReentrancy
	}
	s.entered = true
	return nil
}

func (s *pairService) exit() {
	s.entered = false
}

// ---------------------------------------------------------------------
// interest & exchange rate
// ---------------------------------------------------------------------

func (s *pairService) AccrueInterest(ctx context.Context, tx *db.DB, pair *core.Pair, now time.Time) error {
	changed, err := s.accrue(ctx, pair, now)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	return s.pairStore.Update(ctx, tx, pair)
}

// accrue advances the interest accumulator if the cooldown has elapsed.
// Returns whether the pair was mutated.
func (s *pairService) accrue(ctx context.Context, pair *core.Pair, now time.Time) (bool, error) {
	if pair.RateUpdatedAt > 0 && now.Sub(time.Unix(pair.RateUpdatedAt, 0)) < ledger.InterestCooldown {
		return false, nil
	}

	block, err := s.blockService.GetBlock(ctx, now)
	if err != nil {
		return false, err
	}

	if pair.RateUpdatedAt == 0 {
		// first touch establishes the baseline, no interest yet
		pair.RateUpdatedAt = now.Unix()
		pair.RateBlock = block
		return true, nil
	}

	elapsed := uint64(now.Unix() - pair.RateUpdatedAt)

	rate, err := s.rateCalc.GetNewRate(ctx, pair.CollateralAddress, elapsed, &pair.RateLastShares.Int, &pair.RateLastPrice.Int)
	if err != nil {
		return false, err
	}

	interest := ledger.InterestEarned(elapsed, &pair.BorrowAmount.Int, rate.RatePerSec)
	if !interest.IsZero() {
		pair.BorrowAmount.Int.Add(&pair.BorrowAmount.Int, interest)
		pair.ClaimableFees.Int.Add(&pair.ClaimableFees.Int, interest)
	}

	pair.RatePerSec.Int.Set(rate.RatePerSec)
	pair.RateLastPrice.Int.Set(rate.Price)
	pair.RateLastShares.Int.Set(rate.Shares)
	pair.RateUpdatedAt = now.Unix()
	pair.RateBlock = block

	return true, nil
}

func (s *pairService) UpdateExchangeRate(ctx context.Context, tx *db.DB, pair *core.Pair, now time.Time) error {
	changed, err := s.refreshExchangeRate(ctx, pair, now)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	return s.pairStore.Update(ctx, tx, pair)
}

// refreshExchangeRate queries the oracle at most once per block.
func (s *pairService) refreshExchangeRate(ctx context.Context, pair *core.Pair, now time.Time) (bool, error) {
	block, err := s.blockService.GetBlock(ctx, now)
	if err != nil {
		return false, err
	}

	if pair.ExchangeRateBlock == block {
		return false, nil
	}

	price, err := s.oracle.GetPrices(ctx, pair.CollateralAddress)
	if err != nil {
		return false, err
	}

	pair.ExchangeRate.Int.Set(price)
	pair.ExchangeRateBlock = block
	pair.ExchangeRateAt = now.Unix()

	return true, nil
}

// ---------------------------------------------------------------------
// position helpers
// ---------------------------------------------------------------------

func (s *pairService) findPair(ctx context.Context, address string) (*core.Pair, error) {
	pair, err := s.pairStore.Find(ctx, address)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, core.ErrPairNotFound
		}
		return nil, err
	}
	return pair, nil
}

func (s *pairService) findPosition(ctx context.Context, pair *core.Pair, address string) (*core.Position, error) {
	position, err := s.positionStore.Find(ctx, pair.ID, address)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, core.ErrPositionNotFound
		}
		return nil, err
	}
	return position, nil
}

func (s *pairService) findOrCreatePosition(ctx context.Context, tx *db.DB, pair *core.Pair, address string) (*core.Position, error) {
	position, err := s.findPosition(ctx, pair, address)
	if err == nil {
		return position, nil
	}
	if err != core.ErrPositionNotFound {
		return nil, err
	}

	position = &core.Position{
		PairID:           pair.ID,
		Address:          address,
		RewardEpoch:      pair.RewardEpoch,
		WriteOffSnapshot: pair.WriteOffIndex,
	}
	if err := s.positionStore.Save(ctx, tx, position); err != nil {
		return nil, err
	}

	return position, nil
}

// syncPosition reconciles a position with the pair before any balance
// read: catches stored borrow shares up to the current reward epoch and
// consumes pending write-off claims out of the stored collateral.
func syncPosition(pair *core.Pair, position *core.Position) {
	for position.RewardEpoch < pair.RewardEpoch {
		position.BorrowShares.Int.Div(&position.BorrowShares.Int, ledger.ShareRefactor)
		position.RewardEpoch++
	}

	if position.WriteOffSnapshot.Int.Lt(&pair.WriteOffIndex.Int) {
		delta := new(uint256.Int).Sub(&pair.WriteOffIndex.Int, &position.WriteOffSnapshot.Int)
		claim := new(uint256.Int).Mul(&position.Collateral.Int, delta)
		claim.Div(claim, ledger.WriteOffPrecision)

		// rounding dust may overshoot the stored balance
		if claim.Gt(&position.Collateral.Int) {
			claim.Set(&position.Collateral.Int)
		}
		position.Collateral.Int.Sub(&position.Collateral.Int, claim)
	}
	position.WriteOffSnapshot.Int.Set(&pair.WriteOffIndex.Int)
}

// borrowVault snapshot of the pair's borrow totals as a vault account
func borrowVault(pair *core.Pair) *ledger.VaultAccount {
	return &ledger.VaultAccount{
		Amount: pair.BorrowAmount.Int,
		Shares: pair.BorrowShares.Int,
	}
}

func storeBorrowVault(pair *core.Pair, vault *ledger.VaultAccount) {
	pair.BorrowAmount.Int = vault.Amount
	pair.BorrowShares.Int = vault.Shares
}

// checkSolvency post-condition check, evaluated strictly after the
// operation's effects with the freshest exchange rate and synced
// collateral.
func checkSolvency(pair *core.Pair, position *core.Position) error {
	vault := borrowVault(pair)
	borrowed := vault.ToAmount(&position.BorrowShares.Int, true)

	if !ledger.IsSolvent(pair.MaxLTV, borrowed, &pair.ExchangeRate.Int, &position.Collateral.Int) {
		return core.ErrInsolvent
	}
	return nil
}

func (s *pairService) journal(ctx context.Context, tx *db.DB, asset, source, destination string, amount *uint256.Int, memo string) error {
	transfer := &core.Transfer{
		TraceID:     foxuuid.New(),
		AssetSymbol: asset,
		Source:      source,
		Destination: destination,
		Memo:        memo,
		CreatedAt:   time.Now(),
	}
	transfer.Amount.Int.Set(amount)

	return s.transferStore.Create(ctx, tx, transfer)
}

// ---------------------------------------------------------------------
// collateral
// ---------------------------------------------------------------------

func (s *pairService) AddCollateral(ctx context.Context, pairAddress, source string, amount *uint256.Int, target string, now time.Time) error {
	if amount == nil || amount.IsZero() {
		return core.ErrInvalidAmount
	}
	if target == "" || target == core.ZeroAddress {
		return core.ErrInvalidReceiver
	}

	return s.inTx(func(tx *db.DB) error {
		pair, err := s.findPair(ctx, pairAddress)
		if err != nil {
			return err
		}

		if _, err := s.accrue(ctx, pair, now); err != nil {
			return err
		}
		if _, err := s.refreshExchangeRate(ctx, pair, now); err != nil {
			return err
		}

		position, err := s.findOrCreatePosition(ctx, tx, pair, target)
		if err != nil {
			return err
		}
		syncPosition(pair, position)

		position.Collateral.Int.Add(&position.Collateral.Int, amount)
		pair.TotalCollateral.Int.Add(&pair.TotalCollateral.Int, amount)

		if source != pairAddress {
			if err := s.journal(ctx, tx, pair.CollateralSymbol, source, pairAddress, amount, core.TransferMemoCollateralIn); err != nil {
				return err
			}
		}
		if err := s.journal(ctx, tx, pair.CollateralSymbol, pairAddress, StakingVenue, amount, core.TransferMemoStake); err != nil {
			return err
		}
		if err := s.registry.ClaimRewards(ctx, tx, pairAddress); err != nil {
			return err
		}

		if err := s.positionStore.Update(ctx, tx, position); err != nil {
			return err
		}
		return s.pairStore.Update(ctx, tx, pair)
	})
}

func (s *pairService) RemoveCollateral(ctx context.Context, pairAddress, caller string, amount *uint256.Int, receiver string, now time.Time) error {
	if amount == nil || amount.IsZero() {
		return core.ErrInvalidAmount
	}
	if receiver == "" || receiver == core.ZeroAddress {
		return core.ErrInvalidReceiver
	}

	return s.inTx(func(tx *db.DB) error {
		pair, err := s.findPair(ctx, pairAddress)
		if err != nil {
			return err
		}

		if _, err := s.accrue(ctx, pair, now); err != nil {
			return err
		}
		if _, err := s.refreshExchangeRate(ctx, pair, now); err != nil {
			return err
		}

		position, err := s.findPosition(ctx, pair, caller)
		if err != nil {
			return err
		}
		syncPosition(pair, position)

		if amount.Gt(&position.Collateral.Int) {
			return core.ErrInsufficientCollateral
		}

		position.Collateral.Int.Sub(&position.Collateral.Int, amount)
		pair.TotalCollateral.Int.Sub(&pair.TotalCollateral.Int, amount)

		if err := s.journal(ctx, tx, pair.CollateralSymbol, StakingVenue, pairAddress, amount, core.TransferMemoUnstake); err != nil {
			return err
		}
		if err := s.journal(ctx, tx, pair.CollateralSymbol, pairAddress, receiver, amount, core.TransferMemoCollateralOut); err != nil {
			return err
		}

		if !position.BorrowShares.Int.IsZero() {
			if err := checkSolvency(pair, position); err != nil {
				return err
			}
		}

		if err := s.positionStore.Update(ctx, tx, position); err != nil {
			return err
		}
		return s.pairStore.Update(ctx, tx, pair)
	})
}

// ---------------------------------------------------------------------
// borrow & repay
// ---------------------------------------------------------------------

func (s *pairService) Borrow(ctx context.Context, pairAddress, borrower string, amount, collateralAmount *uint256.Int, receiver string, now time.Time) error {
	if amount == nil || amount.IsZero() {
		return core.ErrInvalidAmount
	}
	if receiver == "" || receiver == core.ZeroAddress {
		return core.ErrInvalidReceiver
	}

	return s.inTx(func(tx *db.DB) error {
		pair, err := s.findPair(ctx, pairAddress)
		if err != nil {
			return err
		}

		if _, err := s.accrue(ctx, pair, now); err != nil {
			return err
		}
		if _, err := s.refreshExchangeRate(ctx, pair, now); err != nil {
			return err
		}

		position, err := s.findOrCreatePosition(ctx, tx, pair, borrower)
		if err != nil {
			return err
		}
		syncPosition(pair, position)

		if collateralAmount != nil && !collateralAmount.IsZero() {
			position.Collateral.Int.Add(&position.Collateral.Int, collateralAmount)
			pair.TotalCollateral.Int.Add(&pair.TotalCollateral.Int, collateralAmount)

			if err := s.journal(ctx, tx, pair.CollateralSymbol, borrower, pairAddress, collateralAmount, core.TransferMemoCollateralIn); err != nil {
				return err
			}
			if err := s.journal(ctx, tx, pair.CollateralSymbol, pairAddress, StakingVenue, collateralAmount, core.TransferMemoStake); err != nil {
				return err
			}
		}

		if err := s.openDebt(ctx, tx, pair, position, amount, receiver); err != nil {
			return err
		}

		if err := checkSolvency(pair, position); err != nil {
			return err
		}

		if err := s.positionStore.Update(ctx, tx, position); err != nil {
			return err
		}
		return s.pairStore.Update(ctx, tx, pair)
	})
}

// openDebt books mint-fee-inflated debt shares for amount and mints the
// asset to receiver. Shared by Borrow and LeveragedPosition.
func (s *pairService) openDebt(ctx context.Context, tx *db.DB, pair *core.Pair, position *core.Position, amount *uint256.Int, receiver string) error {
	if amount.Lt(&pair.MinimumBorrow.Int) {
		return core.ErrInsufficientBorrowAmount
	}

	capacity, err := s.borrowCapacity(ctx, pair)
	if err != nil {
		return err
	}
	if amount.Gt(capacity) {
		return core.ErrInsufficientAssets
	}

	debt := new(uint256.Int).Mul(amount, new(uint256.Int).AddUint64(ledger.FeePrecision, pair.MintFee))
	debt.Div(debt, ledger.FeePrecision)

	fee := new(uint256.Int).Sub(debt, amount)
	pair.ClaimableFees.Int.Add(&pair.ClaimableFees.Int, fee)

	vault := borrowVault(pair)
	shares := vault.ToShares(debt, true)
	vault.Add(debt, shares)
	storeBorrowVault(pair, vault)

	position.BorrowShares.Int.Add(&position.BorrowShares.Int, shares)

	if err := s.registry.Mint(ctx, tx, pair.Address, receiver, amount); err != nil {
		return err
	}
	return s.journal(ctx, tx, pair.AssetSymbol, core.ZeroAddress, receiver, amount, core.TransferMemoMint)
}

// borrowCapacity min(borrowLimit - totalBorrowed, registry mintable cap)
func (s *pairService) borrowCapacity(ctx context.Context, pair *core.Pair) (*uint256.Int, error) {
	capacity := new(uint256.Int)
	if pair.BorrowLimit.Int.Gt(&pair.BorrowAmount.Int) {
		capacity.Sub(&pair.BorrowLimit.Int, &pair.BorrowAmount.Int)
	}

	mintable, err := s.registry.GetMaxMintable(ctx, pair.Address)
	if err != nil {
		return nil, err
	}
	if mintable.Lt(capacity) {
		capacity.Set(mintable)
	}

	return capacity, nil
}

func (s *pairService) Repay(ctx context.Context, pairAddress, payer, borrower string, shares *uint256.Int, now time.Time) (*uint256.Int, error) {
	if shares == nil || shares.IsZero() {
		return nil, core.ErrInvalidAmount
	}

	repaid := new(uint256.Int)
	err := s.inTx(func(tx *db.DB) error {
		pair, err := s.findPair(ctx, pairAddress)
		if err != nil {
			return err
		}

		if _, err := s.accrue(ctx, pair, now); err != nil {
			return err
		}
		if _, err := s.refreshExchangeRate(ctx, pair, now); err != nil {
			return err
		}

		position, err := s.findPosition(ctx, pair, borrower)
		if err != nil {
			return err
		}
		syncPosition(pair, position)

		amount, err := s.payDebt(ctx, tx, pair, position, payer, shares)
		if err != nil {
			return err
		}
		repaid.Set(amount)

		if err := s.positionStore.Update(ctx, tx, position); err != nil {
			return err
		}
		return s.pairStore.Update(ctx, tx, pair)
	})
	if err != nil {
		return nil, err
	}

	return repaid, nil
}

// payDebt retires shares of the borrower's debt. The zero-address payer
// skips the burn (liquidation pass-through). A partial repay may not
// leave a dust remainder below the minimum borrow floor.
func (s *pairService) payDebt(ctx context.Context, tx *db.DB, pair *core.Pair, position *core.Position, payer string, shares *uint256.Int) (*uint256.Int, error) {
	if shares.IsZero() {
		return new(uint256.Int), nil
	}
	if shares.Gt(&position.BorrowShares.Int) {
		return nil, core.ErrInvalidAmount
	}

	vault := borrowVault(pair)
	amount := vault.ToAmount(shares, true)

	vault.Sub(amount, shares)
	storeBorrowVault(pair, vault)
	position.BorrowShares.Int.Sub(&position.BorrowShares.Int, shares)

	if !position.BorrowShares.Int.IsZero() {
		vault = borrowVault(pair)
		remainder := vault.ToAmount(&position.BorrowShares.Int, true)
		if remainder.Lt(&pair.MinimumBorrow.Int) {
			return nil, core.ErrInsufficientBorrowAmount
		}
	}

	if payer != core.ZeroAddress {
		if err := s.registry.Burn(ctx, tx, pair.Address, payer, amount); err != nil {
			return nil, err
		}
		if err := s.journal(ctx, tx, pair.AssetSymbol, payer, core.ZeroAddress, amount, core.TransferMemoBurn); err != nil {
			return nil, err
		}
	}

	return amount, nil
}

// ---------------------------------------------------------------------
// redemption
// ---------------------------------------------------------------------

func (s *pairService) Redeem(ctx context.Context, pairAddress, caller string, amount *uint256.Int, feeFraction uint64, receiver string, now time.Time) error {
	log := logger.FromContext(ctx).WithField("service", "pair")

	if amount == nil || amount.IsZero() {
		return core.ErrInvalidAmount
	}
	if receiver == "" || receiver == core.ZeroAddress {
		return core.ErrInvalidReceiver
	}
	if caller != s.registry.Redeemer() {
		return core.ErrInvalidRedeemer
	}
	if feeFraction >= ledger.FeePrecision.Uint64() {
		return core.ErrInvalidAmount
	}

	return s.inTx(func(tx *db.DB) error {
		pair, err := s.findPair(ctx, pairAddress)
		if err != nil {
			return err
		}

		if _, err := s.accrue(ctx, pair, now); err != nil {
			return err
		}
		if _, err := s.refreshExchangeRate(ctx, pair, now); err != nil {
			return err
		}

		collateralValue := new(uint256.Int).Mul(amount, uint256.NewInt(ledger.FeePrecision.Uint64()-feeFraction))
		collateralValue.Div(collateralValue, ledger.FeePrecision)

		rest := new(uint256.Int).Sub(amount, collateralValue)
		platformFee := new(uint256.Int).Mul(rest, uint256.NewInt(pair.RedemptionFee))
		platformFee.Div(platformFee, ledger.FeePrecision)
		debtReduction := new(uint256.Int).Sub(rest, platformFee)

		if debtReduction.Gt(&pair.BorrowAmount.Int) {
			return core.ErrInsufficientAssetsForRedemption
		}
		remaining := new(uint256.Int).Sub(&pair.BorrowAmount.Int, debtReduction)
		if remaining.Lt(&pair.MinimumLeftover.Int) {
			return core.ErrInsufficientAssetsForRedemption
		}

		pair.BorrowAmount.Int.Set(remaining)
		pair.ClaimableFees.Int.Add(&pair.ClaimableFees.Int, platformFee)

		// refactor borrow shares once the amount/shares ratio has
		// degraded past 1:ShareRefactor; positions catch up lazily
		refactored := new(uint256.Int).Mul(&pair.BorrowAmount.Int, ledger.ShareRefactor)
		if refactored.Lt(&pair.BorrowShares.Int) {
			pair.BorrowShares.Int.Div(&pair.BorrowShares.Int, ledger.ShareRefactor)
			pair.RewardEpoch++
			log.Infof("pair %s refactored borrow shares, epoch %d", pair.Address, pair.RewardEpoch)
		}

		collateralRedeemed := new(uint256.Int).Mul(collateralValue, &pair.ExchangeRate.Int)
		collateralRedeemed.Div(collateralRedeemed, ledger.ExchangePrecision)
		if collateralRedeemed.Gt(&pair.TotalCollateral.Int) {
			collateralRedeemed.Set(&pair.TotalCollateral.Int)
		}

		if !collateralRedeemed.IsZero() {
			writeOff := new(uint256.Int).Mul(collateralRedeemed, ledger.WriteOffPrecision)
			writeOff.Div(writeOff, &pair.TotalCollateral.Int)
			pair.WriteOffIndex.Int.Add(&pair.WriteOffIndex.Int, writeOff)

			pair.TotalCollateral.Int.Sub(&pair.TotalCollateral.Int, collateralRedeemed)

			if err := s.journal(ctx, tx, pair.CollateralSymbol, StakingVenue, pairAddress, collateralRedeemed, core.TransferMemoUnstake); err != nil {
				return err
			}
			if err := s.journal(ctx, tx, pair.CollateralSymbol, pairAddress, receiver, collateralRedeemed, core.TransferMemoRedeem); err != nil {
				return err
			}
		}

		if err := s.registry.Burn(ctx, tx, pair.Address, caller, amount); err != nil {
			return err
		}
		if err := s.journal(ctx, tx, pair.AssetSymbol, caller, core.ZeroAddress, amount, core.TransferMemoBurn); err != nil {
			return err
		}

		return s.pairStore.Update(ctx, tx, pair)
	})
}

// ---------------------------------------------------------------------
// liquidation
// ---------------------------------------------------------------------

func (s *pairService) Liquidate(ctx context.Context, pairAddress, caller, borrower string, now time.Time) error {
	if caller != s.registry.LiquidationHandler() {
		return core.ErrInvalidLiquidator
	}

	if err := s.enter(); err != nil {
		return err
	}
	defer s.exit()

	return s.inTx(func(tx *db.DB) error {
		pair, err := s.findPair(ctx, pairAddress)
		if err != nil {
			return err
		}

		if _, err := s.accrue(ctx, pair, now); err != nil {
			return err
		}
		if _, err := s.refreshExchangeRate(ctx, pair, now); err != nil {
			return err
		}

		position, err := s.findPosition(ctx, pair, borrower)
		if err != nil {
			return err
		}
		syncPosition(pair, position)

		vault := borrowVault(pair)
		borrowed := vault.ToAmount(&position.BorrowShares.Int, true)

		if ledger.IsSolvent(pair.MaxLTV, borrowed, &pair.ExchangeRate.Int, &position.Collateral.Int) {
			return core.ErrBorrowerSolvent
		}

		payout := new(uint256.Int).Mul(borrowed, &pair.ExchangeRate.Int)
		payout.Div(payout, ledger.ExchangePrecision)
		payout.Mul(payout, new(uint256.Int).AddUint64(ledger.FeePrecision, pair.LiquidationFee))
		payout.Div(payout, ledger.FeePrecision)

		// interest keeps accruing between read and use, so the
		// fee-inflated payout can overshoot; clamp to the borrower's
		// full balance
		if payout.Gt(&position.Collateral.Int) {
			payout.Set(&position.Collateral.Int)
		}

		shares := new(uint256.Int).Set(&position.BorrowShares.Int)
		if _, err := s.payDebt(ctx, tx, pair, position, core.ZeroAddress, shares); err != nil {
			return err
		}

		position.Collateral.Int.Sub(&position.Collateral.Int, payout)
		pair.TotalCollateral.Int.Sub(&pair.TotalCollateral.Int, payout)

		if err := s.journal(ctx, tx, pair.CollateralSymbol, StakingVenue, pairAddress, payout, core.TransferMemoUnstake); err != nil {
			return err
		}
		if err := s.journal(ctx, tx, pair.CollateralSymbol, pairAddress, caller, payout, core.TransferMemoSeize); err != nil {
			return err
		}

		if err := s.positionStore.Update(ctx, tx, position); err != nil {
			return err
		}
		if err := s.pairStore.Update(ctx, tx, pair); err != nil {
			return err
		}

		// own state is in place, notify the handler last
		return s.liquidator.ProcessLiquidationDebt(ctx, pair.CollateralAddress, payout, borrowed)
	})
}

// ---------------------------------------------------------------------
// leverage
// ---------------------------------------------------------------------

func (s *pairService) LeveragedPosition(ctx context.Context, pairAddress, borrower, swapper string, borrowAmount, initialCollateral, minCollateralOut *uint256.Int, path []string, now time.Time) error {
	adapter, ok := s.swappers[swapper]
	if !ok {
		return core.ErrBadSwapper
	}

	if err := s.enter(); err != nil {
		return err
	}
	defer s.exit()

	return s.inTx(func(tx *db.DB) error {
		pair, err := s.findPair(ctx, pairAddress)
		if err != nil {
			return err
		}

		if len(path) < 2 || path[0] != pair.AssetAddress || path[len(path)-1] != pair.CollateralAddress {
			return core.ErrInvalidPath
		}

		if _, err := s.accrue(ctx, pair, now); err != nil {
			return err
		}
		if _, err := s.refreshExchangeRate(ctx, pair, now); err != nil {
			return err
		}

		position, err := s.findOrCreatePosition(ctx, tx, pair, borrower)
		if err != nil {
			return err
		}
		syncPosition(pair, position)

		if initialCollateral != nil && !initialCollateral.IsZero() {
			position.Collateral.Int.Add(&position.Collateral.Int, initialCollateral)
			pair.TotalCollateral.Int.Add(&pair.TotalCollateral.Int, initialCollateral)

			if err := s.journal(ctx, tx, pair.CollateralSymbol, borrower, pairAddress, initialCollateral, core.TransferMemoCollateralIn); err != nil {
				return err
			}
			if err := s.journal(ctx, tx, pair.CollateralSymbol, pairAddress, StakingVenue, initialCollateral, core.TransferMemoStake); err != nil {
				return err
			}
		}

		// the pair itself receives the minted asset and swaps it
		if err := s.openDebt(ctx, tx, pair, position, borrowAmount, pairAddress); err != nil {
			return err
		}

		out, err := adapter.SwapExactTokensForTokens(ctx, borrowAmount, minCollateralOut, path, pairAddress, now.Add(swapDeadline))
		if err != nil {
			return err
		}
		if out.Lt(minCollateralOut) {
			return core.ErrSlippageTooHigh
		}

		position.Collateral.Int.Add(&position.Collateral.Int, out)
		pair.TotalCollateral.Int.Add(&pair.TotalCollateral.Int, out)

		if err := s.journal(ctx, tx, pair.CollateralSymbol, pairAddress, StakingVenue, out, core.TransferMemoStake); err != nil {
			return err
		}

		if err := checkSolvency(pair, position); err != nil {
			return err
		}

		if err := s.positionStore.Update(ctx, tx, position); err != nil {
			return err
		}
		return s.pairStore.Update(ctx, tx, pair)
	})
}

func (s *pairService) RepayAssetWithCollateral(ctx context.Context, pairAddress, borrower, swapper string, collateralToSwap, minAssetOut *uint256.Int, path []string, now time.Time) error {
	adapter, ok := s.swappers[swapper]
	if !ok {
		return core.ErrBadSwapper
	}
	if collateralToSwap == nil || collateralToSwap.IsZero() {
		return core.ErrInvalidAmount
	}

	if err := s.enter(); err != nil {
		return err
	}
	defer s.exit()

	return s.inTx(func(tx *db.DB) error {
		pair, err := s.findPair(ctx, pairAddress)
		if err != nil {
			return err
		}

		if len(path) < 2 || path[0] != pair.CollateralAddress || path[len(path)-1] != pair.AssetAddress {
			return core.ErrInvalidPath
		}

		if _, err := s.accrue(ctx, pair, now); err != nil {
			return err
		}
		if _, err := s.refreshExchangeRate(ctx, pair, now); err != nil {
			return err
		}

		position, err := s.findPosition(ctx, pair, borrower)
		if err != nil {
			return err
		}
		syncPosition(pair, position)

		if collateralToSwap.Gt(&position.Collateral.Int) {
			return core.ErrInsufficientCollateral
		}

		position.Collateral.Int.Sub(&position.Collateral.Int, collateralToSwap)
		pair.TotalCollateral.Int.Sub(&pair.TotalCollateral.Int, collateralToSwap)

		if err := s.journal(ctx, tx, pair.CollateralSymbol, StakingVenue, pairAddress, collateralToSwap, core.TransferMemoUnstake); err != nil {
			return err
		}

		out, err := adapter.SwapExactTokensForTokens(ctx, collateralToSwap, minAssetOut, path, pairAddress, now.Add(swapDeadline))
		if err != nil {
			return err
		}
		if out.Lt(minAssetOut) {
			return core.ErrSlippageTooHigh
		}

		vault := borrowVault(pair)
		shares := vault.ToShares(out, false)
		if shares.Gt(&position.BorrowShares.Int) {
			shares.Set(&position.BorrowShares.Int)
		}

		repaid, err := s.payDebt(ctx, tx, pair, position, pairAddress, shares)
		if err != nil {
			return err
		}

		// surplus asset from the swap goes back to the borrower
		if out.Gt(repaid) {
			surplus := new(uint256.Int).Sub(out, repaid)
			if err := s.journal(ctx, tx, pair.AssetSymbol, pairAddress, borrower, surplus, core.TransferMemoCollateralOut); err != nil {
				return err
			}
		}

		if err := checkSolvency(pair, position); err != nil {
			return err
		}

		if err := s.positionStore.Update(ctx, tx, position); err != nil {
			return err
		}
		return s.pairStore.Update(ctx, tx, pair)
	})
}
