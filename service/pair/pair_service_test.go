package pair

import (
	"context"
	"testing"
	"time"

	"lendpair/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/holiman/uint256"
	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------
// in-memory fakes
// ---------------------------------------------------------------------

type fakePairStore struct {
	rows map[string]core.Pair
}

func newFakePairStore() *fakePairStore {
	return &fakePairStore{rows: make(map[string]core.Pair)}
}

func (s *fakePairStore) Save(ctx context.Context, tx *db.DB, pair *core.Pair) error {
	if pair.ID == 0 {
		pair.ID = uint64(len(s.rows) + 1)
	}
	s.rows[pair.Address] = *pair
	return nil
}

func (s *fakePairStore) Find(ctx context.Context, address string) (*core.Pair, error) {
	row, ok := s.rows[address]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := row
	return &out, nil
}

func (s *fakePairStore) All(ctx context.Context) ([]*core.Pair, error) {
	var out []*core.Pair
	for k := range s.rows {
		row := s.rows[k]
		out = append(out, &row)
	}
	return out, nil
}

func (s *fakePairStore) Update(ctx context.Context, tx *db.DB, pair *core.Pair) error {
	pair.Version++
	s.rows[pair.Address] = *pair
	return nil
}

type positionKey struct {
	pairID  uint64
	address string
}

type fakePositionStore struct {
	rows map[positionKey]core.Position
}

func newFakePositionStore() *fakePositionStore {
	return &fakePositionStore{rows: make(map[positionKey]core.Position)}
}

func (s *fakePositionStore) Save(ctx context.Context, tx *db.DB, position *core.Position) error {
	if position.ID == 0 {
		position.ID = uint64(len(s.rows) + 1)
	}
	s.rows[positionKey{position.PairID, position.Address}] = *position
	return nil
}

func (s *fakePositionStore) Find(ctx context.Context, pairID uint64, address string) (*core.Position, error) {
	row, ok := s.rows[positionKey{pairID, address}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := row
	return &out, nil
}

func (s *fakePositionStore) FindByPair(ctx context.Context, pairID uint64) ([]*core.Position, error) {
	var out []*core.Position
	for k := range s.rows {
		if k.pairID == pairID {
			row := s.rows[k]
			out = append(out, &row)
		}
	}
	return out, nil
}

func (s *fakePositionStore) Update(ctx context.Context, tx *db.DB, position *core.Position) error {
	position.Version++
	s.rows[positionKey{position.PairID, position.Address}] = *position
	return nil
}

func (s *fakePositionStore) All(ctx context.Context) ([]*core.Position, error) {
	return s.FindByPair(ctx, 0)
}

type fakeTransferStore struct {
	rows []*core.Transfer
}

func (s *fakeTransferStore) Create(ctx context.Context, tx *db.DB, transfer *core.Transfer) error {
	transfer.ID = uint64(len(s.rows) + 1)
	s.rows = append(s.rows, transfer)
	return nil
}

func (s *fakeTransferStore) List(ctx context.Context, fromID uint64, limit int) ([]*core.Transfer, error) {
	return s.rows, nil
}

type mintRecord struct {
	to     string
	amount uint256.Int
}

type burnRecord struct {
	from   string
	amount uint256.Int
}

type fakeRegistry struct {
	redeemer string
	handler  string
	owner    string
	mintable uint256.Int
	mints    []mintRecord
	burns    []burnRecord
}

func (r *fakeRegistry) Mint(ctx context.Context, tx *db.DB, pairAddress, to string, amount *uint256.Int) error {
	r.mints = append(r.mints, mintRecord{to: to, amount: *amount})
	return nil
}

func (r *fakeRegistry) Burn(ctx context.Context, tx *db.DB, pairAddress, from string, amount *uint256.Int) error {
	r.burns = append(r.burns, burnRecord{from: from, amount: *amount})
	return nil
}

func (r *fakeRegistry) GetMaxMintable(ctx context.Context, pairAddress string) (*uint256.Int, error) {
	return new(uint256.Int).Set(&r.mintable), nil
}

func (r *fakeRegistry) LiquidationHandler() string { return r.handler }
func (r *fakeRegistry) Redeemer() string           { return r.redeemer }
func (r *fakeRegistry) Owner() string              { return r.owner }

func (r *fakeRegistry) ClaimRewards(ctx context.Context, tx *db.DB, pairAddress string) error {
	return nil
}

type fakeOracle struct {
	price uint256.Int
	calls int
}

func (o *fakeOracle) GetPrices(ctx context.Context, collateralAddress string) (*uint256.Int, error) {
	o.calls++
	return new(uint256.Int).Set(&o.price), nil
}

type fakeRateCalculator struct {
	ratePerSec uint256.Int
	calls      int
}

func (c *fakeRateCalculator) GetNewRate(ctx context.Context, collateralAddress string, elapsed uint64, lastShares, lastPrice *uint256.Int) (*core.NewRate, error) {
	c.calls++
	return &core.NewRate{
		RatePerSec: new(uint256.Int).Set(&c.ratePerSec),
		Price:      uint256.NewInt(1e18),
		Shares:     uint256.NewInt(1e18),
	}, nil
}

type fakeBlockService struct{}

func (s fakeBlockService) GetBlock(ctx context.Context, t time.Time) (int64, error) {
	return t.Unix() / 15, nil
}

func (s fakeBlockService) CurrentBlock(ctx context.Context) (int64, error) {
	return s.GetBlock(ctx, time.Now())
}

type liquidationCall struct {
	collateralAddress string
	collateralAmount  uint256.Int
	debtRepaid        uint256.Int
}

type fakeLiquidationHandler struct {
	calls []liquidationCall
}

func (h *fakeLiquidationHandler) ProcessLiquidationDebt(ctx context.Context, collateralAddress string, collateralAmount, debtRepaid *uint256.Int) error {
	h.calls = append(h.calls, liquidationCall{
		collateralAddress: collateralAddress,
		collateralAmount:  *collateralAmount,
		debtRepaid:        *debtRepaid,
	})
	return nil
}

type fakeSwapAdapter struct {
	out uint256.Int
}

func (a *fakeSwapAdapter) SwapExactTokensForTokens(ctx context.Context, amountIn, minOut *uint256.Int, path []string, recipient string, deadline time.Time) (*uint256.Int, error) {
	return new(uint256.Int).Set(&a.out), nil
}

// ---------------------------------------------------------------------
// fixture
// ---------------------------------------------------------------------

const (
	pairAddr     = "0x00000000000000000000000000000000000pair1"
	borrowerAddr = "0x0000000000000000000000000000000000b0b0b0"
	redeemerAddr = "0x00000000000000000000000000000000redeemer"
	handlerAddr  = "0x000000000000000000000000000000000handler"
	assetAddr    = "0x00000000000000000000000000000000000asset"
	collatAddr   = "0x000000000000000000000000000000collateral"
)

type fixture struct {
	svc       core.IPairService
	pairs     *fakePairStore
	positions *fakePositionStore
	transfers *fakeTransferStore
	registry  *fakeRegistry
	oracle    *fakeOracle
	rates     *fakeRateCalculator
	handler   *fakeLiquidationHandler
	swap      *fakeSwapAdapter
	now       time.Time
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		pairs:     newFakePairStore(),
		positions: newFakePositionStore(),
		transfers: &fakeTransferStore{},
		registry: &fakeRegistry{
			redeemer: redeemerAddr,
			handler:  handlerAddr,
			owner:    "0x0000000000000000000000000000000000owner0",
			mintable: *uint256.NewInt(1_000_000_000),
		},
		oracle:  &fakeOracle{price: *uint256.NewInt(1e18)},
		rates:   &fakeRateCalculator{},
		handler: &fakeLiquidationHandler{},
		swap:    &fakeSwapAdapter{},
		now:     time.Unix(1700000000, 0),
	}

	f.svc = New(
		nil,
		f.pairs,
		f.positions,
		f.transfers,
		f.registry,
		f.oracle,
		f.rates,
		f.handler,
		fakeBlockService{},
		map[string]core.ISwapAdapter{"uniswap": f.swap},
	)

	pair := &core.Pair{
		Address:           pairAddr,
		Symbol:            "STABLE-WETH",
		AssetAddress:      assetAddr,
		AssetSymbol:       "STABLE",
		CollateralAddress: collatAddr,
		CollateralSymbol:  "WETH",
		MaxLTV:            95000,
		BorrowLimit:       core.NewBigInt(1_000_000_000),
		MinimumBorrow:     core.NewBigInt(1),
		MinimumLeftover:   core.NewBigInt(0),
	}
	require.Nil(t, f.pairs.Save(context.Background(), nil, pair))

	return f
}

func (f *fixture) pair(t *testing.T) *core.Pair {
	pair, err := f.pairs.Find(context.Background(), pairAddr)
	require.Nil(t, err)
	return pair
}

func (f *fixture) position(t *testing.T, address string) *core.Position {
	position, err := f.positions.Find(context.Background(), f.pair(t).ID, address)
	require.Nil(t, err)
	return position
}

// ---------------------------------------------------------------------
// scenarios
// ---------------------------------------------------------------------

func TestBorrowSolvencyScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.Nil(t, f.svc.AddCollateral(ctx, pairAddr, borrowerAddr, uint256.NewInt(1000), borrowerAddr, f.now))

	// 900 borrowed against 1000 collateral at 1e18 is 90% ltv
	require.Nil(t, f.svc.Borrow(ctx, pairAddr, borrowerAddr, uint256.NewInt(900), nil, borrowerAddr, f.now))

	pair := f.pair(t)
	assert.Equal(t, uint64(900), pair.BorrowAmount.Uint64())
	assert.Equal(t, uint64(900), pair.BorrowShares.Uint64())

	// 60 more pushes ltv to 96%, past the 95% cap
	err := f.svc.Borrow(ctx, pairAddr, borrowerAddr, uint256.NewInt(60), nil, borrowerAddr, f.now)
	assert.Equal(t, core.ErrInsolvent, err)

	// failed borrow left the stored totals untouched
	pair = f.pair(t)
	assert.Equal(t, uint64(900), pair.BorrowAmount.Uint64())
}

func TestRepayAllZeroesVault(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.Nil(t, f.svc.AddCollateral(ctx, pairAddr, borrowerAddr, uint256.NewInt(1000), borrowerAddr, f.now))
	require.Nil(t, f.svc.Borrow(ctx, pairAddr, borrowerAddr, uint256.NewInt(900), nil, borrowerAddr, f.now))

	shares := f.position(t, borrowerAddr).BorrowShares.Int
	repaid, err := f.svc.Repay(ctx, pairAddr, borrowerAddr, borrowerAddr, &shares, f.now)
	require.Nil(t, err)
	assert.Equal(t, uint64(900), repaid.Uint64())

	pair := f.pair(t)
	assert.True(t, pair.BorrowAmount.IsZero())
	assert.True(t, pair.BorrowShares.IsZero())
	assert.True(t, f.position(t, borrowerAddr).BorrowShares.IsZero())
}

func TestRepayDustRemainder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pair := f.pair(t)
	pair.MinimumBorrow = core.NewBigInt(100)
	require.Nil(t, f.pairs.Update(ctx, nil, pair))

	require.Nil(t, f.svc.AddCollateral(ctx, pairAddr, borrowerAddr, uint256.NewInt(1000), borrowerAddr, f.now))
	require.Nil(t, f.svc.Borrow(ctx, pairAddr, borrowerAddr, uint256.NewInt(900), nil, borrowerAddr, f.now))

	// leaving 50 outstanding is below the 100 floor
	_, err := f.svc.Repay(ctx, pairAddr, borrowerAddr, borrowerAddr, uint256.NewInt(850), f.now)
	assert.Equal(t, core.ErrInsufficientBorrowAmount, err)

	// leaving 100 is allowed
	_, err = f.svc.Repay(ctx, pairAddr, borrowerAddr, borrowerAddr, uint256.NewInt(800), f.now)
	assert.Nil(t, err)
}

func TestBorrowFloorAndCapacity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pair := f.pair(t)
	pair.MinimumBorrow = core.NewBigInt(100)
	pair.BorrowLimit = core.NewBigInt(500)
	require.Nil(t, f.pairs.Update(ctx, nil, pair))

	require.Nil(t, f.svc.AddCollateral(ctx, pairAddr, borrowerAddr, uint256.NewInt(10_000), borrowerAddr, f.now))

	err := f.svc.Borrow(ctx, pairAddr, borrowerAddr, uint256.NewInt(50), nil, borrowerAddr, f.now)
	assert.Equal(t, core.ErrInsufficientBorrowAmount, err)

	err = f.svc.Borrow(ctx, pairAddr, borrowerAddr, uint256.NewInt(600), nil, borrowerAddr, f.now)
	assert.Equal(t, core.ErrInsufficientAssets, err)

	// the registry mintable cap binds too
	f.registry.mintable = *uint256.NewInt(200)
	err = f.svc.Borrow(ctx, pairAddr, borrowerAddr, uint256.NewInt(300), nil, borrowerAddr, f.now)
	assert.Equal(t, core.ErrInsufficientAssets, err)
}

func TestRemoveCollateralGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.Nil(t, f.svc.AddCollateral(ctx, pairAddr, borrowerAddr, uint256.NewInt(1000), borrowerAddr, f.now))
	require.Nil(t, f.svc.Borrow(ctx, pairAddr, borrowerAddr, uint256.NewInt(900), nil, borrowerAddr, f.now))

	err := f.svc.RemoveCollateral(ctx, pairAddr, borrowerAddr, uint256.NewInt(2000), borrowerAddr, f.now)
	assert.Equal(t, core.ErrInsufficientCollateral, err)

	// withdrawing 100 lifts ltv to 100%
	err = f.svc.RemoveCollateral(ctx, pairAddr, borrowerAddr, uint256.NewInt(100), borrowerAddr, f.now)
	assert.Equal(t, core.ErrInsolvent, err)
}

func TestAccrueInterestIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.rates.ratePerSec = *uint256.NewInt(1e10)

	pair := f.pair(t)
	require.Nil(t, f.svc.AccrueInterest(ctx, nil, pair, f.now))
	assert.Equal(t, 0, f.rates.calls, "baseline touch must not hit the calculator")

	later := f.now.Add(2 * time.Hour)
	pair = f.pair(t)
	require.Nil(t, f.svc.AccrueInterest(ctx, nil, pair, later))
	assert.Equal(t, 1, f.rates.calls)

	// within the cooldown the second call is a no-op
	snapshot := *f.pair(t)
	pair = f.pair(t)
	require.Nil(t, f.svc.AccrueInterest(ctx, nil, pair, later.Add(10*time.Minute)))
	assert.Equal(t, 1, f.rates.calls)
	assert.Equal(t, snapshot.RateUpdatedAt, f.pair(t).RateUpdatedAt)
}

func TestAccrueInterestAddsToFees(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.Nil(t, f.svc.AddCollateral(ctx, pairAddr, borrowerAddr, uint256.NewInt(100_000), borrowerAddr, f.now))
	require.Nil(t, f.svc.Borrow(ctx, pairAddr, borrowerAddr, uint256.NewInt(10_000), nil, borrowerAddr, f.now))

	f.rates.ratePerSec = *uint256.NewInt(1e14) // 0.0001/sec

	pair := f.pair(t)
	require.Nil(t, f.svc.AccrueInterest(ctx, nil, pair, f.now.Add(2*time.Hour)))

	// 7200 * 10000 * 1e14 / 1e18 = 7200
	pair = f.pair(t)
	assert.Equal(t, uint64(17200), pair.BorrowAmount.Uint64())
	assert.Equal(t, uint64(7200), pair.ClaimableFees.Uint64())
	assert.Equal(t, uint64(10_000), pair.BorrowShares.Uint64())
}

func TestUpdateExchangeRatePerBlock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pair := f.pair(t)
	require.Nil(t, f.svc.UpdateExchangeRate(ctx, nil, pair, f.now))
	assert.Equal(t, 1, f.oracle.calls)

	pair = f.pair(t)
	require.Nil(t, f.svc.UpdateExchangeRate(ctx, nil, pair, f.now))
	assert.Equal(t, 1, f.oracle.calls, "same block refresh must be a no-op")

	pair = f.pair(t)
	require.Nil(t, f.svc.UpdateExchangeRate(ctx, nil, pair, f.now.Add(15*time.Second)))
	assert.Equal(t, 2, f.oracle.calls)
}

func TestRedeemCapabilityAndFloor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.Nil(t, f.svc.AddCollateral(ctx, pairAddr, borrowerAddr, uint256.NewInt(2000), borrowerAddr, f.now))
	require.Nil(t, f.svc.Borrow(ctx, pairAddr, borrowerAddr, uint256.NewInt(1000), nil, borrowerAddr, f.now))

	err := f.svc.Redeem(ctx, pairAddr, borrowerAddr, uint256.NewInt(100), 2000, redeemerAddr, f.now)
	assert.Equal(t, core.ErrInvalidRedeemer, err)

	pair := f.pair(t)
	pair.MinimumLeftover = core.NewBigInt(995)
	require.Nil(t, f.pairs.Update(ctx, nil, pair))

	// a 98% discount writes 980 of debt off, leaving 20, below the floor
	err = f.svc.Redeem(ctx, pairAddr, redeemerAddr, uint256.NewInt(1000), 98000, redeemerAddr, f.now)
	assert.Equal(t, core.ErrInsufficientAssetsForRedemption, err)
}

func TestRedeemWriteOffSync(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pair := f.pair(t)
	pair.RedemptionFee = 50000 // protocol keeps half the spread
	require.Nil(t, f.pairs.Update(ctx, nil, pair))

	require.Nil(t, f.svc.AddCollateral(ctx, pairAddr, borrowerAddr, uint256.NewInt(1500), borrowerAddr, f.now))
	require.Nil(t, f.svc.AddCollateral(ctx, pairAddr, "other", uint256.NewInt(500), "other", f.now))
	require.Nil(t, f.svc.Borrow(ctx, pairAddr, borrowerAddr, uint256.NewInt(1000), nil, borrowerAddr, f.now))

	// redeem 200 at a 2% discount: 196 collateral value, 2 platform
	// fee, 2 debt write-down
	require.Nil(t, f.svc.Redeem(ctx, pairAddr, redeemerAddr, uint256.NewInt(200), 2000, redeemerAddr, f.now))

	pair = f.pair(t)
	assert.Equal(t, uint64(998), pair.BorrowAmount.Uint64())
	assert.Equal(t, uint64(2), pair.ClaimableFees.Uint64())
	assert.Equal(t, uint64(2000-196), pair.TotalCollateral.Uint64())
	assert.False(t, pair.WriteOffIndex.IsZero())

	// the next touch consumes the borrower's share of the write-off:
	// 1500 * (196e18/2000) / 1e18 = 147
	require.Nil(t, f.svc.AddCollateral(ctx, pairAddr, borrowerAddr, uint256.NewInt(10), borrowerAddr, f.now))
	position := f.position(t, borrowerAddr)
	assert.Equal(t, uint64(1500-147+10), position.Collateral.Uint64())
}

func TestRedeemShareRefactor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// degraded vault: 5 amount backing 1000 shares
	pair := f.pair(t)
	pair.BorrowAmount = core.NewBigInt(5)
	pair.BorrowShares = core.NewBigInt(1000)
	pair.TotalCollateral = core.NewBigInt(10_000)
	require.Nil(t, f.pairs.Update(ctx, nil, pair))

	position := &core.Position{
		PairID:       pair.ID,
		Address:      borrowerAddr,
		Collateral:   core.NewBigInt(10_000),
		BorrowShares: core.NewBigInt(200),
	}
	require.Nil(t, f.positions.Save(ctx, nil, position))

	// a 10% redemption of 10 writes one unit of debt off and trips the
	// refactor threshold
	require.Nil(t, f.svc.Redeem(ctx, pairAddr, redeemerAddr, uint256.NewInt(10), 10000, redeemerAddr, f.now))

	pair = f.pair(t)
	assert.Equal(t, uint64(4), pair.BorrowAmount.Uint64())
	assert.Equal(t, uint64(10), pair.BorrowShares.Uint64())
	assert.Equal(t, int64(1), pair.RewardEpoch)

	// lazy rescale catches the position up on next touch
	require.Nil(t, f.svc.AddCollateral(ctx, pairAddr, borrowerAddr, uint256.NewInt(1), borrowerAddr, f.now))
	position = f.position(t, borrowerAddr)
	assert.Equal(t, uint64(2), position.BorrowShares.Uint64())
	assert.Equal(t, int64(1), position.RewardEpoch)
}

func TestLiquidateGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.Nil(t, f.svc.AddCollateral(ctx, pairAddr, borrowerAddr, uint256.NewInt(1000), borrowerAddr, f.now))
	require.Nil(t, f.svc.Borrow(ctx, pairAddr, borrowerAddr, uint256.NewInt(900), nil, borrowerAddr, f.now))

	err := f.svc.Liquidate(ctx, pairAddr, borrowerAddr, borrowerAddr, f.now)
	assert.Equal(t, core.ErrInvalidLiquidator, err)

	err = f.svc.Liquidate(ctx, pairAddr, handlerAddr, borrowerAddr, f.now)
	assert.Equal(t, core.ErrBorrowerSolvent, err)
}

func TestLiquidatePayoutClamped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pair := f.pair(t)
	pair.LiquidationFee = 10000
	require.Nil(t, f.pairs.Update(ctx, nil, pair))

	require.Nil(t, f.svc.AddCollateral(ctx, pairAddr, borrowerAddr, uint256.NewInt(1000), borrowerAddr, f.now))
	require.Nil(t, f.svc.Borrow(ctx, pairAddr, borrowerAddr, uint256.NewInt(900), nil, borrowerAddr, f.now))

	// collateral halves in value: one asset now buys 2e18 collateral
	f.oracle.price = *uint256.NewInt(2e18)
	later := f.now.Add(15 * time.Second)

	require.Nil(t, f.svc.Liquidate(ctx, pairAddr, handlerAddr, borrowerAddr, later))

	position := f.position(t, borrowerAddr)
	assert.True(t, position.BorrowShares.IsZero())
	assert.True(t, position.Collateral.IsZero(), "payout is clamped to the full balance")

	pair = f.pair(t)
	assert.True(t, pair.BorrowAmount.IsZero())
	assert.True(t, pair.BorrowShares.IsZero())
	assert.True(t, pair.TotalCollateral.IsZero())

	require.Len(t, f.handler.calls, 1)
	call := f.handler.calls[0]
	assert.Equal(t, collatAddr, call.collateralAddress)
	assert.Equal(t, uint64(1000), call.collateralAmount.Uint64())
	assert.Equal(t, uint64(900), call.debtRepaid.Uint64())

	// liquidation repays through the zero sentinel, never burning
	assert.Len(t, f.registry.burns, 0)
}

func TestLeveragedPosition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	path := []string{assetAddr, collatAddr}

	err := f.svc.LeveragedPosition(ctx, pairAddr, borrowerAddr, "sushi", uint256.NewInt(500), uint256.NewInt(300), uint256.NewInt(400), path, f.now)
	assert.Equal(t, core.ErrBadSwapper, err)

	bad := []string{collatAddr, assetAddr}
	err = f.svc.LeveragedPosition(ctx, pairAddr, borrowerAddr, "uniswap", uint256.NewInt(500), uint256.NewInt(300), uint256.NewInt(400), bad, f.now)
	assert.Equal(t, core.ErrInvalidPath, err)

	f.swap.out = *uint256.NewInt(390)
	err = f.svc.LeveragedPosition(ctx, pairAddr, borrowerAddr, "uniswap", uint256.NewInt(500), uint256.NewInt(300), uint256.NewInt(400), path, f.now)
	assert.Equal(t, core.ErrSlippageTooHigh, err)

	f.swap.out = *uint256.NewInt(450)
	require.Nil(t, f.svc.LeveragedPosition(ctx, pairAddr, borrowerAddr, "uniswap", uint256.NewInt(500), uint256.NewInt(300), uint256.NewInt(400), path, f.now))

	position := f.position(t, borrowerAddr)
	assert.Equal(t, uint64(750), position.Collateral.Uint64())
	assert.Equal(t, uint64(500), position.BorrowShares.Uint64())

	// the mint went to the pair itself, not the borrower
	require.NotEmpty(t, f.registry.mints)
	assert.Equal(t, pairAddr, f.registry.mints[len(f.registry.mints)-1].to)
}

func TestRepayAssetWithCollateral(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.Nil(t, f.svc.AddCollateral(ctx, pairAddr, borrowerAddr, uint256.NewInt(1000), borrowerAddr, f.now))
	require.Nil(t, f.svc.Borrow(ctx, pairAddr, borrowerAddr, uint256.NewInt(900), nil, borrowerAddr, f.now))

	path := []string{collatAddr, assetAddr}
	f.swap.out = *uint256.NewInt(180)

	require.Nil(t, f.svc.RepayAssetWithCollateral(ctx, pairAddr, borrowerAddr, "uniswap", uint256.NewInt(200), uint256.NewInt(170), path, f.now))

	position := f.position(t, borrowerAddr)
	assert.Equal(t, uint64(800), position.Collateral.Uint64())
	assert.Equal(t, uint64(720), position.BorrowShares.Uint64())

	pair := f.pair(t)
	assert.Equal(t, uint64(720), pair.BorrowAmount.Uint64())
}
