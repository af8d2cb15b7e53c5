package registry

import (
	"context"

	"lendpair/core"
	"lendpair/pkg/number"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/holiman/uint256"
	"github.com/jinzhu/gorm"
)

type registryService struct {
	db        *db.DB
	tokens    core.ITokenStore
	config    *core.Config
	maxSupply *uint256.Int
}

// New asset registry backed by the token balance store. Pair addresses
// are custody accounts: their asset never sits in a balance row, only
// the per-pair minted counter moves.
func New(db *db.DB, tokens core.ITokenStore, config *core.Config) core.IRegistry {
	return &registryService{
		db:        db,
		tokens:    tokens,
		config:    config,
		maxSupply: number.MustFixed(config.Registry.MaxSupply, 18),
	}
}

func mintedKey(pairAddress string) string {
	return "minted:" + pairAddress
}

func (s *registryService) findOrCreate(ctx context.Context, tx *db.DB, address string) (*core.TokenBalance, error) {
	balance, err := s.tokens.Find(ctx, address)
	if err == nil {
		return balance, nil
	}
	if !gorm.IsRecordNotFoundError(err) {
		return nil, err
	}

	balance = &core.TokenBalance{Address: address}
	if err := s.tokens.Save(ctx, tx, balance); err != nil {
		return nil, err
	}
	return balance, nil
}

func (s *registryService) Mint(ctx context.Context, tx *db.DB, pairAddress, to string, amount *uint256.Int) error {
	if to != pairAddress {
		balance, err := s.findOrCreate(ctx, tx, to)
		if err != nil {
			return err
		}
		balance.Balance.Int.Add(&balance.Balance.Int, amount)
		if err := s.tokens.Update(ctx, tx, balance); err != nil {
			return err
		}
	}

	minted, err := s.findOrCreate(ctx, tx, mintedKey(pairAddress))
	if err != nil {
		return err
	}
	minted.Balance.Int.Add(&minted.Balance.Int, amount)
	return s.tokens.Update(ctx, tx, minted)
}

func (s *registryService) Burn(ctx context.Context, tx *db.DB, pairAddress, from string, amount *uint256.Int) error {
	if from != pairAddress {
		balance, err := s.findOrCreate(ctx, tx, from)
		if err != nil {
			return err
		}
		if amount.Gt(&balance.Balance.Int) {
			return core.ErrInsufficientAssets
		}
		balance.Balance.Int.Sub(&balance.Balance.Int, amount)
		if err := s.tokens.Update(ctx, tx, balance); err != nil {
			return err
		}
	}

	minted, err := s.findOrCreate(ctx, tx, mintedKey(pairAddress))
	if err != nil {
		return err
	}
	if amount.Gt(&minted.Balance.Int) {
		minted.Balance.Int.Clear()
	} else {
		minted.Balance.Int.Sub(&minted.Balance.Int, amount)
	}
	return s.tokens.Update(ctx, tx, minted)
}

func (s *registryService) GetMaxMintable(ctx context.Context, pairAddress string) (*uint256.Int, error) {
	minted, err := s.tokens.Find(ctx, mintedKey(pairAddress))
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return new(uint256.Int).Set(s.maxSupply), nil
		}
		return nil, err
	}

	if minted.Balance.Int.Gt(s.maxSupply) {
		return new(uint256.Int), nil
	}
	return new(uint256.Int).Sub(s.maxSupply, &minted.Balance.Int), nil
}

func (s *registryService) LiquidationHandler() string {
	return s.config.Registry.LiquidationHandler
}

func (s *registryService) Redeemer() string {
	return s.config.Registry.Redeemer
}

func (s *registryService) Owner() string {
	return s.config.Registry.Owner
}

func (s *registryService) ClaimRewards(ctx context.Context, tx *db.DB, pairAddress string) error {
	// reward emissions are settled off-ledger; the claim is a no-op here
	logger.FromContext(ctx).Debugln("claim rewards:", pairAddress)
	return nil
}
