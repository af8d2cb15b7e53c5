package token

import (
	"context"

	"lendpair/core"

	"github.com/fox-one/pkg/store/db"
)

type tokenStore struct {
	db *db.DB
}

// New new token balance store
func New(db *db.DB) core.ITokenStore {
	return &tokenStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.TokenBalance{})
		if err := tx.AutoMigrate(core.TokenBalance{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *tokenStore) Save(ctx context.Context, tx *db.DB, balance *core.TokenBalance) error {
	if tx == nil {
		tx = s.db
	}
	if err := tx.Update().Create(balance).Error; err != nil {
		return err
	}
	return nil
}

func (s *tokenStore) Find(ctx context.Context, address string) (*core.TokenBalance, error) {
	var balance core.TokenBalance
	if err := s.db.View().Where("address=?", address).First(&balance).Error; err != nil {
		return nil, err
	}

	return &balance, nil
}

func (s *tokenStore) Update(ctx context.Context, tx *db.DB, balance *core.TokenBalance) error {
	if tx == nil {
		tx = s.db
	}

	version := balance.Version
	balance.Version++
	if err := tx.Update().Model(core.TokenBalance{}).Where("address=? and version=?", balance.Address, version).Update(balance).Error; err != nil {
		return err
	}

	return nil
}
