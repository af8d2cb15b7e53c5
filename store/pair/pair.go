package pair

import (
	"context"

	"lendpair/core"

	"github.com/fox-one/pkg/store/db"
)

type pairStore struct {
	db *db.DB
}

// New new pair store
func New(db *db.DB) core.IPairStore {
	return &pairStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Pair{})
		if err := tx.AutoMigrate(core.Pair{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *pairStore) Save(ctx context.Context, tx *db.DB, pair *core.Pair) error {
	if tx == nil {
		tx = s.db
	}
	if err := tx.Update().Create(pair).Error; err != nil {
		return err
	}
	return nil
}

func (s *pairStore) Find(ctx context.Context, address string) (*core.Pair, error) {
	var pair core.Pair
	if err := s.db.View().Where("address=?", address).First(&pair).Error; err != nil {
		return nil, err
	}

	return &pair, nil
}

func (s *pairStore) All(ctx context.Context) ([]*core.Pair, error) {
	var pairs []*core.Pair
	if err := s.db.View().Find(&pairs).Error; err != nil {
		return nil, err
	}
	return pairs, nil
}

func (s *pairStore) Update(ctx context.Context, tx *db.DB, pair *core.Pair) error {
	if tx == nil {
		tx = s.db
	}

	version := pair.Version
	pair.Version++
	if err := tx.Update().Model(core.Pair{}).Where("address=? and version=?", pair.Address, version).Update(pair).Error; err != nil {
		return err
	}

	return nil
}
