package position

import (
	"context"

	"lendpair/core"

	"github.com/fox-one/pkg/store/db"
)

type positionStore struct {
	db *db.DB
}

// New new position store
func New(db *db.DB) core.IPositionStore {
	return &positionStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Position{})
		if err := tx.AutoMigrate(core.Position{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *positionStore) Save(ctx context.Context, tx *db.DB, position *core.Position) error {
	if tx == nil {
		tx = s.db
	}
	if err := tx.Update().Create(position).Error; err != nil {
		return err
	}
	return nil
}

func (s *positionStore) Find(ctx context.Context, pairID uint64, address string) (*core.Position, error) {
	var position core.Position
	if err := s.db.View().Where("pair_id=? and address=?", pairID, address).First(&position).Error; err != nil {
		return nil, err
	}

	return &position, nil
}

func (s *positionStore) FindByPair(ctx context.Context, pairID uint64) ([]*core.Position, error) {
	var positions []*core.Position
	if err := s.db.View().Where("pair_id=?", pairID).Find(&positions).Error; err != nil {
		return nil, err
	}
	return positions, nil
}

func (s *positionStore) All(ctx context.Context) ([]*core.Position, error) {
	var positions []*core.Position
	if err := s.db.View().Find(&positions).Error; err != nil {
		return nil, err
	}
	return positions, nil
}

func (s *positionStore) Update(ctx context.Context, tx *db.DB, position *core.Position) error {
	if tx == nil {
		tx = s.db
	}

	version := position.Version
	position.Version++
	if err := tx.Update().Model(core.Position{}).Where("pair_id=? and address=? and version=?", position.PairID, position.Address, version).Update(position).Error; err != nil {
		return err
	}

	return nil
}
