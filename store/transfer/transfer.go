package transfer

import (
	"context"

	"lendpair/core"

	"github.com/fox-one/pkg/store/db"
)

type transferStore struct {
	db *db.DB
}

// New new transfer store
func New(db *db.DB) core.ITransferStore {
	return &transferStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Transfer{})
		if err := tx.AutoMigrate(core.Transfer{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *transferStore) Create(ctx context.Context, tx *db.DB, transfer *core.Transfer) error {
	if tx == nil {
		tx = s.db
	}
	if err := tx.Update().Create(transfer).Error; err != nil {
		return err
	}
	return nil
}

func (s *transferStore) List(ctx context.Context, fromID uint64, limit int) ([]*core.Transfer, error) {
	var transfers []*core.Transfer
	if err := s.db.View().Where("id>?", fromID).Limit(limit).Order("id").Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}
