package checkpoint

import (
	"context"

	"lendpair/core"

	"github.com/fox-one/pkg/store/db"
)

type checkpointStore struct {
	db *db.DB
}

// New new checkpoint store
func New(db *db.DB) core.ICheckpointStore {
	return &checkpointStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.PriceCheckpoint{})
		if err := tx.AutoMigrate(core.PriceCheckpoint{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *checkpointStore) Create(ctx context.Context, tx *db.DB, checkpoint *core.PriceCheckpoint) error {
	if tx == nil {
		tx = s.db
	}
	if err := tx.Update().Create(checkpoint).Error; err != nil {
		return err
	}
	return nil
}

func (s *checkpointStore) FindByGrid(ctx context.Context, grid int64) (*core.PriceCheckpoint, error) {
	var checkpoint core.PriceCheckpoint
	if err := s.db.View().Where("grid_timestamp=?", grid).First(&checkpoint).Error; err != nil {
		return nil, err
	}

	return &checkpoint, nil
}

func (s *checkpointStore) Last(ctx context.Context) (*core.PriceCheckpoint, error) {
	var checkpoint core.PriceCheckpoint
	if err := s.db.View().Order("timestamp desc").First(&checkpoint).Error; err != nil {
		return nil, err
	}

	return &checkpoint, nil
}

func (s *checkpointStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.View().Model(core.PriceCheckpoint{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
