package position

import (
	"context"

	"interest/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type positionStore struct {
	db *db.DB
}

// New new position snapshot store
func New(db *db.DB) core.IPositionStore {
	return &positionStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.PositionSnapshot{})
		if err := tx.AutoMigrate(core.PositionSnapshot{}).Error; err != nil {
			return err
		}

		return nil
	})
}

// Save upsert keyed on (user, mint) with optimistic versioning: a row
// another writer bumped since the read is left alone
func (s *positionStore) Save(ctx context.Context, tx *db.DB, snapshot *core.PositionSnapshot) error {
	existing, ok, err := s.Find(ctx, snapshot.User, snapshot.TokenMint)
	if err != nil {
		return err
	}

	if !ok {
		snapshot.Version = 1
		return tx.Update().Create(snapshot).Error
	}

	version := existing.Version
	snapshot.ID = existing.ID
	snapshot.Version = version + 1

	return tx.Update().Model(core.PositionSnapshot{}).
		Where("id=? and version=?", existing.ID, version).
		Update(snapshot).Error
}

func (s *positionStore) Find(ctx context.Context, user, tokenMint string) (*core.PositionSnapshot, bool, error) {
	var snapshot core.PositionSnapshot
	err := s.db.View().
		Where("user=? and token_mint=?", user, tokenMint).
		First(&snapshot).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &snapshot, true, nil
}

func (s *positionStore) FindByUser(ctx context.Context, user string) ([]*core.PositionSnapshot, error) {
	var snapshots []*core.PositionSnapshot
	if err := s.db.View().Where("user=?", user).Find(&snapshots).Error; err != nil {
		return nil, err
	}
	return snapshots, nil
}

func (s *positionStore) All(ctx context.Context) ([]*core.PositionSnapshot, error) {
	var snapshots []*core.PositionSnapshot
	if err := s.db.View().Find(&snapshots).Error; err != nil {
		return nil, err
	}
	return snapshots, nil
}

func (s *positionStore) Liquidatable(ctx context.Context) ([]*core.PositionSnapshot, error) {
	var snapshots []*core.PositionSnapshot
	err := s.db.View().
		Where("liquidatable=? and stale=?", true, false).
		Find(&snapshots).Error
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}

func (s *positionStore) MarkStale(ctx context.Context, tx *db.DB, user, tokenMint string) error {
	return tx.Update().Model(core.PositionSnapshot{}).
		Where("user=? and token_mint=?", user, tokenMint).
		Update("stale", true).Error
}
