package price

import (
	"context"

	"interest/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type priceStore struct {
	db *db.DB
}

// New new price store
func New(db *db.DB) core.IPriceStore {
	return &priceStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Price{})
		if err := tx.AutoMigrate(core.Price{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *priceStore) Create(ctx context.Context, tx *db.DB, price *core.Price) error {
	return tx.Update().Where(core.Price{
		TokenMint: price.TokenMint,
		Version:   price.Version,
	}).FirstOrCreate(price).Error
}

func (s *priceStore) Latest(ctx context.Context, tokenMint string) (*core.Price, bool, error) {
	var price core.Price
	err := s.db.View().
		Where("token_mint=?", tokenMint).
		Order("version desc").
		First(&price).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &price, true, nil
}

// All the latest row per mint
func (s *priceStore) All(ctx context.Context) ([]*core.Price, error) {
	var prices []*core.Price
	err := s.db.View().
		Order("token_mint, version desc").
		Find(&prices).Error
	if err != nil {
		return nil, err
	}

	out := make([]*core.Price, 0, len(prices))
	seen := make(map[string]bool, len(prices))
	for _, price := range prices {
		if seen[price.TokenMint] {
			continue
		}
		seen[price.TokenMint] = true
		out = append(out, price)
	}

	return out, nil
}
