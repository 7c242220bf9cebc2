package core

import (
	"context"
	"time"

	"interest/pkg/layout"
	"interest/pkg/number"

	"github.com/fox-one/pkg/store/db"
	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

// PriceRecord per mint on-chain price account. The stored value is a
// hint only: callers fetch a fresh feed price and pass it with every
// instruction that depends on it.
type PriceRecord struct {
	Address   string `json:"address,omitempty"`
	TokenMint string `json:"token_mint,omitempty"`
	Price     uint64 `json:"price,omitempty"`
	Expo      int32  `json:"expo,omitempty"`
	Bump      uint8  `json:"bump,omitempty"`
}

// PriceRecordSize price account byte size
const PriceRecordSize = layout.DiscriminatorLen + layout.PubKeyLen + 8 + 4 + 1

// DecodePriceRecord decode a price account
func DecodePriceRecord(address string, data []byte) (*PriceRecord, error) {
	var (
		mint layout.PubKey
		p    PriceRecord
	)

	_, err := layout.ScanRecord(data, "Price",
		&mint, &p.Price, &p.Expo, &p.Bump)
	if err != nil {
		return nil, ErrMalformedAccount
	}

	p.Address = address
	p.TokenMint = mint.String()
	return &p, nil
}

// Price local price row, one per mint per version
type Price struct {
	ID        int64           `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	TokenMint string          `sql:"size:64;unique_index:idx_prices" json:"token_mint,omitempty"`
	Version   int64           `sql:"default:0;unique_index:idx_prices" json:"version,omitempty"`
	Raw       string          `sql:"size:32" json:"raw,omitempty"`
	Price     decimal.Decimal `sql:"type:decimal(20,8)" json:"price,omitempty"`
	Content   types.JSONText  `sql:"type:varchar(1024)" json:"content,omitempty"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at,omitempty"`
}

// IPriceStore local price store
type IPriceStore interface {
	Create(ctx context.Context, tx *db.DB, price *Price) error
	Latest(ctx context.Context, tokenMint string) (*Price, bool, error)
	All(ctx context.Context) ([]*Price, error)
}

// IOracleService price oracle adapter. Prices are USD scaled by 1e4.
type IOracleService interface {
	// GetPriceForMint current price for the mint. Protocol internal
	// tokens resolve from a fixed override table before any feed lookup.
	GetPriceForMint(ctx context.Context, tokenMint string) (number.Scaled, error)
	// PullAllPrices fetch prices for every mapped mint; per mint errors
	// are reported in the result, not returned
	PullAllPrices(ctx context.Context) map[string]PricePull
}

// PricePull one mint's pull outcome
type PricePull struct {
	TokenMint string        `json:"token_mint,omitempty"`
	Price     number.Scaled `json:"-"`
	Err       error         `json:"-"`
}
