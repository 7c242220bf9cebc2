package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Position a joined client side view of one (user, mint) pair. A
// position missing a join partner is not ready for action: it is
// excluded from liquidation and mutation eligibility rather than
// defaulting the missing side to zero.
type Position struct {
	Deposit  *Deposit  `json:"deposit,omitempty"`
	UserData *UserData `json:"user_data,omitempty"`
	Pool     *Pool     `json:"pool,omitempty"`

	// FreshHealthFactor recomputed from current price, not the stored hint
	FreshHealthFactor uint64 `json:"fresh_health_factor,omitempty"`
	// FreshHealthFactorValid the recompute ran against a live price; when
	// false the price pull failed and FreshHealthFactor only echoes the
	// stored hint
	FreshHealthFactorValid bool `json:"fresh_health_factor_valid,omitempty"`
	// HealthFactorStale stored hf drifted from the recomputed one
	HealthFactorStale bool `json:"health_factor_stale,omitempty"`
}

// Key composite join key
func (p *Position) Key() string {
	return p.Deposit.User + "|" + p.Deposit.TokenMint
}

// ActionReady all join partners present and cross-references intact
func (p *Position) ActionReady() bool {
	return p.Deposit != nil && p.UserData != nil && p.Pool != nil
}

// IPositionService position aggregator
type IPositionService interface {
	// AllDeposits fetch and decode every deposit account, skipping
	// malformed records
	AllDeposits(ctx context.Context) ([]*Deposit, error)
	// AllUsers fetch and decode every user record
	AllUsers(ctx context.Context) ([]*UserData, error)
	// AllLps fetch and decode every lp stake
	AllLps(ctx context.Context) ([]*LpData, error)
	// AllLqDeposits fetch and decode every liquidity deposit
	AllLqDeposits(ctx context.Context) ([]*LqDeposit, error)
	// AllPriceRecords fetch and decode every on-chain price account
	AllPriceRecords(ctx context.Context) ([]*PriceRecord, error)
	// Combine join deposits, users and pools by composite key and
	// recompute health factors with current prices
	Combine(ctx context.Context) ([]*Position, error)
	// UserPositions positions for one user
	UserPositions(ctx context.Context, user string) ([]*Position, error)
}

// LiquidationCandidate an undercollateralized position with its sizing
type LiquidationCandidate struct {
	Position *Position `json:"position,omitempty"`
	// MaxDebtToCover upper bound on debt a liquidator may cover, in DSC
	// base units
	MaxDebtToCover uint64 `json:"max_debt_to_cover,omitempty"`
}

// LiquidationQuote preview of a liquidation at a chosen debt amount
type LiquidationQuote struct {
	DebtToCover      uint64 `json:"debt_to_cover,omitempty"`
	CollateralSeized uint64 `json:"collateral_seized,omitempty"`
	Bonus            uint64 `json:"bonus,omitempty"`
	// Shortfall non zero when the deposit cannot pay debt plus bonus
	Shortfall uint64 `json:"shortfall,omitempty"`
}

// ILiquidationService liquidation selector and sizing
type ILiquidationService interface {
	// Candidates liquidatable positions with sizing bounds, filtered on
	// freshly recomputed health factors
	Candidates(ctx context.Context) ([]*LiquidationCandidate, error)
	// Quote size a liquidation client side before spending a round trip
	Quote(ctx context.Context, engine *Engine, pos *Position, debtToCover uint64) (*LiquidationQuote, error)
	// Liquidate run the full sequential flow: fresh price, submit
	// liquidate_user, confirm, then the health factor upload follow up
	Liquidate(ctx context.Context, user, tokenMint string, debtToCover uint64) (*TwoPhaseResult, error)
}

// PositionSnapshot locally persisted joined view, refreshed by the
// scanner worker for display and for the REST surface
type PositionSnapshot struct {
	ID             int64           `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	User           string          `sql:"size:64;unique_index:idx_position_snapshots" json:"user,omitempty"`
	TokenMint      string          `sql:"size:64;unique_index:idx_position_snapshots" json:"token_mint,omitempty"`
	DepositAddress string          `sql:"size:64" json:"deposit_address,omitempty"`
	Collateral     decimal.Decimal `sql:"type:decimal(32,8)" json:"collateral,omitempty"`
	Borrowed       decimal.Decimal `sql:"type:decimal(32,8)" json:"borrowed,omitempty"`
	PriceUSD       decimal.Decimal `sql:"type:decimal(20,8)" json:"price_usd,omitempty"`
	HealthFactor   decimal.Decimal `sql:"type:decimal(20,6)" json:"health_factor,omitempty"`
	Infinite       bool            `sql:"default:false" json:"infinite,omitempty"`
	Stale          bool            `sql:"default:false" json:"stale,omitempty"`
	Liquidatable   bool            `sql:"default:false" json:"liquidatable,omitempty"`
	Version        int64           `sql:"default:0" json:"version,omitempty"`
	UpdatedAt      time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at,omitempty"`
}

// IPositionStore local snapshot store
type IPositionStore interface {
	Save(ctx context.Context, tx *db.DB, snapshot *PositionSnapshot) error
	Find(ctx context.Context, user, tokenMint string) (*PositionSnapshot, bool, error)
	FindByUser(ctx context.Context, user string) ([]*PositionSnapshot, error)
	All(ctx context.Context) ([]*PositionSnapshot, error)
	Liquidatable(ctx context.Context) ([]*PositionSnapshot, error)
	MarkStale(ctx context.Context, tx *db.DB, user, tokenMint string) error
}
