package core

import (
	"context"

	"interest/pkg/layout"
	"interest/pkg/number"
)

// Engine the protocol singleton. One engine account exists for the
// whole protocol; only its authority may mutate it.
type Engine struct {
	Address              string `json:"address,omitempty"`
	Authority            string `json:"authority,omitempty"`
	DscMint              string `json:"dsc_mint,omitempty"`
	LiquidationThreshold uint64 `json:"liquidation_threshold,omitempty"`
	MinHealthFactor      uint64 `json:"min_health_factor,omitempty"`
	LiquidationBonus     uint64 `json:"liquidation_bonus,omitempty"`
	FeePercent           uint64 `json:"fee_percent,omitempty"`
	Bump                 uint8  `json:"bump,omitempty"`
}

// EngineRecordSize engine account byte size, discriminator included
const EngineRecordSize = layout.DiscriminatorLen + 2*layout.PubKeyLen + 4*8 + 1

// DecodeEngine decode an engine account
func DecodeEngine(address string, data []byte) (*Engine, error) {
	var (
		authority layout.PubKey
		dscMint   layout.PubKey
		e         Engine
	)

	_, err := layout.ScanRecord(data, "Engine",
		&authority, &dscMint,
		&e.LiquidationThreshold, &e.MinHealthFactor,
		&e.LiquidationBonus, &e.FeePercent, &e.Bump)
	if err != nil {
		return nil, ErrMalformedAccount
	}

	e.Address = address
	e.Authority = authority.String()
	e.DscMint = dscMint.String()
	return &e, nil
}

// TwoPhaseResult outcome of a primary instruction plus its health
// factor upload follow up. A failed follow up leaves the primary effect
// in place with the stored health factor flagged stale.
type TwoPhaseResult struct {
	PrimarySignature  string `json:"primary_signature,omitempty"`
	PrimaryError      string `json:"primary_error,omitempty"`
	FollowUpSignature string `json:"follow_up_signature,omitempty"`
	FollowUpError     string `json:"follow_up_error,omitempty"`
	FollowUpAttempted bool   `json:"follow_up_attempted,omitempty"`
	HealthFactor      uint64 `json:"health_factor,omitempty"`
}

// Ok true when both phases succeeded
func (r *TwoPhaseResult) Ok() bool {
	return r.PrimaryError == "" && r.FollowUpAttempted && r.FollowUpError == ""
}

// Stale true when the primary landed but the health factor upload did
// not; the stored value must be recomputed before trusting it
func (r *TwoPhaseResult) Stale() bool {
	return r.PrimaryError == "" && (!r.FollowUpAttempted || r.FollowUpError != "")
}

// IEngineService health factor engine
type IEngineService interface {
	// FetchEngine read the engine singleton off the ledger
	FetchEngine(ctx context.Context) (*Engine, error)
	// ComputeHealthFactor ratio scaled by 1e6; borrowed == 0 yields the
	// infinity sentinel before any other math
	ComputeHealthFactor(engine *Engine, borrowed, balance, priceUSD number.Scaled) uint64
	// IsLiquidatable hf below the engine minimum, sentinel excluded
	IsLiquidatable(engine *Engine, hf uint64) bool
	// UploadHealthFactor recompute from fresh chain state and submit the
	// dedicated update instruction
	UploadHealthFactor(ctx context.Context, user, tokenMint string) (string, uint64, error)
	// PreviewMint client side precondition: health factor after minting
	// amount more DSC must stay above the engine minimum
	PreviewMint(ctx context.Context, engine *Engine, user, tokenMint string, amount number.Scaled) (uint64, error)
	// PreviewWithdraw same check for removing collateral
	PreviewWithdraw(ctx context.Context, engine *Engine, user, tokenMint string, amount number.Scaled) (uint64, error)
}
