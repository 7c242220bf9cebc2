package liquidation

import (
	"context"
	"math"

	"interest/config"
	"interest/core"
	"interest/pkg/number"
	ledgersv "interest/service/ledger"

	"github.com/fox-one/pkg/logger"
)

var (
	priceScale = number.Pow10(core.PriceDecimals)
	debtUnits  = number.FromUint64(core.DebtUnitsPerDsc)
)

// maxDebtToCover full outstanding debt in DSC base units, computed on
// scaled integers since the raw uint64 product can wrap
func maxDebtToCover(data *core.UserData) number.Scaled {
	return number.FromUint64(data.BorrowedAmount).Mul(debtUnits)
}

// LiquidationService liquidation selection, sizing and execution. All
// sizing is a client side preview of the program's own math: getting a
// quote right saves a doomed round trip, but the ledger's verdict is
// the only one that counts.
type LiquidationService struct {
	ledger    core.ILedger
	engines   core.IEngineService
	positions core.IPositionService
	oracle    core.IOracleService
	builder   *ledgersv.Builder
}

// New new liquidation service
func New(
	cfg *config.Config,
	ledger core.ILedger,
	engines core.IEngineService,
	positions core.IPositionService,
	oracle core.IOracleService,
	wallet core.IWallet,
) core.ILiquidationService {
	return &LiquidationService{
		ledger:    ledger,
		engines:   engines,
		positions: positions,
		oracle:    oracle,
		builder:   ledgersv.NewBuilder(cfg.Ledger.ProgramID, wallet.Address()),
	}
}

// Candidates positions whose freshly recomputed health factor sits
// below the engine minimum. Positions with any join partner missing are
// excluded outright rather than treated as zero.
func (s *LiquidationService) Candidates(ctx context.Context) ([]*core.LiquidationCandidate, error) {
	engine, err := s.engines.FetchEngine(ctx)
	if err != nil {
		return nil, err
	}

	positions, err := s.positions.Combine(ctx)
	if err != nil {
		return nil, err
	}

	var candidates []*core.LiquidationCandidate
	for _, pos := range positions {
		if !pos.ActionReady() || !pos.UserData.HasDebt() {
			continue
		}

		// a stored hint that drifted from the recompute is the normal
		// state after a price move; only a recompute that could not run
		// against a live price disqualifies
		if !pos.FreshHealthFactorValid {
			continue
		}

		if !s.engines.IsLiquidatable(engine, pos.FreshHealthFactor) {
			continue
		}

		cover, ok := maxDebtToCover(pos.UserData).Uint64()
		if !ok {
			cover = math.MaxUint64
		}

		candidates = append(candidates, &core.LiquidationCandidate{
			Position:       pos,
			MaxDebtToCover: cover,
		})
	}

	return candidates, nil
}

// Quote size a liquidation at debtToCover DSC base units. Mirrors the
// program: the covered debt converts to collateral at the current
// price, the bonus comes on top, and the whole seizure must fit inside
// the target's deposit.
func (s *LiquidationService) Quote(ctx context.Context, engine *core.Engine, pos *core.Position, debtToCover uint64) (*core.LiquidationQuote, error) {
	if !pos.ActionReady() {
		return nil, core.ErrPositionNotFound
	}

	if debtToCover == 0 {
		return nil, core.ErrInvalidAmount
	}

	if number.FromUint64(debtToCover).Cmp(maxDebtToCover(pos.UserData)) > 0 {
		return nil, core.ErrTooMuchRepay
	}

	if !s.engines.IsLiquidatable(engine, pos.FreshHealthFactor) {
		return nil, core.ErrNotLiquidatable
	}

	price, err := s.oracle.GetPriceForMint(ctx, pos.Deposit.TokenMint)
	if err != nil {
		return nil, err
	}

	if !price.IsPositive() {
		return nil, core.ErrInvalidPrice
	}

	dscAmount := number.FromUint64(debtToCover).Div(debtUnits)
	equivalent := dscAmount.Mul(priceScale).Div(price)
	bonus := equivalent.Mul(number.FromUint64(engine.LiquidationBonus)).Div(number.FromUint64(100))
	seizure := equivalent.Add(bonus)

	quote := &core.LiquidationQuote{DebtToCover: debtToCover}
	quote.CollateralSeized, _ = seizure.Uint64()
	quote.Bonus, _ = bonus.Uint64()

	deposit := number.FromUint64(pos.Deposit.TokenAmount)
	if seizure.Cmp(deposit) > 0 {
		quote.Shortfall, _ = seizure.Sub(deposit).Uint64()
		return quote, core.ErrInsufficientCollateralForBonus
	}

	return quote, nil
}

// findPosition the (user, mint) position out of a fresh combine
func (s *LiquidationService) findPosition(ctx context.Context, user, tokenMint string) (*core.Position, error) {
	positions, err := s.positions.UserPositions(ctx, user)
	if err != nil {
		return nil, err
	}

	for _, pos := range positions {
		if pos.Deposit.TokenMint == tokenMint {
			return pos, nil
		}
	}

	return nil, core.ErrPositionNotFound
}

// Liquidate run the full sequential flow: fresh price, client side
// quote, submit liquidate_user, confirm, then refresh the target's
// stored health factor. A failed follow up leaves the liquidation in
// place with the stored value flagged stale; it is never fatal.
func (s *LiquidationService) Liquidate(ctx context.Context, user, tokenMint string, debtToCover uint64) (*core.TwoPhaseResult, error) {
	log := logger.FromContext(ctx).WithField("user", user).WithField("mint", tokenMint)

	engine, err := s.engines.FetchEngine(ctx)
	if err != nil {
		return nil, err
	}

	pos, err := s.findPosition(ctx, user, tokenMint)
	if err != nil {
		return nil, err
	}

	if _, err := s.Quote(ctx, engine, pos, debtToCover); err != nil {
		return nil, err
	}

	price, err := s.oracle.GetPriceForMint(ctx, tokenMint)
	if err != nil {
		return nil, err
	}

	priceRaw, ok := price.Uint64()
	if !ok || priceRaw == 0 {
		return nil, core.ErrInvalidPrice
	}

	ins, err := s.builder.LiquidateUser(tokenMint, user, debtToCover, priceRaw)
	if err != nil {
		return nil, err
	}

	result := &core.TwoPhaseResult{}

	signature, err := s.ledger.Submit(ctx, ins)
	if err != nil {
		result.PrimaryError = err.Error()
		return result, err
	}
	result.PrimarySignature = signature

	if err := s.ledger.WaitConfirmed(ctx, signature); err != nil {
		result.PrimaryError = err.Error()
		return result, err
	}

	result.FollowUpAttempted = true
	followUp, hf, err := s.engines.UploadHealthFactor(ctx, user, tokenMint)
	result.FollowUpSignature = followUp
	result.HealthFactor = hf
	if err != nil {
		// the liquidation landed; only the stored health factor is stale
		result.FollowUpError = err.Error()
		log.Errorln("health factor follow up failed:", err)
	}

	return result, nil
}
