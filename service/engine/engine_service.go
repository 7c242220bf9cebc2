package engine

import (
	"context"

	"interest/config"
	"interest/core"
	"interest/pkg/number"
	ledgersv "interest/service/ledger"

	"github.com/fox-one/pkg/logger"
)

var (
	hundred    = number.FromUint64(100)
	ratioScale = number.Pow10(core.RatioDecimals)
	priceScale = number.Pow10(core.PriceDecimals)
	feeScale   = number.Pow10(8)
)

// WithdrawFee the fee the program takes off a withdrawal, in collateral
// units. The fee rate is a 1e8 scaled fraction of the withdrawal's DSC
// value, converted back to collateral at the same price.
func WithdrawFee(engine *core.Engine, amount, priceUSD number.Scaled) number.Scaled {
	dscValue := amount.Mul(priceUSD).Div(priceScale)
	feeDsc := dscValue.Mul(number.FromUint64(engine.FeePercent)).Div(feeScale)
	return feeDsc.Mul(priceScale).Div(priceUSD)
}

// EngineService health factor engine. All ratio math runs on exact
// integers with truncating division; rounding up anywhere would report
// positions healthier than the program does.
type EngineService struct {
	programID string
	ledger    core.ILedger
	oracle    core.IOracleService
	builder   *ledgersv.Builder
}

// New new engine service
func New(cfg *config.Config, ledger core.ILedger, oracle core.IOracleService, wallet core.IWallet) core.IEngineService {
	return &EngineService{
		programID: cfg.Ledger.ProgramID,
		ledger:    ledger,
		oracle:    oracle,
		builder:   ledgersv.NewBuilder(cfg.Ledger.ProgramID, wallet.Address()),
	}
}

// FetchEngine read the engine singleton off the ledger
func (s *EngineService) FetchEngine(ctx context.Context) (*core.Engine, error) {
	accounts, err := s.ledger.GetProgramAccounts(ctx, s.programID, core.EngineRecordSize)
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	for _, account := range accounts {
		engine, err := core.DecodeEngine(account.Address, account.Data)
		if err != nil {
			log.WithField("account", account.Address).Debugln("skip non engine account:", err)
			continue
		}

		return engine, nil
	}

	return nil, core.ErrEngineNotFound
}

// ComputeHealthFactor 1e6 scaled collateralization ratio. The zero debt
// sentinel is checked before any arithmetic so the ratio math never sees
// a zero divisor.
func (s *EngineService) ComputeHealthFactor(engine *core.Engine, borrowed, balance, priceUSD number.Scaled) uint64 {
	if !borrowed.IsPositive() {
		return core.HealthFactorInfinity
	}

	num := balance.
		Mul(priceUSD).
		Mul(number.FromUint64(engine.LiquidationThreshold)).
		Mul(ratioScale)

	den := hundred.Mul(priceScale).Mul(borrowed)

	hf, ok := num.Div(den).Uint64()
	if !ok {
		// an overflowing ratio is effectively unliquidatable, but the
		// sentinel stays reserved for the zero debt case
		return core.HealthFactorInfinity - 1
	}

	return hf
}

// IsLiquidatable hf below the engine minimum; the sentinel is never
// liquidatable
func (s *EngineService) IsLiquidatable(engine *core.Engine, hf uint64) bool {
	if hf == core.HealthFactorInfinity {
		return false
	}

	return hf < engine.MinHealthFactor
}

// findUser locate the (user, mint) borrowing record on the ledger
func (s *EngineService) findUser(ctx context.Context, user, tokenMint string) (*core.UserData, error) {
	accounts, err := s.ledger.GetProgramAccounts(ctx, s.programID, core.UserDataRecordSize)
	if err != nil {
		return nil, err
	}

	for _, account := range accounts {
		data, err := core.DecodeUserData(account.Address, account.Data)
		if err != nil {
			continue
		}

		if data.User == user && data.PrimaryToken == tokenMint {
			return data, nil
		}
	}

	return nil, core.ErrPositionNotFound
}

// UploadHealthFactor recompute the (user, mint) health factor from
// fresh chain state and upload it with the dedicated update instruction
func (s *EngineService) UploadHealthFactor(ctx context.Context, user, tokenMint string) (string, uint64, error) {
	engine, err := s.FetchEngine(ctx)
	if err != nil {
		return "", 0, err
	}

	data, err := s.findUser(ctx, user, tokenMint)
	if err != nil {
		return "", 0, err
	}

	price, err := s.oracle.GetPriceForMint(ctx, tokenMint)
	if err != nil {
		return "", 0, err
	}

	hf := s.ComputeHealthFactor(engine,
		number.FromUint64(data.BorrowedAmount),
		number.FromUint64(data.TokenBalance),
		price)

	ins, err := s.builder.Temp(tokenMint, user, hf)
	if err != nil {
		return "", 0, err
	}

	signature, err := s.ledger.Submit(ctx, ins)
	if err != nil {
		return "", 0, err
	}

	if err := s.ledger.WaitConfirmed(ctx, signature); err != nil {
		return signature, hf, err
	}

	return signature, hf, nil
}

// PreviewMint health factor after minting amount more DSC. The ledger
// books debt in 1/1000 DSC units, so the minted amount shrinks by that
// factor before it lands on the borrowed balance.
func (s *EngineService) PreviewMint(ctx context.Context, engine *core.Engine, user, tokenMint string, amount number.Scaled) (uint64, error) {
	if !amount.IsPositive() {
		return 0, core.ErrInvalidAmount
	}

	data, err := s.findUser(ctx, user, tokenMint)
	if err != nil {
		return 0, err
	}

	price, err := s.oracle.GetPriceForMint(ctx, tokenMint)
	if err != nil {
		return 0, err
	}

	newDebt := number.FromUint64(data.BorrowedAmount).
		Add(amount.Div(number.FromUint64(core.DebtUnitsPerDsc)))

	hf := s.ComputeHealthFactor(engine, newDebt, number.FromUint64(data.TokenBalance), price)
	if s.IsLiquidatable(engine, hf) {
		return hf, core.ErrLowHealthFactor
	}

	return hf, nil
}

// PreviewWithdraw health factor after releasing amount of collateral
func (s *EngineService) PreviewWithdraw(ctx context.Context, engine *core.Engine, user, tokenMint string, amount number.Scaled) (uint64, error) {
	if !amount.IsPositive() {
		return 0, core.ErrInvalidAmount
	}

	data, err := s.findUser(ctx, user, tokenMint)
	if err != nil {
		return 0, err
	}

	balance := number.FromUint64(data.TokenBalance)
	if balance.Cmp(amount) < 0 {
		return 0, core.ErrInvalidAmount
	}

	price, err := s.oracle.GetPriceForMint(ctx, tokenMint)
	if err != nil {
		return 0, err
	}

	hf := s.ComputeHealthFactor(engine,
		number.FromUint64(data.BorrowedAmount),
		balance.Sub(amount),
		price)
	if s.IsLiquidatable(engine, hf) {
		return hf, core.ErrLowHealthFactor
	}

	return hf, nil
}
