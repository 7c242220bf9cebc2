package liquidation

import (
	"context"
	"math"
	"testing"

	"interest/core"
	"interest/pkg/number"

	"github.com/bmizerany/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngines struct{}

func (s *fakeEngines) FetchEngine(_ context.Context) (*core.Engine, error) {
	return testEngine(), nil
}

func (s *fakeEngines) ComputeHealthFactor(_ *core.Engine, _, _, _ number.Scaled) uint64 {
	return 0
}

func (s *fakeEngines) IsLiquidatable(engine *core.Engine, hf uint64) bool {
	return hf != core.HealthFactorInfinity && hf < engine.MinHealthFactor
}

func (s *fakeEngines) UploadHealthFactor(_ context.Context, _, _ string) (string, uint64, error) {
	return "", 0, nil
}

func (s *fakeEngines) PreviewMint(_ context.Context, _ *core.Engine, _, _ string, _ number.Scaled) (uint64, error) {
	return 0, nil
}

func (s *fakeEngines) PreviewWithdraw(_ context.Context, _ *core.Engine, _, _ string, _ number.Scaled) (uint64, error) {
	return 0, nil
}

type fakeOracle struct {
	price uint64
}

func (o *fakeOracle) GetPriceForMint(_ context.Context, _ string) (number.Scaled, error) {
	return number.FromUint64(o.price), nil
}

func (o *fakeOracle) PullAllPrices(_ context.Context) map[string]core.PricePull {
	return nil
}

func testPosition(depositAmount uint64) *core.Position {
	return &core.Position{
		Deposit: &core.Deposit{
			Address:     "dep-1",
			User:        "user-1",
			TokenMint:   "mint-1",
			TokenAmount: depositAmount,
			PoolAccount: "pool-1",
		},
		UserData: &core.UserData{
			User:           "user-1",
			PrimaryToken:   "mint-1",
			BorrowedAmount: 40000000,
			TokenBalance:   depositAmount,
		},
		Pool:                   &core.Pool{Address: "pool-1", TokenMint: "mint-1"},
		FreshHealthFactor:      750000,
		FreshHealthFactorValid: true,
	}
}

type fakePositions struct {
	positions []*core.Position
}

func (s *fakePositions) AllDeposits(_ context.Context) ([]*core.Deposit, error) {
	return nil, nil
}

func (s *fakePositions) AllUsers(_ context.Context) ([]*core.UserData, error) {
	return nil, nil
}

func (s *fakePositions) AllLps(_ context.Context) ([]*core.LpData, error) {
	return nil, nil
}

func (s *fakePositions) AllLqDeposits(_ context.Context) ([]*core.LqDeposit, error) {
	return nil, nil
}

func (s *fakePositions) AllPriceRecords(_ context.Context) ([]*core.PriceRecord, error) {
	return nil, nil
}

func (s *fakePositions) Combine(_ context.Context) ([]*core.Position, error) {
	return s.positions, nil
}

func (s *fakePositions) UserPositions(_ context.Context, user string) ([]*core.Position, error) {
	var out []*core.Position
	for _, pos := range s.positions {
		if pos.Deposit.User == user {
			out = append(out, pos)
		}
	}
	return out, nil
}

func testService(price uint64, positions ...*core.Position) *LiquidationService {
	return &LiquidationService{
		engines:   &fakeEngines{},
		oracle:    &fakeOracle{price: price},
		positions: &fakePositions{positions: positions},
	}
}

func testEngine() *core.Engine {
	return &core.Engine{
		LiquidationThreshold: 50,
		MinHealthFactor:      1000000,
		LiquidationBonus:     10,
	}
}

func TestCandidatesAfterPriceDrop(t *testing.T) {
	// the stored hint still says 1.25 but the recompute at $0.60 is
	// 0.75: the position must be selectable before anyone uploads a
	// fresh value on chain
	pos := testPosition(100000000)
	pos.UserData.HealthFactor = 1250000
	pos.HealthFactorStale = true

	s := testService(6000, pos)

	candidates, err := s.Candidates(context.Background())
	require.Nil(t, err)
	require.Equal(t, 1, len(candidates))
	assert.Equal(t, uint64(40000000000), candidates[0].MaxDebtToCover)
	assert.Equal(t, pos, candidates[0].Position)
}

func TestCandidatesExclusions(t *testing.T) {
	healthy := testPosition(100000000)
	healthy.FreshHealthFactor = 1250000

	noPool := testPosition(100000000)
	noPool.Pool = nil

	noDebt := testPosition(100000000)
	noDebt.UserData.BorrowedAmount = 0
	noDebt.FreshHealthFactor = core.HealthFactorInfinity

	unpriced := testPosition(100000000)
	unpriced.FreshHealthFactorValid = false

	s := testService(6000, healthy, noPool, noDebt, unpriced)

	candidates, err := s.Candidates(context.Background())
	require.Nil(t, err)
	assert.Equal(t, 0, len(candidates))
}

func TestCandidatesMaxCoverSaturates(t *testing.T) {
	pos := testPosition(100000000)
	pos.UserData.BorrowedAmount = math.MaxUint64 / 2

	s := testService(6000, pos)

	candidates, err := s.Candidates(context.Background())
	require.Nil(t, err)
	require.Equal(t, 1, len(candidates))
	assert.Equal(t, uint64(math.MaxUint64), candidates[0].MaxDebtToCover)

	// the raw uint64 product wraps below MaxUint64 here; the scaled
	// compare must not report this cover amount as too much
	_, err = s.Quote(context.Background(), testEngine(), pos, math.MaxUint64)
	assert.NotEqual(t, core.ErrTooMuchRepay, err)
}

func TestQuote(t *testing.T) {
	s := testService(6000)
	pos := testPosition(100000000)

	// cover all 40 DSC of debt at $0.60: 66.666666 tokens of principal
	// plus a 10% bonus
	quote, err := s.Quote(context.Background(), testEngine(), pos, 40000000000)
	require.Nil(t, err)

	assert.Equal(t, uint64(6666666), quote.Bonus)
	assert.Equal(t, uint64(73333332), quote.CollateralSeized)
	assert.Equal(t, uint64(0), quote.Shortfall)
}

func TestQuoteShortfall(t *testing.T) {
	s := testService(6000)
	pos := testPosition(50000000)

	quote, err := s.Quote(context.Background(), testEngine(), pos, 40000000000)
	assert.Equal(t, core.ErrInsufficientCollateralForBonus, err)
	require.NotNil(t, quote)
	assert.Equal(t, uint64(23333332), quote.Shortfall)
}

func TestQuoteTooMuchRepay(t *testing.T) {
	s := testService(6000)
	pos := testPosition(100000000)

	_, err := s.Quote(context.Background(), testEngine(), pos, 40000000001)
	assert.Equal(t, core.ErrTooMuchRepay, err)
}

func TestQuoteNotLiquidatable(t *testing.T) {
	s := testService(10000)
	pos := testPosition(100000000)
	pos.FreshHealthFactor = 1250000

	_, err := s.Quote(context.Background(), testEngine(), pos, 40000000000)
	assert.Equal(t, core.ErrNotLiquidatable, err)
}

func TestQuoteNotReady(t *testing.T) {
	s := testService(10000)
	pos := testPosition(100000000)
	pos.Pool = nil

	_, err := s.Quote(context.Background(), testEngine(), pos, 40000000000)
	assert.Equal(t, core.ErrPositionNotFound, err)
}
