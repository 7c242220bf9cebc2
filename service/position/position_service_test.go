package position

import (
	"context"
	"testing"

	"interest/core"
	"interest/pkg/layout"
	"interest/pkg/number"

	"github.com/bmizerany/assert"
	"github.com/stretchr/testify/require"
)

func key(b byte) layout.PubKey {
	var p layout.PubKey
	p[0] = b
	return p
}

func encodeRecord(t *testing.T, name string, vals ...interface{}) []byte {
	t.Helper()

	buf, err := layout.Append(layout.Discriminator("account", name), vals...)
	require.Nil(t, err)
	return buf
}

type fakeLedger struct {
	bySize map[int][]*core.RawAccount
}

func (l *fakeLedger) GetProgramAccounts(_ context.Context, _ string, dataSize int) ([]*core.RawAccount, error) {
	return l.bySize[dataSize], nil
}

func (l *fakeLedger) GetAccount(_ context.Context, _ string) (*core.RawAccount, bool, error) {
	return nil, false, nil
}

func (l *fakeLedger) Submit(_ context.Context, _ *core.Instruction) (string, error) {
	return "", nil
}

func (l *fakeLedger) WaitConfirmed(_ context.Context, _ string) error {
	return nil
}

type fakeEngines struct {
	engine *core.Engine
}

func (s *fakeEngines) FetchEngine(_ context.Context) (*core.Engine, error) {
	return s.engine, nil
}

func (s *fakeEngines) ComputeHealthFactor(engine *core.Engine, borrowed, balance, priceUSD number.Scaled) uint64 {
	if !borrowed.IsPositive() {
		return core.HealthFactorInfinity
	}

	hf, _ := balance.Mul(priceUSD).
		Mul(number.FromUint64(engine.LiquidationThreshold)).
		Mul(number.Pow10(core.RatioDecimals)).
		Div(number.FromUint64(100).Mul(number.Pow10(core.PriceDecimals)).Mul(borrowed)).
		Uint64()
	return hf
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
	err   error
}

func (o *fakeOracle) GetPriceForMint(_ context.Context, _ string) (number.Scaled, error) {
	if o.err != nil {
		return number.Zero(), o.err
	}
	return number.FromUint64(o.price), nil
}

func (o *fakeOracle) PullAllPrices(_ context.Context) map[string]core.PricePull {
	return nil
}

type fakePools struct {
	pools []*core.Pool
}

func (s *fakePools) AllPools(_ context.Context) ([]*core.Pool, error) {
	return s.pools, nil
}

func (s *fakePools) FindPool(_ context.Context, tokenMint string) (*core.Pool, error) {
	for _, pool := range s.pools {
		if pool.TokenMint == tokenMint {
			return pool, nil
		}
	}
	return nil, core.ErrPoolNotFound
}

func (s *fakePools) ShareEarnings(_ *core.Pool, _ *core.LpData) uint64 {
	return 0
}

func newTestService(ledger core.ILedger, pools core.IPoolService) *PositionService {
	return &PositionService{
		programID: "program",
		ledger:    ledger,
		pools:     pools,
		engines:   &fakeEngines{engine: &core.Engine{LiquidationThreshold: 50, MinHealthFactor: 1000000}},
		oracle:    &fakeOracle{price: 10000},
	}
}

func TestAllDepositsSkipsAndDedupes(t *testing.T) {
	user, mint, pool := key(1), key(2), key(3)

	good := encodeRecord(t, "Deposit", user, mint, uint64(100000000), pool, uint8(0))
	// a liquidity deposit has the same byte size but a different tag
	wrongTag := encodeRecord(t, "LqDeposit", user, mint, uint64(5), pool, uint8(0))

	ledger := &fakeLedger{bySize: map[int][]*core.RawAccount{
		core.DepositRecordSize: {
			{Address: "dep-1", Data: good},
			{Address: "dep-1", Data: good}, // duplicate address, first wins
			{Address: "dep-2", Data: wrongTag},
			{Address: "dep-3", Data: []byte{1, 2, 3}},
		},
	}}

	s := newTestService(ledger, &fakePools{})

	deposits, err := s.AllDeposits(context.Background())
	require.Nil(t, err)
	require.Equal(t, 1, len(deposits))
	assert.Equal(t, "dep-1", deposits[0].Address)
	assert.Equal(t, user.String(), deposits[0].User)
	assert.Equal(t, uint64(100000000), deposits[0].TokenAmount)
}

func TestCombine(t *testing.T) {
	user, mint, poolKey := key(1), key(2), key(3)
	strayUser := key(9)

	deposit := encodeRecord(t, "Deposit", user, mint, uint64(100000000), poolKey, uint8(0))
	strayDeposit := encodeRecord(t, "Deposit", strayUser, mint, uint64(7), poolKey, uint8(0))
	userData := encodeRecord(t, "UserData",
		user, uint64(40000000), mint, uint64(1250000), uint64(100000000), uint8(0))

	ledger := &fakeLedger{bySize: map[int][]*core.RawAccount{
		core.DepositRecordSize:  {{Address: "dep-1", Data: deposit}, {Address: "dep-2", Data: strayDeposit}},
		core.UserDataRecordSize: {{Address: "user-1", Data: userData}},
	}}

	pools := &fakePools{pools: []*core.Pool{{
		Address:   poolKey.String(),
		TokenMint: mint.String(),
	}}}

	s := newTestService(ledger, pools)

	positions, err := s.Combine(context.Background())
	require.Nil(t, err)
	require.Equal(t, 2, len(positions))

	joined := positions[0]
	assert.Equal(t, true, joined.ActionReady())
	assert.Equal(t, uint64(1250000), joined.FreshHealthFactor)
	assert.Equal(t, true, joined.FreshHealthFactorValid)
	assert.Equal(t, false, joined.HealthFactorStale)

	// the stray deposit has no borrowing record: present but not ready
	stray := positions[1]
	assert.Equal(t, false, stray.ActionReady())
	assert.Equal(t, uint64(0), stray.FreshHealthFactor)
}

func TestCombinePriceDrop(t *testing.T) {
	user, mint, poolKey := key(1), key(2), key(3)

	deposit := encodeRecord(t, "Deposit", user, mint, uint64(100000000), poolKey, uint8(0))
	userData := encodeRecord(t, "UserData",
		user, uint64(40000000), mint, uint64(1250000), uint64(100000000), uint8(0))

	ledger := &fakeLedger{bySize: map[int][]*core.RawAccount{
		core.DepositRecordSize:  {{Address: "dep-1", Data: deposit}},
		core.UserDataRecordSize: {{Address: "user-1", Data: userData}},
	}}

	pools := &fakePools{pools: []*core.Pool{{
		Address:   poolKey.String(),
		TokenMint: mint.String(),
	}}}

	s := newTestService(ledger, pools)
	s.oracle = &fakeOracle{price: 6000}

	positions, err := s.Combine(context.Background())
	require.Nil(t, err)
	require.Equal(t, 1, len(positions))

	// stored hint says 1.25 but at $0.60 the recompute is 0.75: the
	// fresh value stays valid, the drift only flags the stored hint
	pos := positions[0]
	assert.Equal(t, uint64(750000), pos.FreshHealthFactor)
	assert.Equal(t, true, pos.FreshHealthFactorValid)
	assert.Equal(t, true, pos.HealthFactorStale)
}

func TestCombinePriceFailure(t *testing.T) {
	user, mint, poolKey := key(1), key(2), key(3)

	deposit := encodeRecord(t, "Deposit", user, mint, uint64(100000000), poolKey, uint8(0))
	userData := encodeRecord(t, "UserData",
		user, uint64(40000000), mint, uint64(1250000), uint64(100000000), uint8(0))

	ledger := &fakeLedger{bySize: map[int][]*core.RawAccount{
		core.DepositRecordSize:  {{Address: "dep-1", Data: deposit}},
		core.UserDataRecordSize: {{Address: "user-1", Data: userData}},
	}}

	pools := &fakePools{pools: []*core.Pool{{
		Address:   poolKey.String(),
		TokenMint: mint.String(),
	}}}

	s := newTestService(ledger, pools)
	s.oracle = &fakeOracle{err: core.ErrInvalidPrice}

	positions, err := s.Combine(context.Background())
	require.Nil(t, err)
	require.Equal(t, 1, len(positions))

	// no live price: the stored hint is echoed and flagged unusable
	pos := positions[0]
	assert.Equal(t, uint64(1250000), pos.FreshHealthFactor)
	assert.Equal(t, false, pos.FreshHealthFactorValid)
	assert.Equal(t, true, pos.HealthFactorStale)
}

func TestCombinePoolMismatch(t *testing.T) {
	user, mint, poolKey := key(1), key(2), key(3)

	deposit := encodeRecord(t, "Deposit", user, mint, uint64(100000000), key(8), uint8(0))
	userData := encodeRecord(t, "UserData",
		user, uint64(40000000), mint, uint64(1250000), uint64(100000000), uint8(0))

	ledger := &fakeLedger{bySize: map[int][]*core.RawAccount{
		core.DepositRecordSize:  {{Address: "dep-1", Data: deposit}},
		core.UserDataRecordSize: {{Address: "user-1", Data: userData}},
	}}

	pools := &fakePools{pools: []*core.Pool{{
		Address:   poolKey.String(),
		TokenMint: mint.String(),
	}}}

	s := newTestService(ledger, pools)

	positions, err := s.Combine(context.Background())
	require.Nil(t, err)
	require.Equal(t, 1, len(positions))

	// the pool back reference does not match the fetched pool
	assert.Equal(t, false, positions[0].ActionReady())
	assert.Equal(t, true, positions[0].UserData != nil)
}
