package engine

import (
	"testing"

	"interest/core"
	"interest/pkg/number"

	"github.com/bmizerany/assert"
)

func testEngine() *core.Engine {
	return &core.Engine{
		LiquidationThreshold: 50,
		MinHealthFactor:      1000000,
		LiquidationBonus:     10,
		FeePercent:           5000,
	}
}

func TestComputeHealthFactorZeroDebt(t *testing.T) {
	s := &EngineService{}

	hf := s.ComputeHealthFactor(testEngine(),
		number.Zero(), number.FromUint64(100000000), number.FromUint64(10000))
	assert.Equal(t, core.HealthFactorInfinity, hf)
}

func TestComputeHealthFactor(t *testing.T) {
	s := &EngineService{}

	// 100 tokens at $1.0000 against 40 debt units at threshold 50
	// collateralizes exactly 1.25x
	hf := s.ComputeHealthFactor(testEngine(),
		number.FromUint64(40000000),
		number.FromUint64(100000000),
		number.FromUint64(10000))
	assert.Equal(t, uint64(1250000), hf)

	// same position at $0.6000 drops under water
	hf = s.ComputeHealthFactor(testEngine(),
		number.FromUint64(40000000),
		number.FromUint64(100000000),
		number.FromUint64(6000))
	assert.Equal(t, uint64(750000), hf)
}

func TestComputeHealthFactorMonotonicInPrice(t *testing.T) {
	s := &EngineService{}
	e := testEngine()

	borrowed := number.FromUint64(40000000)
	balance := number.FromUint64(100000000)

	last := uint64(0)
	for _, price := range []uint64{1000, 6000, 10000, 25000} {
		hf := s.ComputeHealthFactor(e, borrowed, balance, number.FromUint64(price))
		if hf <= last {
			t.Fatalf("health factor not increasing at price %d: %d <= %d", price, hf, last)
		}
		last = hf
	}
}

func TestWithdrawFee(t *testing.T) {
	// 10 tokens at $1.0000 with a 5000/1e8 fee rate costs 0.0005 tokens
	fee := WithdrawFee(testEngine(),
		number.FromUint64(10000000), number.FromUint64(10000))
	assert.Equal(t, "500", fee.String())

	// value based rate converted back at the same price: the
	// collateral fee does not move with the price
	fee = WithdrawFee(testEngine(),
		number.FromUint64(10000000), number.FromUint64(20000))
	assert.Equal(t, "500", fee.String())
}

func TestIsLiquidatable(t *testing.T) {
	s := &EngineService{}
	e := testEngine()

	assert.Equal(t, true, s.IsLiquidatable(e, 750000))
	assert.Equal(t, true, s.IsLiquidatable(e, 999999))
	assert.Equal(t, false, s.IsLiquidatable(e, 1000000))
	assert.Equal(t, false, s.IsLiquidatable(e, 1250000))
	assert.Equal(t, false, s.IsLiquidatable(e, core.HealthFactorInfinity))
}
