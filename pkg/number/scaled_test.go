package number

import (
	"testing"

	"github.com/bmizerany/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormatRoundTrip(t *testing.T) {
	data := map[string]string{
		"10.50":      "10.5",
		"10.5":       "10.5",
		"0.000001":   "0.000001",
		"100":        "100",
		"0":          "0",
		"1.23456789": "1.234567", // extra precision dropped, not rounded
	}

	for k, v := range data {
		t.Run(k, func(t *testing.T) {
			s, err := Parse(k, 6)
			require.Nil(t, err)
			assert.Equal(t, v, s.Format(6))
		})
	}
}

func TestParseEmpty(t *testing.T) {
	s, err := Parse("", 6)
	require.Nil(t, err)
	assert.Equal(t, true, s.IsZero())
}

func TestParseInvalid(t *testing.T) {
	for _, in := range []string{"abc", "1.2.3", "12a", "1,5", "-1"} {
		_, err := Parse(in, 6)
		assert.Equal(t, ErrInvalidFormat, err)
	}
}

func TestParseTruncatesFraction(t *testing.T) {
	s, err := Parse("1.9999999", 6)
	require.Nil(t, err)
	assert.Equal(t, "1999999", s.String())
}

func TestDivTruncatesTowardZero(t *testing.T) {
	q := FromUint64(7).Div(FromUint64(2))
	assert.Equal(t, "3", q.String())

	q = FromInt64(-7).Div(FromInt64(2))
	assert.Equal(t, "-3", q.String())
}

func TestDivByZero(t *testing.T) {
	assert.Equal(t, true, FromUint64(7).Div(Zero()).IsZero())
}

func TestUint64Bounds(t *testing.T) {
	v, ok := MaxUint64().Uint64()
	require.Equal(t, true, ok)
	assert.Equal(t, uint64(18446744073709551615), v)

	_, ok = MaxUint64().Add(FromUint64(1)).Uint64()
	assert.Equal(t, false, ok)

	_, ok = FromInt64(-1).Uint64()
	assert.Equal(t, false, ok)
}

func TestLargeAmountsExact(t *testing.T) {
	// amounts beyond 2^53 must not lose precision
	a, err := Parse("9007199254740993.000001", 6)
	require.Nil(t, err)
	assert.Equal(t, "9007199254740993000001", a.String())
	assert.Equal(t, "9007199254740993.000001", a.Format(6))
}

func TestFormatScales(t *testing.T) {
	p := FromUint64(50000)
	assert.Equal(t, "5", p.Format(4))

	p = FromUint64(6000)
	assert.Equal(t, "0.6", p.Format(4))
}
