package oracle

import (
	"testing"

	"github.com/bmizerany/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePriceNegativeExpo(t *testing.T) {
	// mantissa 500000000 at expo -8 is $5.0000
	price, err := normalizePrice("500000000", -8)
	require.Nil(t, err)
	assert.Equal(t, "50000", price.String())
}

func TestNormalizePricePositiveExpo(t *testing.T) {
	price, err := normalizePrice("5", 2)
	require.Nil(t, err)
	assert.Equal(t, "5000000", price.String())
}

func TestNormalizePriceTruncates(t *testing.T) {
	// 1.23456789 at 1e4 keeps four decimals, drops the rest
	price, err := normalizePrice("123456789", -8)
	require.Nil(t, err)
	assert.Equal(t, "12345", price.String())
}

func TestNormalizePriceBadMantissa(t *testing.T) {
	_, err := normalizePrice("not-a-number", -8)
	require.NotNil(t, err)
}

func TestNormalizeFeedID(t *testing.T) {
	assert.Equal(t, "ef0d8b6f", normalizeFeedID("0xEF0D8B6F"))
	assert.Equal(t, "ef0d8b6f", normalizeFeedID("ef0d8b6f"))
	assert.Equal(t, "ef0d8b6f", normalizeFeedID("0Xef0d8B6F"))
}
