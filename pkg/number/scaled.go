package number

import (
	"errors"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidFormat invalid decimal string
var ErrInvalidFormat = errors.New("invalid decimal format")

var maxUint64 = new(big.Int).SetUint64(^uint64(0))

// Scaled fixed point amount. The raw integer carries the value shifted
// by a per-field number of decimals; the scale is tracked by the caller,
// not by the value. All arithmetic is exact, division truncates toward
// zero to match the ledger's integer division.
type Scaled struct {
	n *big.Int
}

// Zero zero amount
func Zero() Scaled {
	return Scaled{n: new(big.Int)}
}

// FromBig scaled amount from a raw big int
func FromBig(v *big.Int) Scaled {
	return Scaled{n: new(big.Int).Set(v)}
}

// FromUint64 scaled amount from a raw uint64
func FromUint64(v uint64) Scaled {
	return Scaled{n: new(big.Int).SetUint64(v)}
}

// FromInt64 scaled amount from a raw int64
func FromInt64(v int64) Scaled {
	return Scaled{n: big.NewInt(v)}
}

// MaxUint64 the largest representable 64 bit value, used by the ledger
// as the infinite health factor sentinel
func MaxUint64() Scaled {
	return FromBig(maxUint64)
}

// Pow10 10^n as a raw amount
func Pow10(n int32) Scaled {
	if n < 0 {
		return Zero()
	}
	return Scaled{n: new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)}
}

// Parse parse a decimal string into an amount scaled by decimals.
// Extra fraction digits beyond the scale are dropped, not rounded.
// An empty string parses to zero.
func Parse(s string, decimals int32) (Scaled, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero(), nil
	}

	intPart, fracPart := s, ""
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		intPart, fracPart = s[:idx], s[idx+1:]
	}

	if intPart == "" {
		intPart = "0"
	}

	if !isDigits(intPart) || (fracPart != "" && !isDigits(fracPart)) {
		return Zero(), ErrInvalidFormat
	}

	if int32(len(fracPart)) > decimals {
		fracPart = fracPart[:decimals]
	}

	n, ok := new(big.Int).SetString(intPart, 10)
	if !ok {
		return Zero(), ErrInvalidFormat
	}

	n.Mul(n, Pow10(decimals).n)

	if fracPart != "" {
		frac, ok := new(big.Int).SetString(fracPart, 10)
		if !ok {
			return Zero(), ErrInvalidFormat
		}

		frac.Mul(frac, Pow10(decimals-int32(len(fracPart))).n)
		n.Add(n, frac)
	}

	return Scaled{n: n}, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}

// Format render the amount as a decimal string at the given scale,
// trimming trailing fraction zeros
func (s Scaled) Format(decimals int32) string {
	n := s.big()

	neg := n.Sign() < 0
	abs := new(big.Int).Abs(n)

	quo, rem := new(big.Int).QuoRem(abs, Pow10(decimals).n, new(big.Int))

	out := quo.String()
	if rem.Sign() != 0 {
		frac := rem.String()
		for int32(len(frac)) < decimals {
			frac = "0" + frac
		}
		frac = strings.TrimRight(frac, "0")
		out += "." + frac
	}

	if neg {
		out = "-" + out
	}

	return out
}

// Add s + v
func (s Scaled) Add(v Scaled) Scaled {
	return Scaled{n: new(big.Int).Add(s.big(), v.big())}
}

// Sub s - v
func (s Scaled) Sub(v Scaled) Scaled {
	return Scaled{n: new(big.Int).Sub(s.big(), v.big())}
}

// Mul s * v
func (s Scaled) Mul(v Scaled) Scaled {
	return Scaled{n: new(big.Int).Mul(s.big(), v.big())}
}

// Div s / v truncated toward zero. Division by zero returns zero.
func (s Scaled) Div(v Scaled) Scaled {
	if v.big().Sign() == 0 {
		return Zero()
	}
	return Scaled{n: new(big.Int).Quo(s.big(), v.big())}
}

// Cmp -1 if s < v, 0 if equal, 1 if s > v
func (s Scaled) Cmp(v Scaled) int {
	return s.big().Cmp(v.big())
}

// Sign sign of the raw value
func (s Scaled) Sign() int {
	return s.big().Sign()
}

// IsZero true if the raw value is zero
func (s Scaled) IsZero() bool {
	return s.big().Sign() == 0
}

// IsPositive true if the raw value is greater than zero
func (s Scaled) IsPositive() bool {
	return s.big().Sign() > 0
}

// Uint64 the raw value as uint64. ok is false when the value does not
// fit, including negative values.
func (s Scaled) Uint64() (uint64, bool) {
	n := s.big()
	if n.Sign() < 0 || n.Cmp(maxUint64) > 0 {
		return 0, false
	}
	return n.Uint64(), true
}

// Big copy of the raw integer
func (s Scaled) Big() *big.Int {
	return new(big.Int).Set(s.big())
}

// String raw integer string, the ledger wire representation
func (s Scaled) String() string {
	return s.big().String()
}

// Decimal shopspring bridge for display paths
func (s Scaled) Decimal(decimals int32) decimal.Decimal {
	return decimal.NewFromBigInt(s.big(), 0).Shift(-decimals)
}

func (s Scaled) big() *big.Int {
	if s.n == nil {
		return new(big.Int)
	}
	return s.n
}
