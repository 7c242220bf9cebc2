package core

// Scales are per field, not global: token amounts and the protocol
// stablecoin carry 6 decimals, USD prices 4, ratios 6. These must match
// the ledger program exactly.
const (
	// TokenDecimals token and DSC amount scale
	TokenDecimals int32 = 6
	// PriceDecimals USD price scale
	PriceDecimals int32 = 4
	// RatioDecimals health factor and engine ratio scale
	RatioDecimals int32 = 6
	// ShareDecimals pool share ratio scale used for LP earnings
	ShareDecimals int32 = 9

	// DebtUnitsPerDsc the ledger books borrowed amounts in units of
	// 1/1000 of a minted DSC token
	DebtUnitsPerDsc uint64 = 1000
)

// HealthFactorInfinity sentinel for "no debt, cannot be liquidated".
// Positions carrying it must bypass numeric health factor math.
const HealthFactorInfinity uint64 = ^uint64(0)
