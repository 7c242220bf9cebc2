package core

import "strconv"

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unknown
	ErrUnknown ErrorCode = 100000
	// ErrOperationForbidden operation forbidden
	ErrOperationForbidden ErrorCode = 100001

	// ErrInvalidFormat amount string is not a decimal number
	ErrInvalidFormat ErrorCode = 100100
	// ErrInvalidAmount amount out of range for the operation
	ErrInvalidAmount ErrorCode = 100101
	// ErrUnmappedMint no price feed registered for the mint
	ErrUnmappedMint ErrorCode = 100102
	// ErrFeedNotFound feed response does not carry the requested id
	ErrFeedNotFound ErrorCode = 100103
	// ErrMalformedAccount account bytes do not decode as the record type
	ErrMalformedAccount ErrorCode = 100104
	// ErrPoolNotFound no pool for the mint
	ErrPoolNotFound ErrorCode = 100105
	// ErrPositionNotFound no position for the user and mint
	ErrPositionNotFound ErrorCode = 100106
	// ErrLowHealthFactor operation would leave the health factor below the minimum
	ErrLowHealthFactor ErrorCode = 100107
	// ErrInsufficientCollateralForBonus collateral cannot cover debt plus bonus
	ErrInsufficientCollateralForBonus ErrorCode = 100108
	// ErrTooMuchRepay debt to cover exceeds outstanding debt
	ErrTooMuchRepay ErrorCode = 100109
	// ErrNotLiquidatable position is solvent
	ErrNotLiquidatable ErrorCode = 100110
	// ErrInvalidPrice zero or negative price
	ErrInvalidPrice ErrorCode = 100111
	// ErrStaleHealthFactor stored health factor must be recomputed before use
	ErrStaleHealthFactor ErrorCode = 100112
	// ErrLedgerRejected the ledger rejected the instruction; authoritative
	ErrLedgerRejected ErrorCode = 100113
	// ErrEngineNotFound the engine singleton is missing on chain
	ErrEngineNotFound ErrorCode = 100114
)

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	return e.String()
}
