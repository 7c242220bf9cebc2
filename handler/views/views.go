package views

import (
	"interest/core"

	"github.com/shopspring/decimal"
)

// Default default view
type Default struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// DefaultSuccess default success view
var DefaultSuccess = Default{
	Code:    0,
	Message: "success",
}

// Position position snapshot view
type Position struct {
	core.PositionSnapshot
	Symbol string `json:"symbol,omitempty"`
	// HealthFactorDisplay "∞" for debt free positions
	HealthFactorDisplay string `json:"health_factor_display,omitempty"`
}

// Price latest price view
type Price struct {
	TokenMint string          `json:"token_mint"`
	Symbol    string          `json:"symbol,omitempty"`
	Price     decimal.Decimal `json:"price"`
	UpdatedAt int64           `json:"updated_at,omitempty"`
}

// Pool pool view
type Pool struct {
	core.Pool
	Symbol string `json:"symbol,omitempty"`
}

// Engine engine view
type Engine struct {
	core.Engine
}
