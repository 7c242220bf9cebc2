package core

import "context"

// TokenMeta display metadata for a mint
type TokenMeta struct {
	Address  string `json:"address,omitempty"`
	Name     string `json:"name,omitempty"`
	Symbol   string `json:"symbol,omitempty"`
	Decimals int32  `json:"decimals,omitempty"`
	LogoURL  string `json:"logo_url,omitempty"`
}

// IAssetService token metadata lookup, a read through cache. Unknown
// mints resolve to a truncated-address fallback rather than an error.
type IAssetService interface {
	Find(ctx context.Context, tokenMint string) (*TokenMeta, error)
}
